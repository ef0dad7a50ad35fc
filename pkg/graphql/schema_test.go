package graphql_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/pkg/graphql"
)

func helloSchema(t *testing.T) gql.Schema {
	t.Helper()
	schema, err := graphql.NewSchema(gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"hello": &gql.Field{
				Type: gql.String,
				Args: gql.FieldConfigArgument{"name": &gql.ArgumentConfig{Type: gql.String}},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					return "hello " + name, nil
				},
			},
		},
	}))
	require.NoError(t, err)
	return schema
}

func TestHandlerPost(t *testing.T) {
	h := graphql.Handler(helloSchema(t))
	body := `{"query":"query($n: String) { hello(name: $n) }","variables":{"n":"farm"}}`
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"hello":"hello farm"}}`, w.Body.String())
}

func TestHandlerGetAndErrors(t *testing.T) {
	h := graphql.Handler(helloSchema(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?query=%7Bhello%7D", nil))
	assert.JSONEq(t, `{"data":{"hello":"hello "}}`, w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ nope }"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"errors"`)
}
