// Package ctx is the handler surface of the AgroMart API. A handler takes
// one *Context and answers through its helpers:
//
//	func (p *ProductController) Show(c *ctx.Context) {
//	    id, err := strconv.Atoi(c.Param("id"))
//	    ...
//	    c.Success(map[string]any{"product": product})
//	}
//
//	g.Get("/products/{id}", "products.show", ctx.Wrap(p.Show))
package ctx

import (
	"context"
	"mime"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/agromart/pkg/bind"
	"github.com/shashiranjanraj/agromart/pkg/response"
)

// HandlerFunc is a handler in context form.
type HandlerFunc func(c *Context)

// Wrap adapts h to net/http.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(&Context{W: w, R: r})
	}
}

// Context is one request and its response writer.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

// Context returns the request context, carrying the request ID.
func (c *Context) Context() context.Context { return c.R.Context() }

// Param is a chi path parameter: "/products/{id}" gives c.Param("id").
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ClientIP is the first X-Forwarded-For hop, else X-Real-Ip, else the peer
// address without its port. The login limiter keys on it.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Decode reads the JSON body into dest. Malformed or oversized bodies are
// answered with 400 and Decode reports false.
//
//	var req requests.ProductRequest
//	if !c.Decode(&req) {
//	    return
//	}
func (c *Context) Decode(dest any) bool {
	if err := bind.Decode(c.R, dest); err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

func (c *Context) SetCookie(cookie *http.Cookie) {
	http.SetCookie(c.W, cookie)
}

// Attachment marks the response as a file download named filename.
func (c *Context) Attachment(filename string) {
	c.SetHeader("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

func (c *Context) JSON(code int, v any) {
	response.JSON(c.W, code, v)
}

// Success answers 200 with {"success": true} plus fields.
func (c *Context) Success(fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

// Error answers code with the error envelope.
func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Envelope{Status: code, Message: message})
}

// ValidationError answers 400 with one message per field.
func (c *Context) ValidationError(fields map[string]string) {
	c.JSON(http.StatusBadRequest, response.Envelope{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  fields,
	})
}

func (c *Context) Unauthorized(message string) {
	c.Error(http.StatusUnauthorized, message)
}
