package controllers

import (
	"sort"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/app/services"
	"github.com/shashiranjanraj/agromart/pkg/graphql"
)

// NewCatalogSchema exposes the cached snapshot read-only:
//
//	{ products(category: "fertilizer", search: "urea", bestSelling: true) { id name offerPrice } }
//	{ product(id: 1) { name variants { weight price discount } } }
//	{ categories { id name productCount } settings { whatsappNumber } }
func NewCatalogSchema(catalog *services.CatalogService) (gql.Schema, error) {
	socialLinksType := gql.NewObject(gql.ObjectConfig{
		Name: "SocialLinks",
		Fields: gql.Fields{
			"facebook":  &gql.Field{Type: gql.String},
			"instagram": &gql.Field{Type: gql.String},
			"twitter":   &gql.Field{Type: gql.String},
			"linkedin":  &gql.Field{Type: gql.String},
		},
	})

	settingsType := gql.NewObject(gql.ObjectConfig{
		Name: "Settings",
		Fields: gql.Fields{
			"whatsappNumber":  &gql.Field{Type: gql.String},
			"contactEmail":    &gql.Field{Type: gql.String},
			"contactAddress":  &gql.Field{Type: gql.String},
			"bannerImage":     &gql.Field{Type: gql.String},
			"heroBannerImage": &gql.Field{Type: gql.String},
			"aboutImage":      &gql.Field{Type: gql.String},
			"socialLinks":     &gql.Field{Type: socialLinksType},
		},
	})

	variantType := gql.NewObject(gql.ObjectConfig{
		Name: "Variant",
		Fields: gql.Fields{
			"weight": &gql.Field{Type: gql.String},
			"price":  &gql.Field{Type: gql.Float},
			"originalPrice": &gql.Field{
				Type: gql.Float,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(models.Variant).Original(), nil
				},
			},
			"isMain": &gql.Field{Type: gql.Boolean},
			"discount": &gql.Field{
				Type: gql.Int,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return p.Source.(models.Variant).Discount(), nil
				},
			},
		},
	})

	detailType := gql.NewObject(gql.ObjectConfig{
		Name: "TechnicalDetail",
		Fields: gql.Fields{
			"name":  &gql.Field{Type: gql.String},
			"value": &gql.Field{Type: gql.String},
		},
	})

	productType := gql.NewObject(gql.ObjectConfig{
		Name: "Product",
		Fields: gql.Fields{
			"id":              &gql.Field{Type: gql.NewNonNull(gql.Int)},
			"name":            &gql.Field{Type: gql.String},
			"image":           &gql.Field{Type: gql.String},
			"category":        &gql.Field{Type: gql.String},
			"originalPrice":   &gql.Field{Type: gql.Int},
			"offerPrice":      &gql.Field{Type: gql.Int},
			"discount":        &gql.Field{Type: gql.Int},
			"rating":          &gql.Field{Type: gql.Float},
			"reviewCount":     &gql.Field{Type: gql.Int},
			"bestSelling":     &gql.Field{Type: gql.Boolean},
			"description":     &gql.Field{Type: gql.String},
			"images":          &gql.Field{Type: gql.NewList(gql.String)},
			"variants":        &gql.Field{Type: gql.NewList(variantType)},
			"bulkOrderNumber": &gql.Field{Type: gql.String},
			"createdAt":       &gql.Field{Type: gql.String},
			"updatedAt":       &gql.Field{Type: gql.String},
			"technicalDetails": &gql.Field{
				Type: gql.NewList(detailType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return details(p.Source.(models.Product).TechnicalDetails), nil
				},
			},
		},
	})

	categoryType := gql.NewObject(gql.ObjectConfig{
		Name: "Category",
		Fields: gql.Fields{
			"id":   &gql.Field{Type: gql.NewNonNull(gql.String)},
			"name": &gql.Field{Type: gql.String},
			"icon": &gql.Field{Type: gql.String},
			"productCount": &gql.Field{
				Type: gql.Int,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id := p.Source.(models.Category).ID
					return len(catalog.Snapshot(p.Context).ProductsByCategory(id)), nil
				},
			},
		},
	})

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewList(productType),
				Args: gql.FieldConfigArgument{
					"category":    &gql.ArgumentConfig{Type: gql.String},
					"search":      &gql.ArgumentConfig{Type: gql.String},
					"bestSelling": &gql.ArgumentConfig{Type: gql.Boolean},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					search, _ := p.Args["search"].(string)
					best, _ := p.Args["bestSelling"].(bool)

					snap := catalog.Snapshot(p.Context)
					filtered := models.Snapshot{Products: snap.ProductsByCategory(category)}
					filtered.Products = filtered.Search(search)
					if best {
						filtered.Products = filtered.BestSelling()
					}
					return filtered.Products, nil
				},
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if product, ok := catalog.Snapshot(p.Context).ProductByID(id); ok {
						return product, nil
					}
					return nil, nil
				},
			},
			"categories": &gql.Field{
				Type: gql.NewList(categoryType),
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return catalog.Snapshot(p.Context).Categories, nil
				},
			},
			"settings": &gql.Field{
				Type: settingsType,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return catalog.Snapshot(p.Context).Settings, nil
				},
			},
		},
	})

	return graphql.NewSchema(query)
}

type detail struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func details(m map[string]string) []detail {
	out := make([]detail, 0, len(m))
	for k, v := range m {
		out = append(out, detail{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
