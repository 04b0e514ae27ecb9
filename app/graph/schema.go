// Package graph exposes the catalog reads over GraphQL.
//
//	{ categories { id name image status } }
//	{ products(category_id: 2) { id name category_name } }
//
// It answers from the same repositories and projections as the REST reads.
package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/app/models"
)

// Categories is the read side of the category store.
type Categories interface {
	ListActive(ctx context.Context) ([]models.CategoryView, error)
	Find(ctx context.Context, id uint) (*models.CategoryView, error)
	Dropdown(ctx context.Context) ([]models.DropdownItem, error)
}

// Products is the read side of the product store.
type Products interface {
	ListActive(ctx context.Context, categoryID *uint) ([]models.ProductView, error)
	Find(ctx context.Context, id uint) (*models.ProductView, error)
}

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"image":  &graphql.Field{Type: graphql.String},
		"status": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var dropdownType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DropdownItem",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"image":         &graphql.Field{Type: graphql.String},
		"description":   &graphql.Field{Type: graphql.String},
		"category_id":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"category_name": &graphql.Field{Type: graphql.String},
		"status":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

// NewSchema builds the read-only schema over cats and prods.
func NewSchema(cats Categories, prods Products) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(categoryType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					list, err := cats.ListActive(p.Context)
					return nonNil(list), err
				},
			},
			"category": &graphql.Field{
				Type: categoryType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := uintArg(p, "id")
					if !ok {
						return nil, nil
					}
					c, err := cats.Find(p.Context, id)
					if err != nil || c == nil {
						return nil, err
					}
					return c, nil
				},
			},
			"dropdown": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(dropdownType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, err := cats.Dropdown(p.Context)
					return nonNil(items), err
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Args: graphql.FieldConfigArgument{
					"category_id": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var filter *uint
					if _, given := p.Args["category_id"]; given {
						id, ok := uintArg(p, "category_id")
						if !ok {
							return []models.ProductView{}, nil
						}
						filter = &id
					}
					list, err := prods.ListActive(p.Context, filter)
					return nonNil(list), err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := uintArg(p, "id")
					if !ok {
						return nil, nil
					}
					pv, err := prods.Find(p.Context, id)
					if err != nil || pv == nil {
						return nil, err
					}
					return pv, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

var idArg = graphql.FieldConfigArgument{
	"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
}

// uintArg reads a non-negative Int argument.
func uintArg(p graphql.ResolveParams, name string) (uint, bool) {
	n, ok := p.Args[name].(int)
	if !ok || n < 0 {
		return 0, false
	}
	return uint(n), true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
