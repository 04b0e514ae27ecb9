package graph

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
)

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Handler executes POSTed GraphQL queries against schema. GET is accepted
// with the query in ?query= for quick manual use.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return ctx.Wrap(func(c *ctx.Context) {
		var req request
		if c.Method() == http.MethodGet {
			req.Query = c.Query("query")
		} else if err := bind.JSON(c.R, &req); err != nil {
			c.Error(http.StatusBadRequest, err.Error())
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})
		c.JSON(http.StatusOK, result)
	})
}
