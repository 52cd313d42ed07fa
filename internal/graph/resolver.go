package graph

import (
	_ "embed"

	"skidqi-be/internal/category"
	"skidqi-be/internal/navigator"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// maxComplexity caps a single operation. Category.children counts extra
// because every level is a round trip to the database.
const maxComplexity = 300

//go:embed schema.graphqls
var schemaSource string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSource})

type Resolver struct {
	Categories category.Service
	Navigators *navigator.Store
}

func NewSchema(r *Resolver) graphql.ExecutableSchema {
	return &executableSchema{resolver: r}
}

// NewHandler serves the category and navigation API over GraphQL.
func NewHandler(r *Resolver) *handler.Server {
	srv := handler.New(NewSchema(r))
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.Use(extension.FixedComplexityLimit(maxComplexity))
	return srv
}
