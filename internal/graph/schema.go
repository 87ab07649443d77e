package graph

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"
)

//go:embed schema.graphql
var schemaSDL string

type Options struct {
	MaxDepth       int
	MaxParallelism int
}

// NewSchema parses the embedded schema against r. It fails when a resolver
// signature does not match a schema field.
func NewSchema(r *Resolver, opts Options) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.Logger(panicLogger{}),
	}

	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}

	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}

	schema, err := graphql.ParseSchema(schemaSDL, r, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("parsing graphql schema: %w", err)
	}

	return schema, nil
}

type panicLogger struct{}

func (panicLogger) LogPanic(ctx context.Context, value interface{}) {
	zerolog.Ctx(ctx).Error().
		Interface("panic", value).
		Msg("graphql resolver panicked")
}
