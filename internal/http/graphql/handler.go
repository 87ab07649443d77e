package graphql

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/rs/zerolog"
)

//go:embed graphiql.html
var graphiqlPage []byte

type Handler struct {
	exec       *relay.Handler
	playground bool
}

// NewHandler serves schema over HTTP. When playground is set, GET requests
// receive the GraphiQL explorer.
func NewHandler(schema *graphqlgo.Schema, playground bool) *Handler {
	return &Handler{
		exec:       &relay.Handler{Schema: schema},
		playground: playground,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(middleware.AllowContentType("application/json")).Post("/", h.query)
	r.Get("/", h.graphiql)
}

// query answers 200 even when the response carries GraphQL errors.
func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	h.exec.ServeHTTP(w, r)
}

func (h *Handler) graphiql(w http.ResponseWriter, r *http.Request) {
	if !h.playground {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := w.Write(graphiqlPage); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write graphiql page")
	}
}
