package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/ledgerql/internal/http/export"
	"github.com/MrJamesThe3rd/ledgerql/internal/http/graphql"
	"github.com/MrJamesThe3rd/ledgerql/internal/http/importcsv"
	ledgerMiddleware "github.com/MrJamesThe3rd/ledgerql/internal/http/middleware"
)

func New(
	log zerolog.Logger,
	allowedOrigins []string,
	graphqlV1 *graphql.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(ledgerMiddleware.Logger(log))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	router.Use(middleware.Heartbeat("/health"))

	router.Route("/graphql", graphqlV1.Routes)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/import", importV1.Routes)
		r.Route("/export", exportV1.Routes)
	})

	return router
}
