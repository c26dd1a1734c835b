// Package api wires the GraphQL schema onto an HTTP router, grounded on
// dittofs's pkg/controlplane/api/router.go use of go-chi/chi/v5.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	graphql "github.com/graph-gophers/graphql-go"
	graphqlrelay "github.com/graph-gophers/graphql-go/relay"

	"github.com/ovlmount/ovlmount/internal/logger"
)

// NewRouter mounts the GraphQL handler at /graphql behind request logging
// and panic recovery middleware.
func NewRouter(schema *graphql.Schema) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Handle("/graphql", graphqlrelay.Handler(schema))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		logger.InfoCtx(req.Context(), "http request", logger.Path(req.URL.Path))
		next.ServeHTTP(w, req)
	})
}
