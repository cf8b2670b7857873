package api

import (
	"commute-planner/internal/api/handlers"
	"commute-planner/internal/ports"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of the concrete result store.
func NewRouter(store ports.ResultStore) http.Handler {
	mux := http.NewServeMux()

	runHandler := &handlers.RunHandler{Store: store}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/runs/latest", runHandler.Latest)

	return loggingMiddleware(mux)
}
