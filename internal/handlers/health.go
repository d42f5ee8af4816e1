package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func registerHealth(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(req.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(req.Context(), w, http.StatusOK, map[string]string{"status": "ready"})
	})
}
