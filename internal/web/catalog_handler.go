package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/condyapp/portal/internal/session"
)

func (h *Handler) handleListProperties(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.ListProperties(r.Context(), s))
}

func (h *Handler) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.GetProperty(r.Context(), s, chi.URLParam(r, "id")))
}

func (h *Handler) handleListAssets(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.ListAssets(r.Context(), s, chi.URLParam(r, "id")))
}

func (h *Handler) handleListProviders(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.ListProviders(r.Context(), s, r.URL.Query().Get("especialidade")))
}
