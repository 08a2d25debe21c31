package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/condyapp/portal/internal/action"
	"github.com/condyapp/portal/internal/session"
)

func (h *Handler) handleListTickets(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	in := action.ListTicketsInput{
		Status:   r.URL.Query().Get("status"),
		ImovelID: r.URL.Query().Get("imovel_id"),
	}
	h.writeResult(w, r, h.actions.ListTickets(r.Context(), s, in))
}

func (h *Handler) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.GetTicket(r.Context(), s, chi.URLParam(r, "id")))
}

func (h *Handler) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var in action.CreateTicketInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.CreateTicket(r.Context(), s, in))
}

func (h *Handler) handleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	var in action.UpdateTicketInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.UpdateTicket(r.Context(), s, chi.URLParam(r, "id"), in))
}

func (h *Handler) handleUpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.UpdateTicketStatus(r.Context(), s, chi.URLParam(r, "id"), in.Status))
}

func (h *Handler) handleAssignProvider(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PrestadorID string `json:"prestador_id"`
	}
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.AssignProvider(r.Context(), s, chi.URLParam(r, "id"), in.PrestadorID))
}

func (h *Handler) handleAllocateProvider(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, h.actions.AllocateProvider(r.Context(), chi.URLParam(r, "id")))
}
