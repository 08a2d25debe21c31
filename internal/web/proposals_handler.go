package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/condyapp/portal/internal/action"
	"github.com/condyapp/portal/internal/session"
)

func (h *Handler) handleListProposals(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.ListProposals(r.Context(), s, r.URL.Query().Get("chamado_id")))
}

func (h *Handler) handleSendProposal(w http.ResponseWriter, r *http.Request) {
	var in action.SendProposalInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.SendProposal(r.Context(), s, in))
}

func (h *Handler) handleAcceptProposal(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.AcceptProposal(r.Context(), s, chi.URLParam(r, "id")))
}

func (h *Handler) handleRejectProposal(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Motivo string `json:"motivo"`
	}
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.RejectProposal(r.Context(), s, chi.URLParam(r, "id"), in.Motivo))
}

func (h *Handler) handleDecideCounterProposal(w http.ResponseWriter, r *http.Request) {
	var in action.DecideCounterInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}
	in.PropostaID = chi.URLParam(r, "id")

	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.DecideCounterProposal(r.Context(), s, in))
}
