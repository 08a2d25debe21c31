package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/condyapp/portal/internal/action"
	"github.com/condyapp/portal/internal/audit"
	"github.com/condyapp/portal/internal/session"
)

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.ListUsers(r.Context(), s, r.URL.Query().Get("userType")))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	h.writeResult(w, r, h.actions.GetUser(r.Context(), s, chi.URLParam(r, "id")))
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in action.CreateUserInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	s := session.FromContext(r.Context())
	res := h.actions.CreateUser(r.Context(), s, in)
	if res.Success {
		h.auditAdminChange(r, s, "user", "", "create "+in.Email)
	}
	h.writeResult(w, r, res)
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in action.UpdateUserInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	s := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	res := h.actions.UpdateUser(r.Context(), s, id, in)
	if res.Success {
		h.auditAdminChange(r, s, "user", id, "update profile")
	}
	h.writeResult(w, r, res)
}

func (h *Handler) handleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	s := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	res := h.actions.UpdateUserStatus(r.Context(), s, id, in.Status)
	if res.Success {
		h.auditAdminChange(r, s, "user", id, "status "+in.Status)
	}
	h.writeResult(w, r, res)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	res := h.actions.DeleteUser(r.Context(), s, id)
	if res.Success {
		h.auditAdminChange(r, s, "user", id, "delete")
	}
	h.writeResult(w, r, res)
}

// auditAdminChange records a successful admin mutation.
func (h *Handler) auditAdminChange(r *http.Request, s *session.Session, resourceType, resourceID, detail string) {
	ev := audit.Event{
		Action:       audit.ActionAdminChange,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IP:           clientIP(r),
		RequestID:    RequestIDFromContext(r.Context()),
		Success:      true,
		Detail:       detail,
	}
	if s.User != nil {
		ev.ActorID = s.User.ID
		ev.ActorEmail = s.User.Email
		ev.ActorType = string(s.User.UserType)
	}
	h.audit.Record(ev)
}
