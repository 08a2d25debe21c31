package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/condyapp/portal/internal/action"
	"github.com/condyapp/portal/internal/audit"
	"github.com/condyapp/portal/internal/session"
)

// handleUpload proxies a multipart upload to the upstream attachments
// endpoint without buffering the file in memory. In simulate mode the
// upstream is never touched and a fabricated attachment is returned,
// which keeps local development independent of upstream storage.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		writeError(w, http.StatusUnsupportedMediaType, action.CodeValidation, "Envie o arquivo como multipart/form-data.")
		return
	}

	s := session.FromContext(r.Context())
	body := http.MaxBytesReader(w, r.Body, h.upload.MaxSize)

	if h.upload.Simulate {
		h.simulateUpload(w, r, s, body)
		return
	}

	resp, err := h.gw.Forward(r.Context(), http.MethodPost, "/arquivos/upload", contentType, body, s.Token)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, action.CodeValidation, "Arquivo muito grande.")
			return
		}
		writeError(w, http.StatusBadGateway, "network_error", "Não foi possível enviar o arquivo. Tente novamente.")
		return
	}
	defer resp.Body.Close()

	h.recordUpload(r, s, resp.StatusCode < 300)

	w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

// simulateUpload drains the request to honor the size limit, then answers
// with a fabricated attachment record.
func (h *Handler) simulateUpload(w http.ResponseWriter, r *http.Request, s *session.Session, body io.Reader) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, action.CodeValidation, "Arquivo muito grande.")
		return
	}

	h.recordUpload(r, s, true)

	id := generateID()
	writeJSON(w, http.StatusOK, action.Result{
		Success: true,
		Data: map[string]string{
			"id":  id,
			"url": "/uploads/simulado/" + id,
		},
		Message: "Arquivo recebido (modo simulado).",
	})
}

func (h *Handler) recordUpload(r *http.Request, s *session.Session, success bool) {
	ev := audit.Event{
		Action:    audit.ActionUpload,
		IP:        clientIP(r),
		RequestID: RequestIDFromContext(r.Context()),
		Success:   success,
	}
	if s.User != nil {
		ev.ActorID = s.User.ID
		ev.ActorEmail = s.User.Email
		ev.ActorType = string(s.User.UserType)
	}
	h.audit.Record(ev)
}
