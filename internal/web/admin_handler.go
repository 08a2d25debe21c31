package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/condyapp/portal/internal/audit"
)

// AuditReader serves the admin audit trail page. Nil when the portal runs
// without a database.
type AuditReader interface {
	Recent(ctx context.Context, action string, limit int) ([]audit.Event, error)
}

// handleAdminStatus serves the live operational summary backing the admin
// status page.
func (h *Handler) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics_disabled", "Métricas desabilitadas nesta instância.")
		return
	}
	h.metrics.Handler()(w, r)
}

// handleAdminAudit lists recent audit events, newest first.
func (h *Handler) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	if h.auditLog == nil {
		writeError(w, http.StatusServiceUnavailable, "audit_disabled", "Auditoria desabilitada nesta instância.")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events, err := h.auditLog.Recent(r.Context(), r.URL.Query().Get("action"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "audit_error", "Não foi possível consultar a auditoria.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": events})
}

// handleAdminLogs and handleAdminStats answer for upstream features that
// have not shipped yet.
func (h *Handler) handleAdminLogs(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, h.actions.SystemLogs(r.Context()))
}

func (h *Handler) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, h.actions.SystemStats(r.Context()))
}
