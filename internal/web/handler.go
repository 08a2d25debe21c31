// Package web is the HTTP surface of the portal: page routes serving the
// UI shell, JSON action routes under /api, and the upload proxy. Handlers
// stay thin: decode, call the action, translate the Result.
package web

import (
	"net/http"

	"github.com/condyapp/portal/internal/action"
	"github.com/condyapp/portal/internal/audit"
	"github.com/condyapp/portal/internal/config"
	"github.com/condyapp/portal/internal/gateway"
	"github.com/condyapp/portal/internal/metrics"
	"github.com/condyapp/portal/internal/ratelimit"
	"github.com/condyapp/portal/internal/session"
)

// Handler bundles the dependencies shared by all routes.
type Handler struct {
	actions  *action.Service
	sessions *session.Manager
	gw       *gateway.Client
	audit    audit.Recorder
	metrics  *metrics.Metrics
	limiter  *ratelimit.Limiter
	upload   config.UploadConfig
	whatsapp string
	// publicAPI is the browser-facing upstream address, used by the shell
	// to build attachment links.
	publicAPI string
	auditLog  AuditReader
}

// SetAuditLog wires the audit trail reader for the admin area. Optional:
// without it the admin audit route answers 503.
func (h *Handler) SetAuditLog(r AuditReader) {
	h.auditLog = r
}

// NewHandler creates the web handler. audit may be audit.Nop{} and
// metrics may be nil when those subsystems are disabled.
func NewHandler(
	actions *action.Service,
	sessions *session.Manager,
	gw *gateway.Client,
	rec audit.Recorder,
	m *metrics.Metrics,
	limiter *ratelimit.Limiter,
	upload config.UploadConfig,
	whatsapp, publicAPI string,
) *Handler {
	if rec == nil {
		rec = audit.Nop{}
	}
	return &Handler{
		actions:   actions,
		sessions:  sessions,
		gw:        gw,
		audit:     rec,
		metrics:   m,
		limiter:   limiter,
		upload:    upload,
		whatsapp:  whatsapp,
		publicAPI: publicAPI,
	}
}

// forceLogout destroys the session cookie and answers 401 with the login
// redirect carrying the notice. Called when an action Result signals that
// the upstream invalidated the session.
func (h *Handler) forceLogout(w http.ResponseWriter, r *http.Request, res action.Result) {
	h.sessions.Destroy(w)

	// A rejected login also routes through here; only an established
	// session counts as a forced logout.
	s := session.FromContext(r.Context())
	if s.IsLoggedIn {
		if h.metrics != nil {
			h.metrics.IncForcedLogout()
		}
		ev := audit.Event{
			Action:    audit.ActionForcedLogout,
			IP:        clientIP(r),
			RequestID: RequestIDFromContext(r.Context()),
			Success:   true,
			Detail:    res.Logout.Notice,
		}
		if s.User != nil {
			ev.ActorID = s.User.ID
			ev.ActorEmail = s.User.Email
			ev.ActorType = string(s.User.UserType)
		}
		h.audit.Record(ev)
	}

	writeJSON(w, http.StatusUnauthorized, logoutResponse{
		Success:  false,
		Error:    res.Error,
		Code:     res.Code,
		Redirect: res.Logout.LoginURL(),
	})
}
