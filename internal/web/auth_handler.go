package web

import (
	"net/http"
	"strconv"

	"github.com/condyapp/portal/internal/action"
	"github.com/condyapp/portal/internal/audit"
	"github.com/condyapp/portal/internal/ratelimit"
	"github.com/condyapp/portal/internal/session"
)

// handleLogin authenticates against the upstream and, on success, seals
// the session cookie. Rate limited per client IP before any work happens.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if h.limiter != nil {
		if !h.limiter.Allow(ip) {
			if h.metrics != nil {
				h.metrics.IncRateLimitRejection()
			}
			setRateLimitHeaders(w, h.limiter, ip)
			writeError(w, http.StatusTooManyRequests, "rate_limited",
				"Muitas tentativas de login. Aguarde um minuto e tente novamente.")
			return
		}
		setRateLimitHeaders(w, h.limiter, ip)
	}

	var in action.LoginInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, action.CodeValidation, "Corpo da requisição inválido.")
		return
	}

	res := h.actions.Login(r.Context(), in)
	if !res.Success {
		if h.metrics != nil {
			h.metrics.IncLogin("failure")
		}
		h.audit.Record(audit.Event{
			Action:     audit.ActionLoginFailed,
			ActorEmail: in.Email,
			IP:         ip,
			RequestID:  RequestIDFromContext(r.Context()),
			Detail:     res.Error,
		})
		h.writeResult(w, r, res)
		return
	}

	out, ok := res.Data.(action.LoginOutput)
	if !ok {
		writeError(w, http.StatusInternalServerError, action.CodeUnknown, "Resposta inesperada do servidor.")
		return
	}

	if _, err := h.sessions.Create(w, out.Token, out.User); err != nil {
		writeError(w, http.StatusInternalServerError, action.CodeUnknown, "Não foi possível iniciar a sessão.")
		return
	}

	if h.metrics != nil {
		h.metrics.IncLogin("success")
	}
	h.audit.Record(audit.Event{
		Action:     audit.ActionLogin,
		ActorID:    out.User.ID,
		ActorEmail: out.User.Email,
		ActorType:  string(out.User.UserType),
		IP:         ip,
		RequestID:  RequestIDFromContext(r.Context()),
		Success:    true,
	})

	writeJSON(w, http.StatusOK, res)
}

// setRateLimitHeaders exposes the caller's login quota:
//
//	X-RateLimit-Limit     — attempts allowed in the window
//	X-RateLimit-Remaining — attempts remaining
//	X-RateLimit-Reset     — Unix timestamp when the bucket is fully replenished
func setRateLimitHeaders(w http.ResponseWriter, l *ratelimit.Limiter, key string) {
	limit, remaining, resetAt := l.Status(key)
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

// handleLogout clears the session cookie. Always succeeds, even when no
// session existed.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if s.IsLoggedIn && s.User != nil {
		h.audit.Record(audit.Event{
			Action:     audit.ActionLogout,
			ActorID:    s.User.ID,
			ActorEmail: s.User.Email,
			ActorType:  string(s.User.UserType),
			IP:         clientIP(r),
			RequestID:  RequestIDFromContext(r.Context()),
			Success:    true,
		})
	}

	h.sessions.Destroy(w)
	writeJSON(w, http.StatusOK, action.Result{Success: true, Message: "Sessão encerrada."})
}

// sessionInfo is what the shell asks for on load to decide what to render.
type sessionInfo struct {
	LoggedIn   bool   `json:"loggedIn"`
	User       any    `json:"user,omitempty"`
	HomePath   string `json:"homePath,omitempty"`
	WhatsApp   string `json:"whatsapp,omitempty"`
	APIBaseURL string `json:"apiBaseUrl,omitempty"`
}

// handleSession reports the current session state. Never 401s: an
// anonymous visitor is a valid answer.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())

	info := sessionInfo{LoggedIn: s.IsLoggedIn, WhatsApp: h.whatsapp, APIBaseURL: h.publicAPI}
	if s.IsLoggedIn && s.User != nil {
		info.User = s.User
		info.HomePath = s.User.UserType.HomePath()
	}
	writeJSON(w, http.StatusOK, action.Result{Success: true, Data: info})
}

// handleCheckEmail proxies the email availability check used by the
// registration form.
func (h *Handler) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	res := h.actions.CheckEmailAvailable(r.Context(), r.URL.Query().Get("email"))
	h.writeResult(w, r, res)
}

// handleCheckCPF proxies the CPF availability check.
func (h *Handler) handleCheckCPF(w http.ResponseWriter, r *http.Request) {
	res := h.actions.CheckCPFAvailable(r.Context(), r.URL.Query().Get("cpf"))
	h.writeResult(w, r, res)
}
