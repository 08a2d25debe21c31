package web

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/condyapp/portal/internal/action"
	"github.com/condyapp/portal/internal/gateway"
)

// maxBodySize is the maximum allowed JSON request body size (1 MB).
const maxBodySize = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a failure envelope in the action Result shape.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, action.Result{Success: false, Error: message, Code: code})
}

// readJSON decodes the request body into v, enforcing a size limit.
func readJSON(r *http.Request, v any) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	return json.NewDecoder(lr).Decode(v)
}

// logoutResponse is the envelope sent when the session was invalidated:
// the browser-side code navigates to Redirect.
type logoutResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Code     string `json:"code"`
	Redirect string `json:"redirect"`
}

// writeResult translates an action Result into an HTTP response. A forced
// logout destroys the cookie and answers 401 with the login redirect; the
// page-level middleware handles the equivalent for full page loads.
func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, res action.Result) {
	if res.Logout != nil {
		h.forceLogout(w, r, res)
		return
	}

	writeJSON(w, statusFor(res), res)
}

func statusFor(res action.Result) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Code {
	case action.CodeValidation:
		return http.StatusUnprocessableEntity
	case action.CodeNotImplemented:
		return http.StatusNotImplemented
	case action.CodeUnknown:
		return http.StatusInternalServerError
	case gateway.KindNetwork.String():
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// clientIP extracts the caller's address, honoring X-Forwarded-For.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
