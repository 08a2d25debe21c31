package audit

import "time"

// Actions recorded by the portal. The set is small on purpose: only
// security-relevant events land in the audit log, the rest is served by
// request logging.
const (
	ActionLogin        = "login"
	ActionLoginFailed  = "login_failed"
	ActionLogout       = "logout"
	ActionForcedLogout = "forced_logout"
	ActionUpload       = "upload"
	ActionAdminChange  = "admin_change"
)

// Event is a single audit record.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	ActorID      string    `json:"actor_id"`
	ActorEmail   string    `json:"actor_email"`
	ActorType    string    `json:"actor_type"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	IP           string    `json:"ip"`
	RequestID    string    `json:"request_id"`
	Success      bool      `json:"success"`
	Detail       string    `json:"detail"`
}
