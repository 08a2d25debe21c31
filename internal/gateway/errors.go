package gateway

import (
	"fmt"
	"strings"
)

// Kind tags an upstream failure with its meaning for the session. The tag
// is assigned exactly once, here at the gateway boundary; everything
// downstream switches on it instead of re-inspecting messages.
type Kind int

const (
	KindGeneric Kind = iota
	KindNetwork
	KindUnauthorized
	KindForbidden
	KindEmailMismatch
	KindInvalidToken
	KindUserTypeMismatch
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindEmailMismatch:
		return "email_mismatch"
	case KindInvalidToken:
		return "invalid_token"
	case KindUserTypeMismatch:
		return "user_type_mismatch"
	default:
		return "generic"
	}
}

// Error is the normalized upstream failure. HTTPStatus is zero for
// connectivity failures.
type Error struct {
	Kind       Kind
	HTTPStatus int
	Message    string
}

func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("upstream error (status %d): %s", e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

// InvalidatesSession reports whether the failure means the session can no
// longer be trusted.
func (e *Error) InvalidatesSession() bool {
	switch e.Kind {
	case KindUnauthorized, KindForbidden, KindEmailMismatch, KindInvalidToken, KindUserTypeMismatch:
		return true
	}
	return false
}

// classifyKind derives the error kind from the HTTP status and the
// lower-cased upstream message. Message content outranks the status code:
// the upstream reports mismatches with a 401/403 attached, and the more
// specific condition must win.
func classifyKind(status int, message string) Kind {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "email mismatch"):
		return KindEmailMismatch
	case strings.Contains(msg, "user type mismatch"):
		return KindUserTypeMismatch
	case strings.Contains(msg, "invalid token"):
		return KindInvalidToken
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	default:
		return KindGeneric
	}
}
