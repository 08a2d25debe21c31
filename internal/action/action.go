// Package action implements the portal's server actions: one stateless
// function per business operation. Every action validates its input
// locally, makes at most one gateway call, and returns the same Result
// envelope. Business rules beyond input shape live in the upstream API.
package action

import (
	"errors"
	"fmt"

	"github.com/condyapp/portal/internal/authguard"
	"github.com/condyapp/portal/internal/gateway"
)

// Result is the uniform action envelope. Logout is a server-side signal
// only: the web layer turns it into a destroyed cookie plus a redirect,
// and it never reaches the JSON response as-is.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`

	Logout *authguard.ForcedLogout `json:"-"`
}

const (
	CodeValidation         = "validation_error"
	CodeSessionInvalidated = "session_invalidated"
	CodeNotImplemented     = "not_implemented"
	CodeUnknown            = "unknown_error"
)

// Service holds the action layer's single dependency, the upstream client.
type Service struct {
	gw *gateway.Client
}

// NewService creates the action service.
func NewService(gw *gateway.Client) *Service {
	return &Service{gw: gw}
}

func ok(data any) Result {
	return Result{Success: true, Data: data}
}

func okMessage(data any, message string) Result {
	return Result{Success: true, Data: data, Message: message}
}

func invalid(message string) Result {
	return Result{Success: false, Error: message, Code: CodeValidation}
}

// failure converts any error into the failure envelope, running the auth
// guard first so session-invalidating upstream errors carry the forced
// logout signal.
func failure(err error) Result {
	if lo := authguard.Check(err); lo != nil {
		return Result{
			Success: false,
			Error:   lo.Notice,
			Code:    CodeSessionInvalidated,
			Logout:  lo,
		}
	}

	var gerr *gateway.Error
	if errors.As(err, &gerr) {
		return Result{Success: false, Error: gerr.Message, Code: gerr.Kind.String()}
	}

	return Result{Success: false, Error: err.Error(), Code: CodeUnknown}
}

// NotImplemented is the typed payload for operations the upstream has not
// shipped yet. Returning it explicitly beats fabricating plausible data.
type NotImplemented struct {
	Feature string `json:"feature"`
}

func notImplemented(feature string) Result {
	return Result{
		Success: false,
		Data:    NotImplemented{Feature: feature},
		Error:   fmt.Sprintf("%s ainda não está disponível.", feature),
		Code:    CodeNotImplemented,
	}
}
