// Package authguard decides, for a failed upstream call, whether the
// session is still trustworthy. It is a decision table run once per failed
// call: no retries, no state.
package authguard

import (
	"errors"
	"net/url"

	"github.com/condyapp/portal/internal/gateway"
)

// Login notices shown after a forced logout, one per error kind. The
// classifier already encodes the priority (message content over status
// code), so the mapping here is one-to-one.
const (
	NoticeEmailMismatch    = "Sua conta foi acessada com um email diferente. Faça login novamente."
	NoticeUserTypeMismatch = "Seu tipo de acesso foi alterado. Faça login novamente."
	NoticeInvalidToken     = "Sua sessão é inválida. Faça login novamente."
	NoticeExpired          = "Sua sessão expirou. Faça login novamente."
	NoticeForbidden        = "Você não tem mais permissão para acessar esta área. Faça login novamente."
	NoticeGeneric          = "Sua sessão foi encerrada. Faça login novamente."
)

// ForcedLogout signals that the session must be destroyed and the user sent
// back to the login page with a notice.
type ForcedLogout struct {
	Notice string
}

// Check inspects an error from the gateway. It returns a non-nil
// ForcedLogout when the failure invalidates the session, and nil when the
// error should simply be surfaced to the caller.
func Check(err error) *ForcedLogout {
	var gerr *gateway.Error
	if !errors.As(err, &gerr) {
		return nil
	}
	if !gerr.InvalidatesSession() {
		return nil
	}
	return &ForcedLogout{Notice: noticeFor(gerr.Kind)}
}

func noticeFor(kind gateway.Kind) string {
	switch kind {
	case gateway.KindEmailMismatch:
		return NoticeEmailMismatch
	case gateway.KindUserTypeMismatch:
		return NoticeUserTypeMismatch
	case gateway.KindInvalidToken:
		return NoticeInvalidToken
	case gateway.KindUnauthorized:
		return NoticeExpired
	case gateway.KindForbidden:
		return NoticeForbidden
	default:
		return NoticeGeneric
	}
}

// LoginURL builds the login redirect target carrying the notice.
func (f *ForcedLogout) LoginURL() string {
	if f.Notice == "" {
		return "/login"
	}
	return "/login?logoutNotice=" + url.QueryEscape(f.Notice)
}
