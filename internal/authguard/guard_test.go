package authguard

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/condyapp/portal/internal/gateway"
)

func TestCheckStatus401(t *testing.T) {
	err := &gateway.Error{Kind: gateway.KindUnauthorized, HTTPStatus: 401, Message: "sessão expirada"}
	f := Check(err)
	if f == nil {
		t.Fatal("401 must force logout")
	}
	if f.Notice != NoticeExpired {
		t.Errorf("expected expired notice, got %q", f.Notice)
	}
}

func TestCheckStatus403(t *testing.T) {
	err := &gateway.Error{Kind: gateway.KindForbidden, HTTPStatus: 403, Message: "sem permissão"}
	f := Check(err)
	if f == nil {
		t.Fatal("403 must force logout")
	}
	if f.Notice != NoticeForbidden {
		t.Errorf("expected forbidden notice, got %q", f.Notice)
	}
}

func TestEmailMismatchOutranksStatus(t *testing.T) {
	// The gateway classifies message content over status; a 401 whose body
	// says "email mismatch" must carry the mismatch-specific notice.
	err := &gateway.Error{Kind: gateway.KindEmailMismatch, HTTPStatus: 401, Message: "Email mismatch"}
	f := Check(err)
	if f == nil {
		t.Fatal("email mismatch must force logout")
	}
	if f.Notice != NoticeEmailMismatch {
		t.Errorf("expected email mismatch notice, got %q", f.Notice)
	}
}

func TestNoticePriorityOrder(t *testing.T) {
	cases := []struct {
		kind   gateway.Kind
		notice string
	}{
		{gateway.KindEmailMismatch, NoticeEmailMismatch},
		{gateway.KindUserTypeMismatch, NoticeUserTypeMismatch},
		{gateway.KindInvalidToken, NoticeInvalidToken},
		{gateway.KindUnauthorized, NoticeExpired},
		{gateway.KindForbidden, NoticeForbidden},
	}
	for _, c := range cases {
		f := Check(&gateway.Error{Kind: c.kind, HTTPStatus: 401})
		if f == nil {
			t.Fatalf("kind %v must force logout", c.kind)
		}
		if f.Notice != c.notice {
			t.Errorf("kind %v: expected %q, got %q", c.kind, f.Notice, c.notice)
		}
		if f.Notice == "" {
			t.Errorf("kind %v: notice must be non-empty", c.kind)
		}
	}
}

func TestCheckPassesThroughNonSessionErrors(t *testing.T) {
	if f := Check(&gateway.Error{Kind: gateway.KindGeneric, HTTPStatus: 500, Message: "boom"}); f != nil {
		t.Error("500 must not force logout")
	}
	if f := Check(&gateway.Error{Kind: gateway.KindNetwork, Message: "conexão recusada"}); f != nil {
		t.Error("network failure must not force logout")
	}
	if f := Check(errors.New("plain error")); f != nil {
		t.Error("non-gateway errors must not force logout")
	}
	if f := Check(nil); f != nil {
		t.Error("nil error must not force logout")
	}
}

func TestCheckUnwrapsWrappedErrors(t *testing.T) {
	inner := &gateway.Error{Kind: gateway.KindInvalidToken, HTTPStatus: 401}
	wrapped := fmt.Errorf("listing chamados: %w", inner)
	if f := Check(wrapped); f == nil {
		t.Error("wrapped gateway errors must still be classified")
	}
}

func TestLoginURLEncodesNotice(t *testing.T) {
	f := &ForcedLogout{Notice: NoticeExpired}
	got := f.LoginURL()
	if !strings.HasPrefix(got, "/login?logoutNotice=") {
		t.Fatalf("unexpected login url: %q", got)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parsing login url: %v", err)
	}
	if u.Query().Get("logoutNotice") != NoticeExpired {
		t.Errorf("notice did not round-trip through the query string: %q", u.Query().Get("logoutNotice"))
	}
}
