package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDoAttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.Do(context.Background(), "GET", "/chamados", nil, &out, WithToken("token-123")); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !out.OK {
		t.Error("expected unwrapped data envelope")
	}
}

func TestDoWithoutTokenOmitsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("expected no Authorization header")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if err := c.Do(context.Background(), "POST", "/auth/login", map[string]string{"email": "a@b.com"}, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestDoUnwrapsBareBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"t-1","descricao":"elevador parado"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	var out struct {
		ID        string `json:"id"`
		Descricao string `json:"descricao"`
	}
	if err := c.Do(context.Background(), "GET", "/chamados/t-1", nil, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.ID != "t-1" || out.Descricao != "elevador parado" {
		t.Errorf("unexpected decode: %+v", out)
	}
}

func TestDoNormalizesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "prioridade inválida"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	err := c.Do(context.Background(), "POST", "/chamados", map[string]string{}, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.HTTPStatus != 422 {
		t.Errorf("expected status 422, got %d", gerr.HTTPStatus)
	}
	if gerr.Message != "prioridade inválida" {
		t.Errorf("expected upstream message, got %q", gerr.Message)
	}
	if gerr.Kind != KindGeneric {
		t.Errorf("expected generic kind, got %v", gerr.Kind)
	}
	if gerr.InvalidatesSession() {
		t.Error("422 must not invalidate the session")
	}
}

func TestDoNestedErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"bad_request","message":"campo obrigatório"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	err := c.Do(context.Background(), "GET", "/x", nil, nil)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Message != "campo obrigatório" {
		t.Errorf("expected nested message, got %q", gerr.Message)
	}
}

func TestDoNetworkError(t *testing.T) {
	// Port 1 is near-guaranteed to refuse connections.
	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	err := c.Do(context.Background(), "GET", "/chamados", nil, nil)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Kind != KindNetwork {
		t.Errorf("expected network kind, got %v", gerr.Kind)
	}
	if gerr.HTTPStatus != 0 {
		t.Errorf("expected no HTTP status on connectivity failure, got %d", gerr.HTTPStatus)
	}
	if gerr.InvalidatesSession() {
		t.Error("network failure must not invalidate the session")
	}
}

func TestDoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	err := c.Do(context.Background(), "GET", "/slow", nil, nil)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if gerr.Kind != KindNetwork {
		t.Errorf("timeout should classify as network, got %v", gerr.Kind)
	}
}

func TestClassifyKindPriority(t *testing.T) {
	cases := []struct {
		status  int
		message string
		want    Kind
	}{
		{401, "Email mismatch for account", KindEmailMismatch},
		{403, "EMAIL MISMATCH", KindEmailMismatch},
		{401, "user type mismatch detected", KindUserTypeMismatch},
		{401, "Invalid token", KindInvalidToken},
		{401, "sessão expirada", KindUnauthorized},
		{403, "sem permissão", KindForbidden},
		{500, "internal error", KindGeneric},
		{422, "invalid token", KindInvalidToken},
	}
	for _, c := range cases {
		if got := classifyKind(c.status, c.message); got != c.want {
			t.Errorf("classifyKind(%d, %q) = %v, want %v", c.status, c.message, got, c.want)
		}
	}
}

func TestInvalidatesSession(t *testing.T) {
	invalidating := []Kind{KindUnauthorized, KindForbidden, KindEmailMismatch, KindInvalidToken, KindUserTypeMismatch}
	for _, k := range invalidating {
		if !(&Error{Kind: k}).InvalidatesSession() {
			t.Errorf("kind %v should invalidate the session", k)
		}
	}
	for _, k := range []Kind{KindGeneric, KindNetwork} {
		if (&Error{Kind: k}).InvalidatesSession() {
			t.Errorf("kind %v should not invalidate the session", k)
		}
	}
}

func TestForward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("expected multipart content type, got %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Error("expected bearer token on forwarded request")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"url":"https://cdn.condy.test/a.png"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	resp, err := c.Forward(context.Background(), "POST", "/arquivos/upload",
		"multipart/form-data; boundary=x", strings.NewReader("--x--"), "tok")
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}

func TestForwardPropagatesBodyLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	body := http.MaxBytesReader(httptest.NewRecorder(), io.NopCloser(strings.NewReader(strings.Repeat("x", 1024))), 64)

	_, err := c.Forward(context.Background(), "POST", "/arquivos/upload",
		"multipart/form-data; boundary=x", body, "tok")
	if err == nil {
		t.Fatal("expected error for oversized body")
	}

	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		t.Errorf("expected *http.MaxBytesError, got %T: %v", err, err)
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		t.Errorf("body limit error should not be rewritten as a gateway error, got kind %v", gerr.Kind)
	}
}
