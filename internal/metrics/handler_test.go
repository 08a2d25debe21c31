package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLiveSummary(t *testing.T) {
	m := New()

	m.IncLogin("success")
	m.IncLogin("success")
	m.IncLogin("failure")
	m.IncForcedLogout()
	m.IncRateLimitRejection()

	m.IncHTTPRequest(http.MethodGet, "/api/chamados", 200)
	m.IncHTTPRequest(http.MethodGet, "/api/chamados", 200)
	m.IncHTTPRequest(http.MethodPost, "/api/login", 500)
	m.ObserveHTTPDuration(http.MethodGet, "/api/chamados", 0.05)

	m.IncUpstreamRequest(http.MethodGet, 200)
	m.IncUpstreamError("timeout")
	m.ObserveUpstreamDuration(http.MethodGet, 0.2)

	rr := httptest.NewRecorder()
	m.Handler()(rr, httptest.NewRequest(http.MethodGet, "/api/admin/status", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var s Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}

	if s.HTTP.TotalRequests != 3 {
		t.Errorf("http total = %v, want 3", s.HTTP.TotalRequests)
	}
	if want := 1.0 / 3.0; s.HTTP.ErrorRate < want-0.01 || s.HTTP.ErrorRate > want+0.01 {
		t.Errorf("error rate = %v, want ~%v", s.HTTP.ErrorRate, want)
	}
	if s.Session.LoginSuccesses != 2 || s.Session.LoginFailures != 1 {
		t.Errorf("logins = %v/%v, want 2/1", s.Session.LoginSuccesses, s.Session.LoginFailures)
	}
	if s.Session.ForcedLogouts != 1 {
		t.Errorf("forced logouts = %v, want 1", s.Session.ForcedLogouts)
	}
	if s.Session.RateLimitRejections != 1 {
		t.Errorf("rate limit rejections = %v, want 1", s.Session.RateLimitRejections)
	}
	if s.Upstream.TotalRequests != 1 || s.Upstream.TransportErrors != 1 {
		t.Errorf("upstream = %v/%v, want 1/1", s.Upstream.TotalRequests, s.Upstream.TransportErrors)
	}
	if s.Server.StartTime == 0 {
		t.Error("server start time not set")
	}
}

func TestDBPoolCollector(t *testing.T) {
	m := New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		return 5, 3, 2
	})

	rr := httptest.NewRecorder()
	m.Handler()(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	var s Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if s.DB.TotalConns != 5 || s.DB.IdleConns != 3 || s.DB.AcquiredConns != 2 {
		t.Errorf("db pool = %v/%v/%v, want 5/3/2", s.DB.TotalConns, s.DB.IdleConns, s.DB.AcquiredConns)
	}
}
