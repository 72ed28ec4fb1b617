package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiter_RejectsAfterBurst(t *testing.T) {
	var rejected int
	rl := NewRateLimiter(1, 1, func() { rejected++ })

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", second.Code)
	}
	if rejected != 1 {
		t.Fatalf("expected one rejection callback, got %d", rejected)
	}
}

func TestRateLimiter_IsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected fresh client %s to pass, got %d", addr, rr.Code)
		}
	}
}

func TestRateLimiter_IgnoresForwardedHeader(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Rotating X-Forwarded-For must not rotate the client's bucket.
	for i, forwarded := range []string{"172.16.0.1", "172.16.0.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", forwarded)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		want := http.StatusOK
		if i > 0 {
			want = http.StatusTooManyRequests
		}
		if rr.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, rr.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:5000"
	if got := clientIP(req); got != "192.168.1.1" {
		t.Fatalf("expected port stripped, got %s", got)
	}

	req.RemoteAddr = "192.168.1.1"
	if got := clientIP(req); got != "192.168.1.1" {
		t.Fatalf("expected bare address passthrough, got %s", got)
	}
}
