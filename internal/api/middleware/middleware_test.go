package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/auth"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/metrics"
)

type parserStub struct {
	claims *auth.Claims
	err    error
	got    string
}

func (p *parserStub) ParseToken(token string) (*auth.Claims, error) {
	p.got = token
	return p.claims, p.err
}

func principalEcho(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		p, ok := GetPrincipal(r.Context())
		require.True(t, ok)
		assert.Equal(t, int64(3), p.AdminID)
		assert.Equal(t, int64(1), p.VenueID)
		assert.Equal(t, domain.RoleOwner, p.Role)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	parser := &parserStub{claims: &auth.Claims{AdminID: 3, VenueID: 1, Role: domain.RoleOwner}}
	var called bool
	h := Auth(parser, logger.NewDiscard())(principalEcho(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc.def.ghi", parser.got)
}

func TestAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{name: "missing header"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "expired token", header: "Bearer expired", err: errors.New("token is expired")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &parserStub{err: tt.err}
			var called bool
			h := Auth(parser, logger.NewDiscard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"kind":"unauthorized"`)
		})
	}
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/bookings/manage/{token}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/manage/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("test", http.MethodGet, "/bookings/manage/{token}", "404")))
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "other ip has its own bucket")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "token refilled")
}

func TestRateLimiter_CleanupIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(2 * limiterIdleTTL)
	rl.Allow("10.0.0.2")

	assert.Len(t, rl.visitors, 1)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")})
	h := rl.Middleware(logger.NewDiscard())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusOK, send("198.51.100.4"), "other client behind the same proxy")
}

func TestRateLimiter_Middleware_SpoofedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, nil)
	h := rl.Middleware(logger.NewDiscard())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.RemoteAddr = "192.0.2.10:51234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8"), netip.MustParsePrefix("192.168.1.5/32")}

	tests := []struct {
		name      string
		trusted   []netip.Prefix
		remote    string
		forwarded string
		want      string
	}{
		{name: "no proxy", remote: "192.0.2.10:51234", want: "192.0.2.10"},
		{name: "header ignored without trusted proxies", remote: "192.0.2.10:51234", forwarded: "203.0.113.7", want: "192.0.2.10"},
		{name: "header ignored from untrusted peer", trusted: trusted, remote: "192.0.2.10:51234", forwarded: "203.0.113.7", want: "192.0.2.10"},
		{name: "trusted proxy", trusted: trusted, remote: "10.1.2.3:8080", forwarded: "203.0.113.7", want: "203.0.113.7"},
		{name: "spoofed leftmost entry", trusted: trusted, remote: "10.1.2.3:8080", forwarded: "1.1.1.1, 203.0.113.7", want: "203.0.113.7"},
		{name: "proxy chain", trusted: trusted, remote: "10.1.2.3:8080", forwarded: "203.0.113.7, 192.168.1.5", want: "203.0.113.7"},
		{name: "only proxies in chain", trusted: trusted, remote: "10.1.2.3:8080", forwarded: "10.9.9.9", want: "10.1.2.3"},
		{name: "empty header from proxy", trusted: trusted, remote: "10.1.2.3:8080", want: "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(1, 1, tt.trusted)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, rl.clientIP(req))
		})
	}
}
