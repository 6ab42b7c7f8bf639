package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/forgo/devcamper/api/internal/model"
)

func newTestLimiter(t *testing.T, rps float64, burst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimitConfig{RPS: rps, Burst: burst, Cleanup: time.Hour})
	t.Cleanup(rl.Stop)
	return rl
}

// ============================================================================
// Allow Tests
// ============================================================================

func TestRateLimiter_Allow_BurstThenDeny(t *testing.T) {
	t.Parallel()
	rl := newTestLimiter(t, 1, 3)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		allowed, _, _ := rl.Allow("ip:1.2.3.4")
		if !allowed {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}

	allowed, remaining, retryAfter := rl.Allow("ip:1.2.3.4")
	if allowed {
		t.Error("request beyond burst should be denied")
	}
	if remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", remaining)
	}
	if retryAfter <= 0 || retryAfter > time.Second {
		t.Errorf("expected retryAfter in (0, 1s], got %v", retryAfter)
	}
}

func TestRateLimiter_Allow_RefillsOverTime(t *testing.T) {
	t.Parallel()
	rl := newTestLimiter(t, 1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	if allowed, _, _ := rl.Allow("k"); !allowed {
		t.Fatal("first request should be allowed")
	}
	if allowed, _, _ := rl.Allow("k"); allowed {
		t.Fatal("second immediate request should be denied")
	}

	now = now.Add(1100 * time.Millisecond)
	if allowed, _, _ := rl.Allow("k"); !allowed {
		t.Error("request after refill should be allowed")
	}
}

func TestRateLimiter_Allow_KeysAreIndependent(t *testing.T) {
	t.Parallel()
	rl := newTestLimiter(t, 1, 1)

	rl.Allow("a")
	if allowed, _, _ := rl.Allow("b"); !allowed {
		t.Error("a different key should have its own bucket")
	}
}

func TestRateLimiter_CleanupIdle_DropsStaleVisitors(t *testing.T) {
	t.Parallel()
	rl := newTestLimiter(t, 1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("stale")
	now = now.Add(rl.idle + time.Second)
	rl.Allow("fresh")

	rl.cleanupIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["stale"]; ok {
		t.Error("stale visitor should have been removed")
	}
	if _, ok := rl.visitors["fresh"]; !ok {
		t.Error("fresh visitor should be kept")
	}
}

func TestRateLimiter_Stop_Idempotent(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(RateLimitConfig{})
	rl.Stop()
	rl.Stop()
}

// ============================================================================
// RateLimit() Middleware Tests
// ============================================================================

func TestRateLimit_DeniedRequest_Returns429Envelope(t *testing.T) {
	t.Parallel()
	rl := newTestLimiter(t, 0.001, 1)
	handler := &captureHandler{}
	mw := RateLimit(rl)(handler)

	first := httptest.NewRecorder()
	mw.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/bootcamps", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request %d, got %d", http.StatusOK, first.Code)
	}
	if first.Header().Get("X-RateLimit-Limit") != "1" {
		t.Errorf("expected X-RateLimit-Limit 1, got %q", first.Header().Get("X-RateLimit-Limit"))
	}

	handler.called = false
	second := httptest.NewRecorder()
	mw.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/bootcamps", nil))

	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, second.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
	if v, err := strconv.Atoi(second.Header().Get("Retry-After")); err != nil || v < 1 {
		t.Errorf("expected positive Retry-After, got %q", second.Header().Get("Retry-After"))
	}
	if body := decodeEnvelope(t, second); body.Success {
		t.Error("expected success=false")
	}
}

func TestClientKey_PrefersPrincipal(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	if got := clientKey(req); got != "ip:10.0.0.1" {
		t.Errorf("expected ip key, got %q", got)
	}

	req = req.WithContext(WithPrincipal(req.Context(), model.Principal{ID: "user:7"}))
	if got := clientKey(req); got != "principal:user:7" {
		t.Errorf("expected principal key, got %q", got)
	}
}
