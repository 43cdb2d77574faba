package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/middleware"
	"github.com/paularynty/climaxlog/internal/testutil"
)

func newLimitedRouter(limit int, exempt ...string) *gin.Engine {
	cfg := testutil.NewTestConfig()
	cfg.RateLimiterRequestLimit = limit
	cfg.RateLimiterDurationInSec = 60

	r := testutil.NewMiddlewareTestRouter(middleware.NewRateLimiter(cfg, exempt...).RateLimit())
	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func send(r *gin.Engine, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remoteAddr
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRateLimitSetsHeadersAndBlocks(t *testing.T) {
	r := newLimitedRouter(2)

	first := send(r, http.MethodGet, "/middleware-test", "198.51.100.10:1234")
	if first.Code != http.StatusOK || first.Header().Get("X-RateLimit-Limit") != "2" || first.Header().Get("X-RateLimit-Remaining") != "1" {
		t.Fatalf("unexpected first response %d headers=%v", first.Code, first.Header())
	}

	// a new source port is still the same client
	second := send(r, http.MethodGet, "/middleware-test", "198.51.100.10:5678")
	if second.Code != http.StatusOK || second.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("unexpected second response %d headers=%v", second.Code, second.Header())
	}

	blocked := send(r, http.MethodGet, "/middleware-test", "198.51.100.10:9999")
	if blocked.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", blocked.Code)
	}
	if blocked.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60, got %q", blocked.Header().Get("Retry-After"))
	}

	var body map[string]string
	if err := json.Unmarshal(blocked.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["error"] != "Too many requests" {
		t.Fatalf("unexpected error payload: %v", body)
	}

	other := send(r, http.MethodGet, "/middleware-test", "203.0.113.2:5000")
	if other.Code != http.StatusOK {
		t.Fatalf("expected another client to pass, got %d", other.Code)
	}
}

func TestRateLimitSkipsPreflightAndExemptRoutes(t *testing.T) {
	r := newLimitedRouter(1, "/api/ping")

	for i := 0; i < 3; i++ {
		if resp := send(r, http.MethodOptions, "/middleware-test", "198.51.100.20:9999"); resp.Code == http.StatusTooManyRequests {
			t.Fatalf("expected preflight to bypass the limiter")
		}
		if resp := send(r, http.MethodGet, "/api/ping", "198.51.100.20:9999"); resp.Code != http.StatusOK {
			t.Fatalf("expected exempt route to pass, got %d", resp.Code)
		}
	}

	if resp := send(r, http.MethodGet, "/middleware-test", "198.51.100.20:9999"); resp.Code != http.StatusOK {
		t.Fatalf("expected first counted request to pass, got %d", resp.Code)
	}
	if resp := send(r, http.MethodGet, "/middleware-test", "198.51.100.20:9999"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second counted request to be limited, got %d", resp.Code)
	}
}
