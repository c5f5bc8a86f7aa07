package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(4) // burst 2
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/w", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/w", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := send("10.0.0.1"); got != http.StatusNoContent {
		t.Fatalf("first request = %d", got)
	}
	if got := send("10.0.0.1"); got != http.StatusNoContent {
		t.Fatalf("second request = %d", got)
	}
	if got := send("10.0.0.1"); got != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", got)
	}
	if got := send("10.0.0.2"); got != http.StatusNoContent {
		t.Fatalf("other ip = %d, want its own bucket", got)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(ctx *gin.Context) { ctx.String(http.StatusOK, ctx.GetString("X-Request-ID")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get("X-Request-ID")
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("minted id %q is not a uuid", id)
	}
	if w.Body.String() != id {
		t.Errorf("context id %q != header %q", w.Body.String(), id)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "upstream-42" {
		t.Errorf("inbound id not propagated: %q", w.Header().Get("X-Request-ID"))
	}
}
