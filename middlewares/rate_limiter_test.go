package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter_BurstThen429(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(LimiterConfig{RPS: 1, Burst: 3, IdleTTL: time.Minute})
	s := gin.New()
	s.Use(rl.Middleware(func(c *gin.Context) string { return "fixed" }))
	s.GET("/x", func(c *gin.Context) { c.JSON(200, gin.H{"ok": 1}) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
		if w.Code != 200 {
			t.Fatalf("burst request %d: want 200, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	if w.Code != 429 {
		t.Fatalf("want 429 after burst, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("want Retry-After header on 429")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(LimiterConfig{RPS: 1, Burst: 1, IdleTTL: time.Minute})
	s := gin.New()
	s.Use(rl.Middleware(func(c *gin.Context) string { return c.Query("k") }))
	s.GET("/x", func(c *gin.Context) { c.JSON(200, gin.H{"ok": 1}) })

	for _, k := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest("GET", "/x?k="+k, nil))
		if w.Code != 200 {
			t.Fatalf("key %s: want 200, got %d", k, w.Code)
		}
	}
}
