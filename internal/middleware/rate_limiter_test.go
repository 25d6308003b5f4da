package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestUserRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewUserRateLimiter(RateLimiterConfig{RequestsPerMinute: 1, BurstSize: 2, EntryTTL: time.Minute})

	r := gin.New()
	r.POST("/email", func(c *gin.Context) {
		c.Set(ctxUserID, c.GetHeader("X-User"))
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	send := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/email", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusAccepted, send("7").Code)
	assert.Equal(t, http.StatusAccepted, send("7").Code)

	limited := send("7")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	// Other users keep their own budget
	assert.Equal(t, http.StatusAccepted, send("8").Code)
}

func TestUserRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC)
	rl := NewUserRateLimiter(DefaultRateLimiterConfig())
	rl.now = func() time.Time { return now }

	rl.getLimiter("1")
	now = now.Add(20 * time.Minute)
	rl.getLimiter("2")
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Len(t, rl.limiters, 1)
	_, kept := rl.limiters["2"]
	assert.True(t, kept)
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://admin.example.com"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Receipt-Checksum")

	other := httptest.NewRequest(http.MethodGet, "/ping", nil)
	other.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, other)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
