// file: middleware/ratelimit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupLimitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	limiter := NewLoginLimiter(rps, burst)
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "login handler reached")
	})
	return router
}

func postLogin(router *gin.Engine) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/login", strings.NewReader("username=a&password=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Test: requests within the burst reach the handler
func TestLoginLimiter_AllowsWithinBurst(t *testing.T) {
	router := setupLimitedRouter(1, 3)

	for i := 0; i < 3; i++ {
		w := postLogin(router)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}
}

// Test: exceeding the burst is throttled with 429
func TestLoginLimiter_ThrottlesBeyondBurst(t *testing.T) {
	router := setupLimitedRouter(0.001, 2) // refill too slow to matter here

	assert.Equal(t, http.StatusOK, postLogin(router).Code)
	assert.Equal(t, http.StatusOK, postLogin(router).Code)

	w := postLogin(router)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many login attempts")
}

// Test: different IPs get independent buckets
func TestLoginLimiter_PerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	limiter := NewLoginLimiter(0.001, 1)
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	post := func(addr string) int {
		req, _ := http.NewRequest("POST", "/login", strings.NewReader(""))
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post("10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1:1"))
	assert.Equal(t, http.StatusOK, post("10.0.0.2:1"), "a fresh IP has its own bucket")
}
