// file: middleware/admin_required_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"go-sched-log/models"
)

func setupAdminTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))

	// helper route that stamps the requested role into the session
	router.GET("/become/:role", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("user", "someone")
		session.Set("role", c.Param("role"))
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	router.GET("/admin-only", AdminRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "admin panel")
	})

	return router
}

func cookiesFor(router *gin.Engine, path string) []*http.Cookie {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Result().Cookies()
}

// Test: no session at all is forbidden
func TestAdminRequired_NoSession(t *testing.T) {
	router := setupAdminTestRouter()

	req, _ := http.NewRequest("GET", "/admin-only", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// Test: a regular user is forbidden
func TestAdminRequired_RegularUser(t *testing.T) {
	router := setupAdminTestRouter()
	cookies := cookiesFor(router, "/become/"+models.RoleUser)

	req, _ := http.NewRequest("GET", "/admin-only", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")
}

// Test: an admin passes through
func TestAdminRequired_Admin(t *testing.T) {
	router := setupAdminTestRouter()
	cookies := cookiesFor(router, "/become/"+models.RoleAdmin)

	req, _ := http.NewRequest("GET", "/admin-only", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin panel")
}
