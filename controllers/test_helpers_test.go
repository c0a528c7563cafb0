// file: controllers/test_helpers_test.go
package controllers

import (
	"html/template"
	"net/http"
	"net/http/httptest"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// setupTestRouter creates a Gin engine with session middleware and
// minimal named templates so HTML handlers do not panic under test.
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))

	names := []string{
		"login.html", "dashboard.html", "events.html",
		"add_event.html", "edit_event.html", "users.html",
	}
	tmpl := template.New("root")
	for _, name := range names {
		template.Must(tmpl.New(name).Parse(`<html><body>` + name + ` {{if .Error}}{{.Error}}{{end}}</body></html>`))
	}
	router.SetHTMLTemplate(tmpl)
	return router
}

// setSession sets the given key/value pairs via a helper route and
// returns the session cookies for subsequent test requests.
func setSession(router *gin.Engine, route string, data map[string]interface{}) []*http.Cookie {
	router.GET(route, func(c *gin.Context) {
		session := sessions.Default(c)
		for key, value := range data {
			session.Set(key, value)
		}
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "session set")
	})

	req, _ := http.NewRequest("GET", route, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Result().Cookies()
}
