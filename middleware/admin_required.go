// Package middleware - middleware that checks if the user holds the admin role.
// File: middleware/admin_required.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-sched-log/logger"
	"go-sched-log/models"
)

// AdminRequired blocks requests from sessions that do not carry the
// admin role. The user-management routes hang off a group using this.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		role, ok := session.Get("role").(string)

		logger.Debug.Printf("AdminRequired Middleware - role=%q, ok=%v", role, ok)

		if !ok || role != models.RoleAdmin {
			logger.Warn.Printf("AdminRequired Middleware - non-admin attempt on %s blocked", c.Request.URL.Path)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
