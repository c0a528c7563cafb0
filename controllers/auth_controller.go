// Package controllers handles user authentication and session management.
// File: controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-sched-log/logger"
	"go-sched-log/models"
	"go-sched-log/services"
)

// Authenticator is the slice of the user service the auth controller needs.
type Authenticator interface {
	Authenticate(username, password string) (*models.User, error)
}

// AuthController serves the login form and manages the session lifecycle.
type AuthController struct {
	Users Authenticator
}

// NewAuthController initializes a new instance of AuthController.
func NewAuthController(users Authenticator) *AuthController {
	return &AuthController{Users: users}
}

// ------------------ login handling ------------------

// ShowLoginPage renders the login form. An already-authenticated user
// is sent straight to the dashboard.
func (ac *AuthController) ShowLoginPage(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get("user") != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// PerformLogin authenticates the posted credentials and stamps the
// username, role and display name onto the session. Bad credentials
// re-render the form with the same generic message whether the user
// exists or not.
func (ac *AuthController) PerformLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" || password == "" {
		logger.Warn.Println("PerformLogin: missing username or password")
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": "Please fill in all fields.",
		})
		return
	}

	user, err := ac.Users.Authenticate(username, password)
	if errors.Is(err, services.ErrAuth) {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error": "Invalid username or password.",
		})
		return
	}
	if err != nil {
		logger.Error.Printf("PerformLogin: authentication backend failed: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Internal error, please try again later.",
		})
		return
	}

	session := sessions.Default(c)
	session.Set("user", user.Username)
	session.Set("role", user.Role)
	session.Set("name", user.Name)
	if err := session.Save(); err != nil {
		logger.Error.Println("PerformLogin: failed to save session:", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Internal error, please try again.",
		})
		return
	}

	logger.Info.Printf("PerformLogin: user %s logged in (role=%s)", user.Username, user.Role)
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session and returns to the login form.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if user := session.Get("user"); user != nil {
		logger.Info.Printf("Logout: logging out user %v", user)
	}

	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: error saving session during logout: %v", err)
	}

	c.Redirect(http.StatusFound, "/login")
}
