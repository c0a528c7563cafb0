// Package controllers - admin-only user management handlers. Role
// enforcement happens in middleware.AdminRequired on the route group.
// File: controllers/user_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-sched-log/logger"
	"go-sched-log/models"
	"go-sched-log/services"
)

// UserManager is the slice of the user service this controller needs.
type UserManager interface {
	CreateUser(username, password, role, name string) error
	DeleteUser(username string) error
	ListUsers() ([]models.User, error)
}

// UserController provides the admin's user-management page.
type UserController struct {
	Users UserManager
}

// NewUserController initializes a new instance of UserController.
func NewUserController(users UserManager) *UserController {
	return &UserController{Users: users}
}

// ManageUsers renders the account list plus the add-user form.
func (uc *UserController) ManageUsers(c *gin.Context) {
	uc.renderUsers(c, http.StatusOK, "")
}

// AddUser creates an account from the posted form.
func (uc *UserController) AddUser(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	name := c.PostForm("name")
	role := c.PostForm("role")
	if role == "" {
		role = models.RoleUser
	}

	err := uc.Users.CreateUser(username, password, role, name)
	if errors.Is(err, services.ErrValidation) {
		uc.renderUsers(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.Error.Printf("AddUser: %v", err)
		c.String(http.StatusInternalServerError, "Internal error, please try again later.")
		return
	}

	c.Redirect(http.StatusFound, "/users")
}

// DeleteUser removes an account. The last admin cannot be removed.
func (uc *UserController) DeleteUser(c *gin.Context) {
	username := c.PostForm("username")
	if username == "" {
		uc.renderUsers(c, http.StatusBadRequest, "Missing username")
		return
	}

	err := uc.Users.DeleteUser(username)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.String(http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrValidation):
		uc.renderUsers(c, http.StatusBadRequest, err.Error())
	case err != nil:
		logger.Error.Printf("DeleteUser: %v", err)
		c.String(http.StatusInternalServerError, "Internal error, please try again later.")
	default:
		c.Redirect(http.StatusFound, "/users")
	}
}

func (uc *UserController) renderUsers(c *gin.Context, status int, errMsg string) {
	users, err := uc.Users.ListUsers()
	if err != nil {
		logger.Error.Printf("ManageUsers: %v", err)
		c.String(http.StatusInternalServerError, "Internal error, please try again later.")
		return
	}
	c.HTML(status, "users.html", gin.H{
		"Users": users,
		"Error": errMsg,
	})
}
