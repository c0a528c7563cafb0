// file: controllers/user_controller_test.go
package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sched-log/models"
	"go-sched-log/services"
)

type fakeUserManager struct {
	users     []models.User
	createErr error
	deleteErr error

	created [][4]string
	deleted []string
}

func (f *fakeUserManager) CreateUser(username, password, role, name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, [4]string{username, password, role, name})
	return nil
}

func (f *fakeUserManager) DeleteUser(username string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, username)
	return nil
}

func (f *fakeUserManager) ListUsers() ([]models.User, error) {
	return f.users, nil
}

func TestManageUsersRendersList(t *testing.T) {
	router := setupTestRouter()
	uc := NewUserController(&fakeUserManager{users: []models.User{
		{Username: "admin", Role: models.RoleAdmin, Name: "Administrator"},
	}})
	router.GET("/users", uc.ManageUsers)

	req, _ := http.NewRequest("GET", "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddUserDefaultsRoleAndRedirects(t *testing.T) {
	router := setupTestRouter()
	mgr := &fakeUserManager{}
	uc := NewUserController(mgr)
	router.POST("/users/add", uc.AddUser)

	w := postForm(router, "/users/add", url.Values{
		"username": {"carol"},
		"password": {"secret"},
		"name":     {"Carol"},
	}, nil)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users", w.Header().Get("Location"))
	require.Len(t, mgr.created, 1)
	assert.Equal(t, models.RoleUser, mgr.created[0][2])
}

func TestAddUserValidationFailure(t *testing.T) {
	router := setupTestRouter()
	mgr := &fakeUserManager{
		createErr: fmt.Errorf("%w: username already exists", services.ErrValidation),
	}
	uc := NewUserController(mgr)
	router.POST("/users/add", uc.AddUser)

	w := postForm(router, "/users/add", url.Values{
		"username": {"admin"},
		"password": {"secret"},
		"name":     {"Dup"},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username already exists")
}

func TestDeleteUserMissingUsername(t *testing.T) {
	router := setupTestRouter()
	uc := NewUserController(&fakeUserManager{})
	router.POST("/users/delete", uc.DeleteUser)

	w := postForm(router, "/users/delete", url.Values{}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteUserNotFound(t *testing.T) {
	router := setupTestRouter()
	uc := NewUserController(&fakeUserManager{
		deleteErr: fmt.Errorf("%w: no such user", services.ErrNotFound),
	})
	router.POST("/users/delete", uc.DeleteUser)

	w := postForm(router, "/users/delete", url.Values{"username": {"ghost"}}, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestDeleteUserLastAdminRefused(t *testing.T) {
	router := setupTestRouter()
	uc := NewUserController(&fakeUserManager{
		deleteErr: fmt.Errorf("%w: cannot delete the last admin account", services.ErrValidation),
	})
	router.POST("/users/delete", uc.DeleteUser)

	w := postForm(router, "/users/delete", url.Values{"username": {"admin"}}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot delete the last admin account")
}

func TestDeleteUserSuccess(t *testing.T) {
	router := setupTestRouter()
	mgr := &fakeUserManager{}
	uc := NewUserController(mgr)
	router.POST("/users/delete", uc.DeleteUser)

	w := postForm(router, "/users/delete", url.Values{"username": {"carol"}}, nil)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, []string{"carol"}, mgr.deleted)
}
