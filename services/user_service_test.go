// file: services/user_service_test.go
package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-sched-log/models"
	"go-sched-log/services"
)

// fakeUserRepo is an in-memory stand-in for the flat-file user store.
type fakeUserRepo struct {
	users map[string]models.User
	saves int
}

func (f *fakeUserRepo) Load() (map[string]models.User, error) {
	out := make(map[string]models.User, len(f.users))
	for k, v := range f.users {
		v.Username = k
		out[k] = v
	}
	return out, nil
}

func (f *fakeUserRepo) Save(users map[string]models.User) error {
	f.users = users
	f.saves++
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func seededRepo(t *testing.T) *fakeUserRepo {
	t.Helper()
	return &fakeUserRepo{users: map[string]models.User{
		"admin": {Password: mustHash(t, "admin123"), Role: models.RoleAdmin, Name: "Administrator"},
		"user":  {Password: mustHash(t, "user123"), Role: models.RoleUser, Name: "Regular User"},
	}}
}

// ---------------- authentication ----------------

func TestAuthenticate_Success(t *testing.T) {
	svc := services.NewUserService(seededRepo(t))

	user, err := svc.Authenticate("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.IsAdmin())
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	svc := services.NewUserService(seededRepo(t))

	_, wrongPassword := svc.Authenticate("admin", "nope")
	_, missingUser := svc.Authenticate("nobody", "nope")

	require.Error(t, wrongPassword)
	require.Error(t, missingUser)
	// identical sentinel, identical message: the response never reveals
	// whether the username exists
	assert.ErrorIs(t, wrongPassword, services.ErrAuth)
	assert.ErrorIs(t, missingUser, services.ErrAuth)
	assert.Equal(t, wrongPassword.Error(), missingUser.Error())
}

// ---------------- user management ----------------

func TestCreateUser_HashesPassword(t *testing.T) {
	repo := seededRepo(t)
	svc := services.NewUserService(repo)

	require.NoError(t, svc.CreateUser("carol", "s3cret", models.RoleUser, "Carol"))

	stored := repo.users["carol"]
	assert.NotEqual(t, "s3cret", stored.Password, "password must never be stored in plaintext")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret")))

	// and the new account can log in
	user, err := svc.Authenticate("carol", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Carol", user.Name)
}

func TestCreateUser_Validation(t *testing.T) {
	repo := seededRepo(t)
	svc := services.NewUserService(repo)

	assert.ErrorIs(t, svc.CreateUser("", "pw", models.RoleUser, "X"), services.ErrValidation)
	assert.ErrorIs(t, svc.CreateUser("dave", "", models.RoleUser, "X"), services.ErrValidation)
	assert.ErrorIs(t, svc.CreateUser("dave", "pw", models.RoleUser, ""), services.ErrValidation)
	assert.ErrorIs(t, svc.CreateUser("dave", "pw", "root", "X"), services.ErrValidation)
	assert.ErrorIs(t, svc.CreateUser("admin", "pw", models.RoleUser, "X"), services.ErrValidation, "duplicate username")
	assert.Zero(t, repo.saves, "no failed create may touch the store")
}

func TestDeleteUser(t *testing.T) {
	repo := seededRepo(t)
	svc := services.NewUserService(repo)

	require.NoError(t, svc.DeleteUser("user"))
	_, exists := repo.users["user"]
	assert.False(t, exists)
}

func TestDeleteUser_NotFoundLeavesStoreUnchanged(t *testing.T) {
	repo := seededRepo(t)
	svc := services.NewUserService(repo)

	err := svc.DeleteUser("ghost")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Zero(t, repo.saves)
	assert.Len(t, repo.users, 2)
}

func TestDeleteUser_RefusesLastAdmin(t *testing.T) {
	repo := seededRepo(t)
	svc := services.NewUserService(repo)

	err := svc.DeleteUser("admin")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, stillThere := repo.users["admin"]
	assert.True(t, stillThere)

	// with a second admin present, deleting one is fine
	require.NoError(t, svc.CreateUser("root2", "pw", models.RoleAdmin, "Second Admin"))
	assert.NoError(t, svc.DeleteUser("admin"))
}

func TestListUsers_SortedAndRedacted(t *testing.T) {
	svc := services.NewUserService(seededRepo(t))

	users, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, "user", users[1].Username)
	for _, u := range users {
		assert.Empty(t, u.Password, "listing must not leak hashes")
	}
}
