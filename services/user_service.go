// Package services - services/user_service.go
package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"go-sched-log/logger"
	"go-sched-log/models"
)

// UserRepo is the slice of the store the user service needs.
type UserRepo interface {
	Load() (map[string]models.User, error)
	Save(map[string]models.User) error
}

// dummyHash is compared against when a username is unknown, so failed
// logins cost roughly the same whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)

// UserService authenticates accounts and manages the account
// collection. Like EventService, mutations hold mu across the whole
// load-mutate-save cycle.
type UserService struct {
	mu    sync.Mutex
	store UserRepo
}

// NewUserService creates a UserService on top of the given repo.
func NewUserService(store UserRepo) *UserService {
	return &UserService{store: store}
}

// ---------------- authentication ----------------

// Authenticate looks the username up and compares the bcrypt hash.
// A missing user and a wrong password both return the identical
// ErrAuth, so responses never reveal whether the username exists.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	users, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	user, ok := users[username]
	if !ok {
		// burn a compare so the unknown-user path is not observably faster
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		logger.Warn.Printf("UserService: failed login for unknown user %q", username)
		return nil, ErrAuth
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		logger.Warn.Printf("UserService: failed login for user %q", username)
		return nil, ErrAuth
	}

	logger.Info.Printf("UserService: user %q authenticated (role=%s)", username, user.Role)
	return &user, nil
}

// ---------------- user management (admin-only at the HTTP layer) ----------------

// CreateUser adds a new account with a bcrypt-hashed password.
func (s *UserService) CreateUser(username, password, role, name string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: username, password and name are all required", ErrValidation)
	}
	if !models.ValidRole(role) {
		return fmt.Errorf("%w: role must be %q or %q", ErrValidation, models.RoleAdmin, models.RoleUser)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Load()
	if err != nil {
		return err
	}
	if _, exists := users[username]; exists {
		return fmt.Errorf("%w: username %q already exists", ErrValidation, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users[username] = models.User{Username: username, Password: string(hash), Role: role, Name: name}
	if err := s.store.Save(users); err != nil {
		return err
	}

	logger.Info.Printf("UserService: created user %q (role=%s)", username, role)
	return nil
}

// DeleteUser removes an account. Deleting the last admin is refused:
// the system must always keep at least one usable admin account.
func (s *UserService) DeleteUser(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.Load()
	if err != nil {
		return err
	}

	user, exists := users[username]
	if !exists {
		return fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	if user.IsAdmin() && adminCount(users) == 1 {
		return fmt.Errorf("%w: cannot delete the last admin account", ErrValidation)
	}

	delete(users, username)
	if err := s.store.Save(users); err != nil {
		return err
	}

	logger.Info.Printf("UserService: deleted user %q", username)
	return nil
}

// ListUsers returns all accounts sorted by username, with password
// hashes blanked out.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	list := make([]models.User, 0, len(users))
	for _, u := range users {
		u.Password = ""
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}

func adminCount(users map[string]models.User) int {
	n := 0
	for _, u := range users {
		if u.IsAdmin() {
			n++
		}
	}
	return n
}
