// Package store - store/user_store.go
package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"go-sched-log/logger"
	"go-sched-log/models"
)

// default accounts written on first run so the system is usable at all
const (
	DefaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
	DefaultUserUsername  = "user"
	defaultUserPassword  = "user123"
)

// UserStore reads and writes the account collection, a JSON object
// keyed by username. When the file is absent it seeds the default
// admin and user accounts, so Load never hands out an unusable system.
type UserStore struct {
	mu   sync.Mutex
	path string
}

// NewUserStore creates a UserStore backed by the given file path.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// Load returns every persisted account keyed by username, with the
// Username field filled in on each record. A missing file triggers
// seeding; an unreadable one is ErrCorruptStore.
func (s *UserStore) Load() (map[string]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.seedLocked()
	}

	var users map[string]models.User
	if err := json.Unmarshal(data, &users); err != nil {
		logger.Error.Printf("UserStore: %s is unreadable, refusing to reset it: %v", s.path, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, s.path, err)
	}
	for name, u := range users {
		u.Username = name
		users[name] = u
	}
	return users, nil
}

// Save atomically replaces the persisted account collection.
func (s *UserStore) Save(users map[string]models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.path, users)
}

// seedLocked writes the default admin/user pair with bcrypt-hashed
// passwords and returns them. Caller holds s.mu.
func (s *UserStore) seedLocked() (map[string]models.User, error) {
	logger.Info.Printf("UserStore: %s not found, seeding default accounts", s.path)

	adminHash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash default admin password: %w", err)
	}
	userHash, err := bcrypt.GenerateFromPassword([]byte(defaultUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash default user password: %w", err)
	}

	users := map[string]models.User{
		DefaultAdminUsername: {Password: string(adminHash), Role: models.RoleAdmin, Name: "Administrator"},
		DefaultUserUsername:  {Password: string(userHash), Role: models.RoleUser, Name: "Regular User"},
	}
	if err := writeAtomic(s.path, users); err != nil {
		return nil, err
	}
	for name, u := range users {
		u.Username = name
		users[name] = u
	}
	return users, nil
}
