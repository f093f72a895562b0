// Package memory holds map-backed stores for local development and tests.
// Data lives only as long as the process.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

type AuthRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]*domain.User
	byUsername map[string]int64
	byEmail    map[string]int64
}

func NewAuthRepository() *AuthRepository {
	return &AuthRepository{
		byID:       make(map[int64]*domain.User),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
	}
}

// Create checks both unique keys and inserts under one lock, so concurrent
// registrations see the same atomic constraint a database would give.
func (r *AuthRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return nil, &domain.ConstraintViolation{Field: domain.FieldUsername, Constraint: "uk_username"}
	}
	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return nil, &domain.ConstraintViolation{Field: domain.FieldEmail, Constraint: "uk_email"}
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.byID[stored.ID] = &stored
	r.byUsername[stored.Username] = stored.ID
	r.byEmail[email] = stored.ID

	out := stored
	return &out, nil
}

func (r *AuthRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(r.byUsername[username])
}

func (r *AuthRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(r.byEmail[strings.ToLower(email)])
}

// Ping always succeeds.
func (r *AuthRepository) Ping(context.Context) error { return nil }

func (r *AuthRepository) get(id int64) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}
