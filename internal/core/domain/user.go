package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the authority granted to an identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole normalises s and returns the matching Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User models a registered identity. PasswordHash never leaves the process.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Authorities derives the granted authorities from the stored role.
func (u *User) Authorities() []Role {
	if u == nil || !u.Role.Valid() {
		return nil
	}
	return []Role{u.Role}
}

// HasAnyRole reports whether the user holds at least one of roles.
func (u *User) HasAnyRole(roles ...Role) bool {
	for _, granted := range u.Authorities() {
		for _, r := range roles {
			if granted == r {
				return true
			}
		}
	}
	return false
}

// AuthOutcome is what a successful login or registration hands back.
type AuthOutcome struct {
	Token string `json:"token"`
}
