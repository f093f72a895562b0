package ports

import (
	"context"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

// RegisterInput carries the fields collected at sign-up.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Role      domain.Role
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.AuthOutcome, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*domain.AuthOutcome, error)
	Validate(ctx context.Context, token string) (*domain.Claims, error)
	// Authenticate validates the token and resolves its subject to the stored
	// identity, so the role used for access decisions is the current one.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
