package ports

import (
	"context"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

// AuthRepository persists user identities.
//
// Lookups return domain.ErrUserNotFound when nothing matches. Create assigns
// the numeric id and returns *domain.ConstraintViolation when username or
// email is already taken.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
