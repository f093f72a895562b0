package ports

import (
	"context"
	"time"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

// StudentRepository defines persistence operations for students.
// Create and Update return *domain.ConstraintViolation on a duplicate email;
// lookups, Update and Delete return domain.ErrStudentNotFound for unknown ids.
type StudentRepository interface {
	List(ctx context.Context) ([]*domain.Student, error)
	FindByID(ctx context.Context, id int64) (*domain.Student, error)
	Create(ctx context.Context, s *domain.Student) (*domain.Student, error)
	Update(ctx context.Context, s *domain.Student) (*domain.Student, error)
	Delete(ctx context.Context, id int64) error
}

// StudentCache is an optional read-through cache keyed by student id.
// Get returns (nil, nil) on a miss.
type StudentCache interface {
	Get(ctx context.Context, id int64) (*domain.Student, error)
	Set(ctx context.Context, s *domain.Student, ttl time.Duration) error
	Invalidate(ctx context.Context, id int64) error
}
