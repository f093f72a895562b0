package ports

import (
	"context"
	"time"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

// StudentInput carries the writable student fields.
type StudentInput struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
}

// StudentService defines use-case operations for students.
type StudentService interface {
	ListStudents(ctx context.Context) ([]*domain.Student, error)
	GetStudent(ctx context.Context, id int64) (*domain.Student, error)
	CreateStudent(ctx context.Context, input StudentInput) (*domain.Student, error)
	UpdateStudent(ctx context.Context, id int64, input StudentInput) (*domain.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}
