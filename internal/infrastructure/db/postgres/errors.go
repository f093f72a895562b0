package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

const uniqueViolation = "23505"

var constraintFields = map[string]domain.Field{
	constraintUsername:     domain.FieldUsername,
	constraintEmail:        domain.FieldEmail,
	constraintStudentEmail: domain.FieldEmail,
}

// classify turns a unique violation into a *domain.ConstraintViolation keyed
// by constraint name. Other errors are returned unchanged.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	return &domain.ConstraintViolation{
		Field:      constraintFields[pgErr.ConstraintName],
		Constraint: pgErr.ConstraintName,
		Err:        err,
	}
}
