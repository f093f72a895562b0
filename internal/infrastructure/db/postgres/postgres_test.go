package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantField domain.Field
		violation bool
	}{
		{
			name:      "username",
			err:       &pgconn.PgError{Code: uniqueViolation, ConstraintName: "uk_username"},
			wantField: domain.FieldUsername,
			violation: true,
		},
		{
			name:      "email wrapped",
			err:       fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "uk_email"}),
			wantField: domain.FieldEmail,
			violation: true,
		},
		{
			name:      "student email",
			err:       &pgconn.PgError{Code: uniqueViolation, ConstraintName: "uk_students_email"},
			wantField: domain.FieldEmail,
			violation: true,
		},
		{
			name:      "unknown constraint",
			err:       &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_pkey"},
			violation: true,
		},
		{
			name: "not null violation",
			err:  &pgconn.PgError{Code: "23502", ColumnName: "email"},
		},
		{
			name: "plain",
			err:  errors.New("conn closed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)

			var cv *domain.ConstraintViolation
			if !errors.As(got, &cv) {
				if tt.violation {
					t.Fatalf("expected ConstraintViolation, got %v", got)
				}
				if got != tt.err {
					t.Fatalf("expected unchanged error, got %v", got)
				}
				return
			}
			if !tt.violation {
				t.Fatalf("unexpected violation %+v", cv)
			}
			if cv.Field != tt.wantField {
				t.Fatalf("field = %q, want %q", cv.Field, tt.wantField)
			}
			var pgErr *pgconn.PgError
			if !errors.As(got, &pgErr) {
				t.Fatalf("violation should wrap the driver error")
			}
		})
	}
}

func TestBuilderUsesDollarPlaceholders(t *testing.T) {
	query, args, err := builder().
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"username": "alice"}).
		ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(query, "username = $1") {
		t.Fatalf("unexpected query %q", query)
	}
	if len(args) != 1 || args[0] != "alice" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestSchemaNamesConstraints(t *testing.T) {
	all := strings.Join(schema, "\n")
	for _, name := range []string{constraintUsername, constraintEmail, constraintStudentEmail} {
		if !strings.Contains(all, "CONSTRAINT "+name+" UNIQUE") {
			t.Fatalf("schema is missing constraint %s", name)
		}
	}
}
