package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

var studentColumns = []string{"id", "first_name", "last_name", "email", "date_of_birth"}

type StudentRepository struct {
	db      *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db, builder: builder()}
}

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var s domain.Student
	if err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.DateOfBirth); err != nil {
		return nil, err
	}
	s.DateOfBirth = s.DateOfBirth.UTC()
	return &s, nil
}

func (r *StudentRepository) List(ctx context.Context) ([]*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.builder.
		Select(studentColumns...).
		From("students").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	students := make([]*domain.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.builder.
		Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanStudent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *StudentRepository) Create(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.builder.
		Insert("students").
		Columns("first_name", "last_name", "email", "date_of_birth").
		Values(s.FirstName, s.LastName, s.Email, s.DateOfBirth).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	created := *s
	if err := r.db.QueryRow(ctx, query, args...).Scan(&created.ID); err != nil {
		return nil, classify(err)
	}
	return &created, nil
}

func (r *StudentRepository) Update(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.builder.
		Update("students").
		Set("first_name", s.FirstName).
		Set("last_name", s.LastName).
		Set("email", s.Email).
		Set("date_of_birth", s.DateOfBirth).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrStudentNotFound
	}
	updated := *s
	return &updated, nil
}

func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.builder.
		Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}
