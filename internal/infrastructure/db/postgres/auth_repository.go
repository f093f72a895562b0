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

var userColumns = []string{"id", "first_name", "last_name", "username", "email", "password_hash", "role", "created_at"}

type AuthRepository struct {
	db      *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db, builder: builder()}
}

func (r *AuthRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.builder.
		Insert("users").
		Columns("first_name", "last_name", "username", "email", "password_hash", "role", "created_at").
		Values(u.FirstName, u.LastName, u.Username, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	created := *u
	if err := r.db.QueryRow(ctx, query, args...).Scan(&created.ID); err != nil {
		var cv *domain.ConstraintViolation
		if errors.As(classify(err), &cv) {
			return nil, cv
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (r *AuthRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, squirrel.Eq{"username": username})
}

func (r *AuthRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, squirrel.Eq{"email": email})
}

func (r *AuthRepository) findOne(ctx context.Context, where squirrel.Eq) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.builder.
		Select(userColumns...).
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		u    domain.User
		role string
	)
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
