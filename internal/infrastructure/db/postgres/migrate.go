package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Constraint names are matched by the error classifier, keep them in sync.
const (
	constraintUsername     = "uk_username"
	constraintEmail        = "uk_email"
	constraintStudentEmail = "uk_students_email"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		first_name    VARCHAR(15)  NOT NULL,
		last_name     VARCHAR(15)  NOT NULL,
		username      VARCHAR(20)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		CONSTRAINT ` + constraintUsername + ` UNIQUE (username),
		CONSTRAINT ` + constraintEmail + ` UNIQUE (email)
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id            BIGSERIAL PRIMARY KEY,
		first_name    VARCHAR(15)  NOT NULL,
		last_name     VARCHAR(15)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		date_of_birth DATE         NOT NULL,
		CONSTRAINT ` + constraintStudentEmail + ` UNIQUE (email)
	)`,
}

// Migrate creates the tables if they don't exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
