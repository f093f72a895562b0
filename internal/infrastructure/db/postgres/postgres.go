// Package postgres stores identities and students in PostgreSQL through a
// pgx connection pool. Queries are built with squirrel.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	DSN string
	// ConnectTimeout bounds the retry loop in Connect.
	ConnectTimeout time.Duration
}

// Connect opens a pool and retries once a second until the database answers a
// ping or ConnectTimeout elapses.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	deadline := time.After(timeout)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastErr error
	for {
		select {
		case <-ticker.C:
			pool, err := pgxpool.New(ctx, cfg.DSN)
			if err != nil {
				lastErr = err
				continue
			}
			if err = pool.Ping(ctx); err != nil {
				pool.Close()
				lastErr = err
				log.Debug().Err(err).Msg("postgres not ready, retrying")
				continue
			}
			log.Info().Msg("connected to postgres")
			return pool, nil

		case <-deadline:
			return nil, fmt.Errorf("postgres connect: %w", lastErr)

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
