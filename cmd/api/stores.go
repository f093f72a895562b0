package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/spectrosystems/student-management-api/internal/api/handler"
	"github.com/spectrosystems/student-management-api/internal/core/ports"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/config"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/db/memory"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/db/mongo"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/db/postgres"
	"github.com/spectrosystems/student-management-api/internal/infrastructure/db/redis"
)

type stores struct {
	users    ports.AuthRepository
	students ports.StudentRepository
	// cache is nil when REDIS_ADDR is empty.
	cache   ports.StudentCache
	checks  map[string]handler.Check
	closers []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects the backend selected by STORE_DRIVER plus the optional
// Redis cache.
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: make(map[string]handler.Check)}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Disconnect(context.Background()) })

		users := mongo.NewAuthRepository(db)
		students := mongo.NewStudentRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			st.close()
			return nil, fmt.Errorf("user indexes: %w", err)
		}
		if err := students.EnsureIndexes(ctx); err != nil {
			st.close()
			return nil, fmt.Errorf("student indexes: %w", err)
		}
		st.users, st.students = users, students
		st.checks["mongodb"] = func(ctx context.Context) error { return mongo.Ping(ctx, db) }

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, ConnectTimeout: cfg.Postgres.ConnectTimeout}, log)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, pool.Close)

		if err := postgres.Migrate(ctx, pool); err != nil {
			st.close()
			return nil, err
		}
		st.users = postgres.NewAuthRepository(pool)
		st.students = postgres.NewStudentRepository(pool)
		st.checks["postgres"] = pool.Ping

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		users := memory.NewAuthRepository()
		st.users = users
		st.students = memory.NewStudentRepository()
		st.checks["memory"] = users.Ping

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.Redis.Addr == "" {
		return st, nil
	}
	client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, student cache disabled")
		return st, nil
	}
	st.closers = append(st.closers, func() { _ = client.Close() })
	st.cache = redis.NewStudentCache(client)
	st.checks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, client) }

	return st, nil
}
