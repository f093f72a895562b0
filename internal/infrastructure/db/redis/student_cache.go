package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

// StudentCache keeps serialized students under student:<id>.
type StudentCache struct {
	client *redis.Client
}

func NewStudentCache(client *redis.Client) *StudentCache {
	return &StudentCache{client: client}
}

// Get returns nil, nil on a miss.
func (c *StudentCache) Get(ctx context.Context, id int64) (*domain.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, studentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("student cache get: %w", err)
	}

	var s domain.Student
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("student cache decode: %w", err)
	}
	return &s, nil
}

func (c *StudentCache) Set(ctx context.Context, s *domain.Student, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("student cache encode: %w", err)
	}
	return c.client.Set(ctx, studentKey(s.ID), raw, ttl).Err()
}

func (c *StudentCache) Invalidate(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return c.client.Del(ctx, studentKey(id)).Err()
}

func studentKey(id int64) string {
	return fmt.Sprintf("student:%d", id)
}
