package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

func TestStudentKey(t *testing.T) {
	if got := studentKey(42); got != "student:42" {
		t.Fatalf("studentKey = %q", got)
	}
}

func TestStudentCache_UnreachableServerIsAnError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewStudentCache(client)
	ctx := context.Background()

	s, err := cache.Get(ctx, 1)
	if err == nil {
		t.Fatalf("expected error from unreachable server, got student %+v", s)
	}
	if s != nil {
		t.Fatalf("expected nil student on error")
	}

	st := &domain.Student{ID: 1, Email: "a@x.com", DateOfBirth: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := cache.Set(ctx, st, time.Minute); err == nil {
		t.Fatalf("expected Set to fail")
	}
	if err := cache.Invalidate(ctx, 1); err == nil {
		t.Fatalf("expected Invalidate to fail")
	}
}
