package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	// Incr bumps a counter; used to version groups of keys.
	Incr(ctx context.Context, key string) (int64, error)
	// Get returns the raw value or "" when missing.
	Get(ctx context.Context, key string) (string, error)
}

// Nop never hits. Used when Redis is not configured and in tests.
type Nop struct{}

func (Nop) GetJSON(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Nop) Incr(context.Context, string) (int64, error) { return 0, nil }
func (Nop) Get(context.Context, string) (string, error) { return "", nil }
