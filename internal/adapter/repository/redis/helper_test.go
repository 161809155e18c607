package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// idempotencyFixture is an IdempotencyStore backed by an in-process Redis.
type idempotencyFixture struct {
	store *IdempotencyStore
	mr    *miniredis.Miniredis
}

func newIdempotencyFixture(t *testing.T) *idempotencyFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &idempotencyFixture{store: NewIdempotencyStore(client), mr: mr}
}

// raw returns the value stored for an unprefixed idempotency key.
func (f *idempotencyFixture) raw(t *testing.T, key string) string {
	t.Helper()
	val, err := f.mr.Get(f.store.prefix + key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	return val
}
