package redis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/internship-checker/internal/cache"
)

func TestCache_EmptyKey(t *testing.T) {
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	defer func() { _ = c.Close() }()

	_, err := c.Get(context.Background(), "")
	assert.ErrorIs(t, err, cache.ErrInvalidKey)
	assert.ErrorIs(t, c.Set(context.Background(), "", []byte("x"), 0), cache.ErrInvalidKey)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(context.Background(), "redis://localhost:notaport")
	assert.Error(t, err)
}
