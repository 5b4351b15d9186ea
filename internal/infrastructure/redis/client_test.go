package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clubportal/internal/config"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr(), DB: 2}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.Select(2)
	assert.True(t, mr.Exists("k"))
}

func TestNewClient_Errors(t *testing.T) {
	t.Run("Should reject a malformed url", func(t *testing.T) {
		_, err := NewClient(context.Background(), config.RedisConfig{URL: "mysql://nope"}, nil)
		assert.ErrorContains(t, err, "parse redis url")
	})

	t.Run("Should give up after the configured retries", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		_, err = NewClient(context.Background(), config.RedisConfig{URL: "redis://" + addr, ConnectRetries: 1}, nil)
		assert.ErrorContains(t, err, "connect redis")
	})
}
