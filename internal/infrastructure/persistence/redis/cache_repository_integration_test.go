//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	"github.com/docker/go-connections/nat"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()
	port := nat.Port("6379/tcp")

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{string(port)},
			WaitingFor:   wait.ForListeningPort(port),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: host + ":" + mapped.Port()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCacheRepositoryIntegration(t *testing.T) {
	client := startRedis(t)
	repo := NewCacheRepository(client, "test:", zap.NewNop())
	ctx := context.Background()

	t.Run("Miss_ShouldReturnErrCacheMiss", func(t *testing.T) {
		_, err := repo.Get(ctx, "absent")
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("SetGetDelete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "recipe:1", []byte(`{"id":1}`), time.Minute))

		got, err := repo.Get(ctx, "recipe:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1}`, string(got))

		raw, err := client.Get(ctx, "test:recipe:1").Result()
		require.NoError(t, err)
		assert.NotEmpty(t, raw)

		require.NoError(t, repo.Delete(ctx, "recipe:1"))
		exists, err := repo.Exists(ctx, "recipe:1")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
