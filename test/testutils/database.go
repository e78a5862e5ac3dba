//go:build integration

// Package testutils provides common testing utilities and infrastructure setup
package testutils

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/postgres"
	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// TestDatabase is a migrated PostgreSQL running in a throwaway container
type TestDatabase struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	Gateway   *postgres.Gateway
	Config    *config.Config
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "recipes_test",
		Username: "test_user",
		Password: "test_password",
	}
}

// SetupTestDatabase starts PostgreSQL, applies migrations and registers cleanup.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	cfg := DefaultDatabaseConfig()
	ctx := context.Background()
	port := nat.Port("5432/tcp")

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"POSTGRES_DB":       cfg.Database,
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForListeningPort(port),
			),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)
	portNum, err := strconv.Atoi(mapped.Port())
	require.NoError(t, err)

	appCfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:   "postgres",
			Host:     host,
			Port:     portNum,
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
			SSLMode:  "disable",
			MaxConns: 5,
			MinConns: 1,
		},
	}

	logger := zap.NewNop()
	pool, err := postgres.NewPool(ctx, appCfg, logger)
	require.NoError(t, err, "Failed to create pgx pool")
	t.Cleanup(pool.Close)

	migrator, err := migrations.NewFromPool(pool, cfg.Database, logger)
	require.NoError(t, err)
	require.NoError(t, migrator.Up(), "Failed to apply migrations")

	return &TestDatabase{
		Container: container,
		Pool:      pool,
		Gateway:   postgres.NewGateway(pool, logger),
		Config:    appCfg,
	}
}

// TruncateAllTables empties every application table between tests.
func (td *TestDatabase) TruncateAllTables(t *testing.T) {
	t.Helper()
	_, err := td.Pool.Exec(context.Background(),
		"TRUNCATE TABLE favorite_recipes, user_recipes, users RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}
