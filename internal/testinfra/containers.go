//go:build integration

// Package testinfra starts throwaway Postgres and Redis containers for
// integration tests.
package testinfra

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/imadgeboyega/matcha-backend/internal/common/database"
)

const (
	postgresImage = "postgres:16-alpine"
	redisImage    = "redis:7-alpine"
)

// SkipIfNoDocker skips the test if Docker is not available.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable checks if Docker daemon is running and accessible.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}

// StartPostgres runs a migrated Postgres and returns a connection to it.
// The container is terminated when the test ends.
func StartPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	SkipIfNoDocker(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("matcha"),
		postgres.WithUsername("matcha"),
		postgres.WithPassword("matcha"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := database.NewPostgresDBFromURL(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.RunMigrations(ctx, db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// StartRedis runs a Redis server and returns a client for it
func StartRedis(t *testing.T) *redis.Client {
	t.Helper()
	SkipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("failed to start redis: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	client, err := database.NewRedisClientFromURL(ctx, "redis://"+endpoint)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// SeedUser inserts a verified user and returns its id
func SeedUser(t *testing.T, db *sqlx.DB, username string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRowx(`
		INSERT INTO users (username, email, first_name, email_verified, last_seen)
		VALUES ($1, $1 || '@example.com', $1, TRUE, NOW())
		RETURNING id`, username).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return id
}
