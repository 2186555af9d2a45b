package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"rombet/database"
)

// TestDatabase wraps a connection to a throwaway postgres container with
// migrations (including the team seed) already applied.
type TestDatabase struct {
	DB *database.DB
}

// SetupTestDatabase starts a postgres container for the test and tears it
// down with the test.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("rombet_test"),
		postgres.WithUsername("rombet"),
		postgres.WithPassword("rombet"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	databaseURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(databaseURL))

	db, err := database.NewConnection(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return &TestDatabase{DB: db}
}
