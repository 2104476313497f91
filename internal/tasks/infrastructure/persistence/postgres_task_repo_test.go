package persistence

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database/postgres"
	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/migrations"
)

func TestPostgresTaskRepository_Contract(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := database.NewConnection(ctx, database.Config{Driver: database.DriverPostgres, URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, `TRUNCATE tasks RESTART IDENTITY`)
	require.NoError(t, err)

	runRepositoryContract(t, NewPostgresTaskRepository(conn))
}
