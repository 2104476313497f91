package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/nexus/internal/shared/infrastructure/database"
)

func TestNewConnection_RequiresURL(t *testing.T) {
	_, err := NewConnection(context.Background(), database.Config{})

	assert.EqualError(t, err, "database URL is required for PostgreSQL")
}

func TestNewConnection_InvalidURL(t *testing.T) {
	_, err := NewConnection(context.Background(), database.Config{URL: "postgres://%zz"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database URL")
}

func TestConnection_Transaction(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := database.NewConnection(ctx, database.Config{URL: url})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverPostgres, conn.Driver())

	tx, err := conn.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `CREATE TEMP TABLE conn_check (id BIGSERIAL PRIMARY KEY, name TEXT) ON COMMIT DROP`)
	require.NoError(t, err)

	var id int64
	require.NoError(t, tx.QueryRow(ctx, `INSERT INTO conn_check (name) VALUES ($1) RETURNING id`, "scratch").Scan(&id))
	assert.Positive(t, id)

	require.NoError(t, tx.Commit(ctx))
}
