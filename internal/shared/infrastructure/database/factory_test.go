package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_UnregisteredDriver(t *testing.T) {
	saved := connectors
	connectors = map[Driver]ConnectFunc{}
	t.Cleanup(func() { connectors = saved })

	_, err := NewConnection(context.Background(), Config{URL: "postgres://localhost/nexus"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDriverNotRegistered))
}

func TestNewConnection_DispatchesByDetectedDriver(t *testing.T) {
	saved := connectors
	connectors = map[Driver]ConnectFunc{}
	t.Cleanup(func() { connectors = saved })

	var got Config
	Register(DriverSQLite, func(ctx context.Context, cfg Config) (Connection, error) {
		got = cfg
		return nil, nil
	})

	_, err := NewConnection(context.Background(), Config{SQLitePath: ":memory:"})

	require.NoError(t, err)
	assert.Equal(t, ":memory:", got.SQLitePath)
}

func TestNewConnection_InvalidDriver(t *testing.T) {
	_, err := NewConnection(context.Background(), Config{Driver: "mysql"})

	assert.EqualError(t, err, "unsupported database driver: mysql")
}

func TestDefaultSQLitePath(t *testing.T) {
	assert.Contains(t, DefaultSQLitePath(), ".nexus")
	assert.Equal(t, DriverSQLite, DefaultLocalConfig().Driver)
}
