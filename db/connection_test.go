package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/smuchow1962/conversion-table-manager/errors"
)

func TestOpen_Pragmas(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "ctm.db"), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer conn.Close()

	// Two live connections must both carry the settings
	conn.SetMaxOpenConns(2)
	ctx := context.Background()
	c1, err := conn.Conn(ctx)
	require.NoError(t, err)
	defer c1.Close()
	c2, err := conn.Conn(ctx)
	require.NoError(t, err)
	defer c2.Close()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		t.Run(tt.pragma, func(t *testing.T) {
			var got1, got2 string
			require.NoError(t, c1.QueryRowContext(ctx, "PRAGMA "+tt.pragma).Scan(&got1))
			require.NoError(t, c2.QueryRowContext(ctx, "PRAGMA "+tt.pragma).Scan(&got2))
			assert.Equal(t, tt.want, got1)
			assert.Equal(t, tt.want, got2)
		})
	}
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.db")
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	conn, err := Open(path, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "ctm.db")

	_, err := Open(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.NotNil(t, errors.GetStack(err))
}

func TestOpenWithMigrations_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctm.db")

	conn, err := OpenWithMigrations(path, nil)
	require.NoError(t, err)
	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM unit_tables").Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, conn.Close())

	// Reopening an up-to-date database applies nothing
	conn, err = OpenWithMigrations(path, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestClosedDatabase(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "ctm.db"), nil)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	_, err = conn.Exec("SELECT 1")
	require.Error(t, err)
	assert.True(t, IsDatabaseClosed(err))
}
