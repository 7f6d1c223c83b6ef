package db

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWithMigrations(t *testing.T) {
	t.Run("successfully opens database and runs migrations", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := OpenWithMigrations(dbPath, nil)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		for _, table := range []string{"schema_migrations", "unit_tables"} {
			var exists int
			err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&exists)
			require.NoError(t, err)
			assert.Equal(t, 1, exists, "%s table should exist after migrations", table)
		}
	})

	t.Run("fails on a foreign schema_migrations table", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := Open(dbPath, nil)
		require.NoError(t, err)
		_, err = db.Exec("CREATE TABLE schema_migrations (bad_schema TEXT)")
		require.NoError(t, err)
		db.Close()

		db, err = OpenWithMigrations(dbPath, nil)
		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "000_create_schema_migrations.sql")

		detailed := fmt.Sprintf("%+v", err)
		assert.Contains(t, detailed, "connection.go", "error should carry a stack trace")
	})
}

func TestMigrate(t *testing.T) {
	t.Run("creates schema_migrations table", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := Open(dbPath, nil)
		require.NoError(t, err)
		defer db.Close()

		// Run migrations
		err = Migrate(db, nil)
		require.NoError(t, err)

		// Verify schema_migrations table was created
		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 2, count, "every migration should be recorded")
	})

	t.Run("is idempotent", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := Open(dbPath, nil)
		require.NoError(t, err)
		defer db.Close()

		// Run migrations twice
		err = Migrate(db, nil)
		require.NoError(t, err)

		err = Migrate(db, nil)
		require.NoError(t, err, "running migrations multiple times should be safe")
	})

	t.Run("migration errors have context", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		db, err := Open(dbPath, nil)
		require.NoError(t, err)

		// Close the database before trying to migrate
		db.Close()

		// Migrate should fail with a closed database
		err = Migrate(db, nil)
		require.Error(t, err)

		// Error should indicate it's database-related
		// Even if it doesn't have our wrapper (because it might fail before we wrap),
		// we can test that the error exists
		assert.NotNil(t, err)
	})
}
