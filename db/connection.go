// Package db provides the SQLite database behind ctm's table store.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/logger"
)

// SQLiteBusyTimeoutMS is how long a connection waits on a locked database.
const SQLiteBusyTimeoutMS = 5000

// Open opens the SQLite file at path. Journal mode, foreign keys and the
// busy timeout are set in the DSN so every pooled connection gets them.
func Open(path string, l *zap.SugaredLogger) (*sql.DB, error) {
	l = logger.OrNop(l)
	l.Debugw("Opening database", logger.FieldPath, path)

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d", path, SQLiteBusyTimeoutMS)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// sql.Open is lazy; surface a bad path here rather than on first query
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}

	l.Infow("Database opened",
		logger.FieldPath, path,
		"wal_mode", true,
		"foreign_keys", true,
	)

	return db, nil
}

// OpenWithMigrations opens the database and applies pending migrations.
func OpenWithMigrations(path string, l *zap.SugaredLogger) (*sql.DB, error) {
	db, err := Open(path, l)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	if err := Migrate(db, l); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "migrate %s", path)
	}
	return db, nil
}
