package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/logger"
	"github.com/smuchow1962/conversion-table-manager/tablefile"
	"github.com/smuchow1962/conversion-table-manager/tables"
)

// StoredTable is a table document as persisted, with bookkeeping.
type StoredTable struct {
	Name        string              `json:"name"`
	Version     string              `json:"version,omitempty"`
	Description string              `json:"description,omitempty"`
	Revision    string              `json:"revision"`
	Document    *tablefile.Document `json:"document"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TableStore persists unit table documents in the unit_tables table.
type TableStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewTableStore creates a store over a migrated database.
func NewTableStore(db *sql.DB, l *zap.SugaredLogger) *TableStore {
	return &TableStore{db: db, logger: logger.OrNop(l)}
}

// Save stores doc under doc.Name. The document must build into a valid
// table. An existing entry is replaced only when force is set; every
// successful save gets a new revision.
func (s *TableStore) Save(ctx context.Context, doc *tablefile.Document, force bool) (*StoredTable, error) {
	if doc == nil {
		return nil, errors.Wrap(errors.ErrMalformedTable, "no document")
	}
	if _, err := doc.Build(); err != nil {
		return nil, err
	}

	encoded, err := tablefile.Encode(doc, tablefile.FormatTOML)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var createdAt time.Time
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM unit_tables WHERE name = ?`, doc.Name).Scan(&createdAt)
	exists := err == nil
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.Wrapf(err, "failed to look up table %q", doc.Name)
	}
	if exists && !force {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrTableExists, "%q", doc.Name),
			"use --force to replace the stored table",
		)
	}

	now := time.Now().UTC()
	if !exists {
		createdAt = now
	}
	revision := uuid.New().String()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO unit_tables (name, version, description, document, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			description = excluded.description,
			document = excluded.document,
			revision = excluded.revision,
			updated_at = excluded.updated_at
	`, doc.Name, doc.Version, doc.Description, string(encoded), revision, createdAt, now)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save table %q", doc.Name)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrapf(err, "failed to commit table %q", doc.Name)
	}

	s.logger.Infow("Saved unit table",
		logger.FieldTable, doc.Name,
		logger.FieldRevision, revision,
		logger.FieldForce, force,
	)

	return &StoredTable{
		Name:        doc.Name,
		Version:     doc.Version,
		Description: doc.Description,
		Revision:    revision,
		Document:    doc,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}, nil
}

// Get returns the stored table called name.
func (s *TableStore) Get(ctx context.Context, name string) (*StoredTable, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, version, description, document, revision, created_at, updated_at
		FROM unit_tables
		WHERE name = ?
	`, name)

	st, err := scanTable(row)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrTableNotFound, "%q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load table %q", name)
	}
	return st, nil
}

// List returns every stored table ordered by name.
func (s *TableStore) List(ctx context.Context) ([]*StoredTable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, version, description, document, revision, created_at, updated_at
		FROM unit_tables
		ORDER BY name
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	defer rows.Close()

	var out []*StoredTable
	for rows.Next() {
		st, err := scanTable(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan table")
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate tables")
	}
	return out, nil
}

// Delete removes the stored table called name.
func (s *TableStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM unit_tables WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "failed to delete table %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return errors.Wrapf(errors.ErrTableNotFound, "%q", name)
	}

	s.logger.Infow("Deleted unit table", logger.FieldTable, name)
	return nil
}

// RegisterAll hands every stored table to r and returns the names
// registered. A table that fails to register stops the load.
func (s *TableStore) RegisterAll(ctx context.Context, r tables.Registrar, force bool) ([]string, error) {
	stored, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(stored))
	for _, st := range stored {
		if err := st.Document.Register(r, force); err != nil {
			return names, errors.Wrapf(err, "stored table %q", st.Name)
		}
		names = append(names, st.Name)
	}
	return names, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTable(row scanner) (*StoredTable, error) {
	var (
		st       StoredTable
		document string
	)
	if err := row.Scan(&st.Name, &st.Version, &st.Description, &document, &st.Revision, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}

	doc, err := tablefile.Decode([]byte(document), tablefile.FormatTOML)
	if err != nil {
		return nil, errors.Wrapf(err, "stored table %q", st.Name)
	}
	doc.Name = st.Name
	st.Document = doc
	return &st, nil
}
