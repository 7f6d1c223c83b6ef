// Package registry keeps named unit tables and answers parse, convert and
// find requests against them by name.
//
// A Registry is an ordinary value: construct as many as needed and pass
// them to whoever needs one. Tables are built completely before they are
// installed, so readers see either the old table or the new one.
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/smuchow1962/conversion-table-manager/convert"
	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/logger"
	"github.com/smuchow1962/conversion-table-manager/parser"
	"github.com/smuchow1962/conversion-table-manager/result"
	"github.com/smuchow1962/conversion-table-manager/table"
)

// Registry manages named unit tables
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
	logger *zap.SugaredLogger
}

// New creates an empty registry. A nil logger discards output.
func New(l *zap.SugaredLogger) *Registry {
	return &Registry{
		tables: make(map[string]*table.Table),
		logger: logger.OrNop(l),
	}
}

// Register builds raw and installs it under name. An existing table is
// only replaced when force is set. On any error the registry is unchanged.
func (r *Registry) Register(name string, raw table.RawTable, force bool) error {
	if name == "" {
		return errors.Wrap(errors.ErrMalformedTable, "table name cannot be empty")
	}

	// Build outside the lock; normalization never touches shared state
	t, err := table.Build(raw, name)
	if err != nil {
		r.logger.Warnw("Rejected unit table", logger.FieldTable, name, logger.FieldError, err)
		return err
	}

	return r.install(t, force)
}

// RegisterTable installs an already built table under its own name.
func (r *Registry) RegisterTable(t *table.Table, force bool) error {
	if t == nil || t.Name() == "" {
		return errors.Wrap(errors.ErrMalformedTable, "table must be built with a name")
	}
	if t.Pattern() == "" {
		return errors.Wrapf(errors.ErrMalformedTable, "table %q was not built", t.Name())
	}
	return r.install(t, force)
}

func (r *Registry) install(t *table.Table, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[t.Name()]; exists && !force {
		return errors.WithHint(
			errors.Wrapf(errors.ErrTableExists, "%q", t.Name()),
			"register with force to replace it",
		)
	}

	r.tables[t.Name()] = t
	r.logger.Infow("Registered unit table",
		logger.FieldTable, t.Name(),
		logger.FieldBase, t.Base(),
		logger.FieldPrecision, t.Precision(),
		logger.FieldCount, t.Len(),
		logger.FieldForce, force,
	)
	return nil
}

// Unregister removes the table stored under name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[name]; !exists {
		return errors.Wrapf(errors.ErrTableNotFound, "%q", name)
	}
	delete(r.tables, name)
	r.logger.Infow("Unregistered unit table", logger.FieldTable, name)
	return nil
}

// Get retrieves a table by name
func (r *Registry) Get(name string) (*table.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrTableNotFound, "%q", name)
	}
	return t, nil
}

// Has reports whether a table is registered under name
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tables[name]
	return ok
}

// List returns all registered table names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse parses input against the named table
func (r *Registry) Parse(name, input string) (*parser.Result, error) {
	t, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return parser.Parse(input, t)
}

// Convert converts input to unit using the named table
func (r *Registry) Convert(name, input, unit string) (convert.Conversion, error) {
	t, err := r.Get(name)
	if err != nil {
		return convert.Conversion{}, err
	}
	return convert.Convert(input, unit, t)
}

// Find looks up a unit in the named table
func (r *Registry) Find(name, unit string) (table.Unit, error) {
	t, err := r.Get(name)
	if err != nil {
		return table.Unit{}, err
	}
	return t.Find(unit)
}

// ConvertBatch converts every input to unit against one snapshot of the
// named table. Each input gets its own result; a missing table fails the
// whole batch.
func (r *Registry) ConvertBatch(name, unit string, inputs []string) ([]result.Result[convert.Conversion], error) {
	t, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	out := make([]result.Result[convert.Conversion], len(inputs))
	for i, input := range inputs {
		c, err := convert.Convert(input, unit, t)
		out[i] = result.Of(c, err)
	}
	return out, nil
}
