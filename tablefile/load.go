package tablefile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/smuchow1962/conversion-table-manager/errors"
)

// LoadFile reads and validates a document. A missing name defaults to the
// file name without its extension.
func LoadFile(path string) (*Document, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read table file %s", path)
	}

	doc, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	doc.Path = path
	if doc.Name == "" {
		doc.Name = NameForPath(path)
	}
	if err := doc.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return doc, nil
}

// NameForPath returns the default table name for a file.
func NameForPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadDir loads every supported file directly inside dir, in name order.
// Subdirectories are not descended.
func LoadDir(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read table directory %s", dir)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() || !IsTableFile(entry.Name()) {
			continue
		}
		doc, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadPaths loads each path as a file or a directory.
func LoadPaths(paths []string) ([]*Document, error) {
	var docs []*Document
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "table path %s", path)
		}
		if info.IsDir() {
			found, err := LoadDir(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, found...)
			continue
		}
		doc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
