package tablefile

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/smuchow1962/conversion-table-manager/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatTOML, FormatYAML, FormatJSON}

// ErrUnsupportedFormat is returned for unknown extensions and format names.
var ErrUnsupportedFormat = errors.New("unsupported table file format")

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "%q", name)
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.Wrapf(ErrUnsupportedFormat, "%s has no extension", path)
	}
	return ParseFormat(ext)
}

// IsTableFile reports whether path has a supported extension.
func IsTableFile(path string) bool {
	_, err := FormatForPath(path)
	return err == nil
}

// Decode parses data as a document. Unknown keys are rejected in every
// format.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode TOML table")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, errors.Wrapf(errors.ErrMalformedTable, "unknown keys: %s", strings.Join(keys, ", "))
		}

	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "failed to decode YAML table")
		}

	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode JSON table")
		}

	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}

	return &doc, nil
}

// Encode serializes doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatTOML:
		data, err = gotoml.Marshal(doc)
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode table %q as %s", doc.Name, format)
	}
	return data, nil
}
