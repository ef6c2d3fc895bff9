package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
)

// LoadDir reads every <name>.json file in dir. Arrays of objects become record
// collections, arrays of strings become point lists and a single object
// becomes a one-record collection. Files of any other shape are logged and
// left out, so the store reports them as absent.
func LoadDir(fsys fs.FS, dir string, logger *slog.Logger) (*Static, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read record dir %q: %w", dir, err)
	}

	colls := make(map[string]Collection, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read collection %q: %w", name, err)
		}
		c, err := Decode(b)
		if err != nil {
			logger.Warn("skipping malformed collection", "collection", name, "err", err)
			continue
		}
		colls[name] = c
	}
	logger.Debug("records loaded", "dir", dir, "collections", len(colls))
	return NewStatic(colls), nil
}

// Decode parses one collection document.
func Decode(b []byte) (Collection, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return Collection{}, fmt.Errorf("empty document")
	}

	switch b[0] {
	case '{':
		rec, err := decodeRecord(b)
		if err != nil {
			return Collection{}, err
		}
		return Collection{Records: []Record{rec}}, nil
	case '[':
	default:
		return Collection{}, fmt.Errorf("unsupported top-level JSON value")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return Collection{}, fmt.Errorf("parse array: %w", err)
	}
	if len(items) == 0 {
		return Collection{}, nil
	}

	var out Collection
	first := bytes.TrimSpace(items[0])
	for i, it := range items {
		it = bytes.TrimSpace(it)
		if len(it) == 0 || it[0] != first[0] {
			return Collection{}, fmt.Errorf("item %d: mixed item types", i)
		}
		switch it[0] {
		case '"':
			var s string
			if err := json.Unmarshal(it, &s); err != nil {
				return Collection{}, fmt.Errorf("item %d: %w", i, err)
			}
			out.Points = append(out.Points, s)
		case '{':
			rec, err := decodeRecord(it)
			if err != nil {
				return Collection{}, fmt.Errorf("item %d: %w", i, err)
			}
			out.Records = append(out.Records, rec)
		default:
			return Collection{}, fmt.Errorf("item %d: want string or object", i)
		}
	}
	return out, nil
}

// scalar values are stringified, nested values are rejected
func decodeRecord(b []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse object: %w", err)
	}
	rec := make(Record, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			rec[k] = t
		case json.Number:
			rec[k] = t.String()
		case bool:
			rec[k] = fmt.Sprint(t)
		case nil:
		default:
			return nil, fmt.Errorf("field %q: nested values are not supported", k)
		}
	}
	return rec, nil
}
