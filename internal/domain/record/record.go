package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotAnObject = errors.New("value is not a JSON object")
)

// Record is one row of a table, represented as an ordered column-to-value
// mapping. Values are the JSON scalar kinds (string, float64, bool, nil);
// nested objects and arrays are carried opaquely so callers can skip them
// without losing data on a round-trip.
type Record struct {
	keys   []string
	values map[string]any
}

// New creates an empty Record.
func New() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores a value under key, preserving first-insertion order.
// POST: Get(key) returns value; Keys() includes key exactly once
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = normalize(value)
}

// Get returns the value stored under key.
// INVARIANT: Record is not mutated
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the column names in insertion order.
// INVARIANT: callers must not mutate the returned slice
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of columns.
func (r *Record) Len() int {
	return len(r.keys)
}

// ID returns the record's id column as a string, or "" if absent.
func (r *Record) ID() string {
	v, ok := r.values["id"]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// MarshalJSON encodes the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshal column %q: %w", key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the record, preserving the
// order in which keys appear in the source document. Numbers decode as
// float64; nested objects and arrays are kept as decoded any values.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotAnObject
	}

	r.keys = nil
	r.values = make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode column %q: %w", key, err)
		}
		r.Set(key, value)
	}
	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// normalize widens integer kinds to float64 so callers see one numeric
// type regardless of whether the value came from JSON or a SQL scan.
func normalize(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}
