package scrape

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one extracted value. A nil Value marks a selector that matched
// nothing (or an attribute that was not present).
type Field struct {
	Name  string
	Value *string
}

// Record is one extracted item. Fields keep the order of the SelectorMap
// that produced them and encode as a JSON object in that order, with
// absent values as null.
type Record []Field

// Get returns the value stored under name and whether the key exists.
func (r Record) Get(name string) (value *string, ok bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns field names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Name
	}
	return keys
}

// Compact returns a copy of r without absent values.
func (r Record) Compact() Record {
	out := make(Record, 0, len(r))
	for _, f := range r {
		if f.Value != nil {
			out = append(out, f)
		}
	}
	return out
}

// MarshalJSON encodes the record as an object preserving field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(f.Name); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if f.Value == nil {
			buf.WriteString("null")
			continue
		}
		if err := enc.Encode(*f.Value); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of string or null values, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	out := Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record: expected key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		switch v := valTok.(type) {
		case nil:
			out = append(out, Field{Name: key})
		case string:
			out = append(out, Field{Name: key, Value: &v})
		default:
			return fmt.Errorf("record: field %q must be a string or null", key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = out
	return nil
}

func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}

// String returns a pointer to s, for building Records by hand.
func String(s string) *string {
	return &s
}
