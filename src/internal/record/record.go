// Package record parses a single CSL-JSON bibliographic record. The
// record is opaque to the renderer except for its id, which is the only
// field ever inspected.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Record is one decoded CSL-JSON object. Fields holds the object exactly
// as decoded (numbers as json.Number) so it round-trips to the processor
// unmodified; ID is the extracted "id" value.
type Record struct {
	ID     string
	Fields map[string]any
}

// Parse decodes data as a single JSON object and extracts its id. The id
// may be a JSON string or number; a number keeps its literal text (no
// float formatting). Anything else is an error.
func Parse(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	raw, ok := fields["id"]
	if !ok {
		return nil, errors.New("record has no id field")
	}
	id, err := idString(raw)
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, Fields: fields}, nil
}

func idString(v any) (string, error) {
	switch id := v.(type) {
	case string:
		if strings.TrimSpace(id) == "" {
			return "", errors.New("record id is empty")
		}
		return id, nil
	case json.Number:
		return id.String(), nil
	default:
		return "", fmt.Errorf("record id must be a string or number, got %T", v)
	}
}
