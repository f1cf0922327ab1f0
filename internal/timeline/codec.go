package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument is returned when persisted input fails structural
// validation. Callers fall back to a blank document; a malformed
// document is never partially applied.
var ErrInvalidDocument = errors.New("invalid document")

// Encode serializes the document as JSON.
func Encode(d *Document) ([]byte, error) {
	return json.Marshal(d)
}

// Decode parses and validates a persisted document. The shape checks
// run against the raw JSON before the typed unmarshal so a document
// with, say, a string fps is rejected outright instead of half-loaded.
func Decode(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if err := expectArray(raw, "tracks"); err != nil {
		return nil, err
	}
	if err := expectObject(raw, "items"); err != nil {
		return nil, err
	}
	if err := expectObject(raw, "assets"); err != nil {
		return nil, err
	}
	for _, key := range []string{"fps", "compositionWidth", "compositionHeight"} {
		if err := expectNumber(raw, key); err != nil {
			return nil, err
		}
	}

	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d.FPS <= 0 {
		return nil, fmt.Errorf("%w: fps must be positive", ErrInvalidDocument)
	}
	if d.Items == nil {
		d.Items = map[string]*Item{}
	}
	if d.Assets == nil {
		d.Assets = map[string]*Asset{}
	}
	return &d, nil
}

func expectArray(raw map[string]json.RawMessage, key string) error {
	v, ok := raw[key]
	if !ok || len(v) == 0 || v[0] != '[' {
		return fmt.Errorf("%w: %q must be a list", ErrInvalidDocument, key)
	}
	return nil
}

func expectObject(raw map[string]json.RawMessage, key string) error {
	v, ok := raw[key]
	if !ok || len(v) == 0 || v[0] != '{' {
		return fmt.Errorf("%w: %q must be a map", ErrInvalidDocument, key)
	}
	return nil
}

func expectNumber(raw map[string]json.RawMessage, key string) error {
	v, ok := raw[key]
	if !ok {
		return fmt.Errorf("%w: %q is required", ErrInvalidDocument, key)
	}
	var n float64
	if err := json.Unmarshal(v, &n); err != nil {
		return fmt.Errorf("%w: %q must be a number", ErrInvalidDocument, key)
	}
	return nil
}
