package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chazu/logica/pkg/circuit"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a circuit document from JSON
func (c *JSONCodec) Parse(r io.Reader) (circuit.Document, error) {
	var doc circuit.Document
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return circuit.Document{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return doc, nil
}

// Export exports a circuit document to JSON
func (c *JSONCodec) Export(doc circuit.Document, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
