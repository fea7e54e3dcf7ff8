package store

import (
	"fmt"
	"io"

	"github.com/chazu/logica/pkg/circuit"
	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a circuit document from YAML
func (c *YAMLCodec) Parse(r io.Reader) (circuit.Document, error) {
	var doc circuit.Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return circuit.Document{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return doc, nil
}

// Export exports a circuit document to YAML
func (c *YAMLCodec) Export(doc circuit.Document, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
