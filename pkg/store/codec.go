// Package store encodes circuit documents as YAML or JSON.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/logica/pkg/circuit"
)

// Importer reads a circuit document in one format.
type Importer interface {
	Parse(r io.Reader) (circuit.Document, error)
	Format() string
}

// Exporter writes a circuit document in one format.
type Exporter interface {
	Export(doc circuit.Document, w io.Writer) error
	Format() string
}

// Codec is both an Importer and an Exporter.
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name ("yaml", "yml" or "json").
func ForFormat(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format %q (want yaml or json)", name)
}

// ForPath picks a codec from a file extension.
func ForPath(path string) (Codec, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("cannot infer format of %s: no extension", path)
	}
	return ForFormat(ext)
}

// Encode writes the circuit's document in the named format.
func Encode(c *circuit.Circuit, format string, w io.Writer) error {
	codec, err := ForFormat(format)
	if err != nil {
		return err
	}
	return codec.Export(c.Snapshot(), w)
}

// Decode reads a document in the named format and restores it on reg.
func Decode(r io.Reader, format string, reg *circuit.Registry) (*circuit.Circuit, error) {
	codec, err := ForFormat(format)
	if err != nil {
		return nil, err
	}
	doc, err := codec.Parse(r)
	if err != nil {
		return nil, err
	}
	return circuit.Restore(reg, doc)
}

// SaveFile writes the circuit to path, choosing the format by extension.
func SaveFile(path string, c *circuit.Circuit) error {
	codec, err := ForPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := codec.Export(c.Snapshot(), f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a circuit from path, choosing the format by extension.
func LoadFile(path string, reg *circuit.Registry) (*circuit.Circuit, error) {
	codec, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := codec.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c, err := circuit.Restore(reg, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
