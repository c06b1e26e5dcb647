// Package diagram ties tables and links together: it loads and saves diagram
// documents, computes link anchor points and routes every link.
package diagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"erd/link"
	"erd/shape"
)

// ErrEmptyDiagram is returned when a document has no tables.
var ErrEmptyDiagram = errors.New("diagram has no tables")

// Document is the serialized form of a diagram.
type Document struct {
	Name   string       `json:"name,omitempty"`
	Tables []shape.Spec `json:"tables"`
	Links  []link.Link  `json:"links,omitempty"`
}

// Parse decodes a JSON document and builds the diagram.
func Parse(data []byte) (*Diagram, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if len(doc.Tables) == 0 {
		return nil, ErrEmptyDiagram
	}
	return New(doc)
}

// Load reads a diagram from a JSON file.
func Load(filename string) (*Diagram, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Parse(data)
}

// Save writes the diagram to a JSON file.
func (d *Diagram) Save(filename string) error {
	data, err := json.MarshalIndent(d.Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding diagram: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
