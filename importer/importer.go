// Package importer reads entity schemas written in other diagram languages
// and turns them into diagram documents with laid out tables and links.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"erd/diagram"
)

// Import errors.
var (
	ErrUnknownFormat = errors.New("unknown import format")
	ErrNoTables      = errors.New("no tables found")
	ErrSyntax        = errors.New("syntax error")
)

// Importer converts schema text into a diagram document.
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content string) bool

	// Import parses the content and places its tables
	Import(content string) (diagram.Document, error)

	// GetFormatName returns the human-readable name of the format
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format
	GetFileExtensions() []string
}

// ImporterRegistry manages available importers
type ImporterRegistry struct {
	importers []Importer
}

// NewImporterRegistry creates a registry holding the Mermaid and D2 importers.
func NewImporterRegistry() *ImporterRegistry {
	return &ImporterRegistry{
		importers: []Importer{
			NewMermaidImporter(),
			NewD2Importer(),
		},
	}
}

// DetectFormat returns the first importer that accepts the content.
func (r *ImporterRegistry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("%w: unable to detect format", ErrUnknownFormat)
}

// ForFile returns the importer registered for the file's extension.
func (r *ImporterRegistry) ForFile(filename string) (Importer, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil, false
	}
	for _, imp := range r.importers {
		for _, e := range imp.GetFileExtensions() {
			if e == ext {
				return imp, true
			}
		}
	}
	return nil, false
}

// Import imports content using auto-detection
func (r *ImporterRegistry) Import(content string) (diagram.Document, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return diagram.Document{}, err
	}
	return importer.Import(content)
}

// ImportWithFormat imports content using a specific format
func (r *ImporterRegistry) ImportWithFormat(content, format string) (diagram.Document, error) {
	for _, imp := range r.importers {
		if strings.EqualFold(imp.GetFormatName(), format) {
			return imp.Import(content)
		}
	}
	return diagram.Document{}, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// GetAvailableFormats returns a list of available import formats
func (r *ImporterRegistry) GetAvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}
