package export

import (
	"encoding/json"
	"fmt"
	"io"

	"erd/diagram"
	"erd/geometry"
)

// routeDump is the document written by the JSON exporter.
type routeDump struct {
	Links []linkDump `json:"links"`
}

type linkDump struct {
	ID     string           `json:"id"`
	Status string           `json:"status"`
	Points []geometry.Point `json:"points"`
}

// JSONExporter exports the computed routes to JSON format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export writes every link with its status and route points. Links that were
// not routed get an empty point list.
func (e *JSONExporter) Export(w io.Writer, d *diagram.Diagram, routed []diagram.RoutedLink) error {
	dump := routeDump{Links: make([]linkDump, 0, len(routed))}
	for _, rl := range routed {
		points := append([]geometry.Point{}, rl.Route.Points...)
		dump.Links = append(dump.Links, linkDump{
			ID:     rl.Link.ID,
			Status: rl.Status.String(),
			Points: points,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("encoding routes: %w", err)
	}
	return nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
