package drawing

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"planview/pkg/geometry"
)

// ErrUnknownEntity marks an entity whose kind is not recognized. Unknown
// entities are skipped during flattening, never fatal.
var ErrUnknownEntity = errors.New("unknown entity kind")

// Entity kinds accepted in a drawing document.
const (
	EntityLine     = "line"
	EntityPolyline = "polyline"
	EntityArc      = "arc"
	EntityCircle   = "circle"
	EntityInsert   = "insert"
	EntityMesh     = "mesh"
)

// Entity is one node of the converter output tree. Which fields are
// meaningful depends on Kind; Flatten validates per kind.
type Entity struct {
	Kind string `json:"kind"`
	ID   string `json:"id,omitempty"`

	// line
	Start *geometry.Point2D `json:"start,omitempty"`
	End   *geometry.Point2D `json:"end,omitempty"`

	// polyline, mesh
	Points []geometry.Point2D `json:"points,omitempty"`
	Closed bool               `json:"closed,omitempty"`

	// arc, circle
	Center     *geometry.Point2D `json:"center,omitempty"`
	Radius     float64           `json:"radius,omitempty"`
	StartAngle float64           `json:"start_angle,omitempty"` // degrees
	EndAngle   float64           `json:"end_angle,omitempty"`   // degrees

	// insert
	Block    string            `json:"block,omitempty"`
	At       *geometry.Point2D `json:"at,omitempty"`
	Rotation float64           `json:"rotation,omitempty"` // degrees
	ScaleX   float64           `json:"scale_x,omitempty"`  // 0 means 1
	ScaleY   float64           `json:"scale_y,omitempty"`  // 0 means 1
}

// Document is the normalized drawing produced by an external converter
// (DXF tokenizer, DWG/IFC converter, PDF vector extractor). Coordinates are
// drawing units; block definitions are instantiated via insert entities.
type Document struct {
	Name     string              `json:"name,omitempty"`
	Units    string              `json:"units,omitempty"`
	Blocks   map[string][]Entity `json:"blocks,omitempty"`
	Entities []Entity            `json:"entities"`
}

// LoadDocument reads a drawing document from a JSON file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(data)
}

// DecodeDocument parses a drawing document from JSON bytes.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode drawing: %w", err)
	}
	return &doc, nil
}
