// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"planview/internal/measure"
	"planview/internal/snap"
)

// File represents a plan viewer project file (.planproj). Annotations and the
// calibration scale are stored inline; the drawing and underlay are referenced
// by path, relative to the project file where possible.
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Referenced files (relative to project file)
	DrawingPath  string `json:"drawing,omitempty"`
	UnderlayPath string `json:"underlay,omitempty"`

	UnderlayOpacity float64 `json:"underlay_opacity,omitempty"`

	// Calibration scale, nil when the project is uncalibrated.
	Calibration *measure.Scale `json:"calibration,omitempty"`

	// Persisted annotations
	Dimensions []measure.Dimension `json:"dimensions,omitempty"`
	Areas      []measure.Area      `json:"areas,omitempty"`

	// User settings
	Settings Settings `json:"settings,omitempty"`
}

// Settings holds user preferences for the project.
type Settings struct {
	Snap snap.Settings `json:"snap"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:         1,
		Name:            name,
		Created:         now,
		Modified:        now,
		UnderlayOpacity: 1,
		Settings: Settings{
			Snap: snap.DefaultSettings(),
		},
	}
}

// Load loads a project from a .planproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetDrawing sets the drawing path (relative to project).
func (p *File) SetDrawing(projectPath, drawingPath string) {
	p.DrawingPath = relativize(projectPath, drawingPath)
	p.Modified = time.Now()
}

// SetUnderlay sets the underlay image path (relative to project).
func (p *File) SetUnderlay(projectPath, imagePath string) {
	p.UnderlayPath = relativize(projectPath, imagePath)
	p.Modified = time.Now()
}

// GetDrawingPath returns the absolute path to the drawing file.
func (p *File) GetDrawingPath(projectPath string) string {
	return absolutize(projectPath, p.DrawingPath)
}

// GetUnderlayPath returns the absolute path to the underlay image.
func (p *File) GetUnderlayPath(projectPath string) string {
	return absolutize(projectPath, p.UnderlayPath)
}

func relativize(projectPath, target string) string {
	rel, err := filepath.Rel(filepath.Dir(projectPath), target)
	if err != nil {
		return target
	}
	return rel
}

func absolutize(projectPath, stored string) string {
	if stored == "" {
		return ""
	}
	if filepath.IsAbs(stored) {
		return stored
	}
	return filepath.Join(filepath.Dir(projectPath), stored)
}
