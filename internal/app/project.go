package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"planview/internal/measure"
	"planview/internal/project"
)

// LoadProject opens a .planproj file, loads its referenced drawing and
// underlay, and restores the calibration scale and saved annotations.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	if dp := proj.GetDrawingPath(path); dp != "" {
		if err := s.LoadDrawing(dp); err != nil {
			return err
		}
	}

	if up := proj.GetUnderlayPath(path); up != "" {
		if err := s.LoadUnderlay(up); err != nil {
			// The project stays usable without its underlay.
			slog.Warn("underlay unavailable", "path", up, "err", err)
		} else if proj.UnderlayOpacity > 0 {
			s.SetUnderlayOpacity(proj.UnderlayOpacity)
		}
	}

	if proj.Calibration != nil {
		if _, err := s.calibration.Set(proj.Calibration.WorldDistance, proj.Calibration.RealValue); err != nil {
			slog.Warn("stored calibration rejected", "err", err)
		}
	} else {
		s.calibration.Clear()
	}
	s.annotations.Restore(proj.Dimensions, proj.Areas)
	s.SetSnapSettings(proj.Settings.Snap)

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventCalibrationChanged, nil)
	s.Emit(EventAnnotationsChanged, nil)
	s.Emit(EventProjectLoaded, path)
	return nil
}

// SaveProject writes the project to the given path. The drawing and
// underlay are stored as paths relative to the project file; calibration
// and annotations are stored inline.
func (s *State) SaveProject(path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	proj := project.New(name)

	s.mu.RLock()
	if s.drawingPath != "" {
		proj.SetDrawing(path, s.drawingPath)
	}
	if s.underlay != nil {
		proj.SetUnderlay(path, s.underlay.Path)
		proj.UnderlayOpacity = s.underlay.Opacity
	}
	proj.Settings.Snap = s.snapSettings
	s.mu.RUnlock()

	if scale, ok := s.calibration.Active(); ok {
		proj.Calibration = &measure.Scale{
			WorldDistance: scale.WorldDistance,
			RealValue:     scale.RealValue,
			Unit:          scale.Unit,
		}
	}
	proj.Dimensions = s.annotations.Dimensions()
	proj.Areas = s.annotations.Areas()

	if err := proj.Save(path); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventModified, false)
	s.Emit(EventProjectSaved, path)
	return nil
}
