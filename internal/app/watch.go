package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// FileWatcher polls a file's modification time and fires a callback when it
// changes. It backs both drawing auto-reload and the development binary
// watcher. The callback runs on a background goroutine.
type FileWatcher struct {
	path     string
	baseline time.Time
	interval time.Duration
	once     bool
	stopCh   chan struct{}
	onChange func()
}

// NewFileWatcher creates a watcher for the given path. Returns nil when the
// file cannot be stat'ed.
func NewFileWatcher(path string, interval time.Duration, onChange func()) *FileWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &FileWatcher{
		path:     path,
		baseline: info.ModTime(),
		interval: interval,
		onChange: onChange,
	}
}

// Start begins polling in a background goroutine.
func (w *FileWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.loop()
}

// Stop ends the polling goroutine.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if mod := info.ModTime(); mod.After(w.baseline) {
				w.baseline = mod
				if w.onChange != nil {
					w.onChange()
				}
				if w.once {
					return
				}
			}
		}
	}
}

// WatchDrawing watches the loaded drawing file and reloads it when the file
// changes on disk. Reloading rebuilds the snap index and clears in-progress
// sessions. Returns nil when no drawing is loaded.
func (s *State) WatchDrawing(interval time.Duration) *FileWatcher {
	path := s.DrawingPath()
	if path == "" {
		return nil
	}
	return NewFileWatcher(path, interval, func() {
		slog.Info("drawing changed on disk, reloading", "path", path)
		if err := s.LoadDrawing(path); err != nil {
			slog.Error("auto-reload failed", "err", err)
		}
	})
}

// NewBinaryWatcher watches the running executable for recompilation. The
// callback fires once, after which the watcher stops itself.
func NewBinaryWatcher(interval time.Duration, onNewBinary func()) *FileWatcher {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	if real, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = real
	}

	w := NewFileWatcher(execPath, interval, onNewBinary)
	if w != nil {
		w.once = true
	}
	return w
}

// RestartProcess replaces the current process with a new instance of the
// running executable, preserving arguments and environment. Does not return
// on success.
func RestartProcess() error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	return syscall.Exec(execPath, os.Args, os.Environ())
}
