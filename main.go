// Package main provides the entry point for the Plan View application.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"planview/internal/app"
	"planview/internal/version"
	"planview/ui/mainwindow"
	"planview/ui/prefs"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	slog.Info("starting plan view", "version", version.String())

	fyneApp := fyneapp.NewWithID("io.planview.app")
	state := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, state, appPrefs)

	if len(os.Args) > 1 {
		openArgument(state, os.Args[1])
	}

	if w := state.WatchDrawing(2 * time.Second); w != nil {
		w.Start()
		defer w.Stop()
	}
	setupBinaryWatch(win)

	win.ShowAndRun()
}

// openArgument loads a project or drawing given on the command line.
func openArgument(state *app.State, path string) {
	var err error
	if filepath.Ext(path) == ".planproj" {
		err = state.LoadProject(path)
	} else {
		err = state.LoadDrawing(path)
	}
	if err != nil {
		slog.Error("open failed", "path", path, "err", err)
	}
}

// setupBinaryWatch offers a restart when the binary is recompiled during
// development.
func setupBinaryWatch(win *mainwindow.MainWindow) {
	w := app.NewBinaryWatcher(2*time.Second, func() {
		slog.Info("newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					return
				}
				if err := app.RestartProcess(); err != nil {
					slog.Error("restart failed", "err", err)
				}
			}, win)
	})
	if w == nil {
		slog.Warn("binary watch unavailable")
		return
	}
	w.Start()
}
