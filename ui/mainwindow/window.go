// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image/color"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"planview/internal/app"
	"planview/internal/snap"
	"planview/internal/underlay"
	"planview/internal/version"
	"planview/pkg/geometry"
	"planview/ui/canvas"
	"planview/ui/dialogs"
	"planview/ui/panels"
	"planview/ui/prefs"
)

var (
	annotationColor = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	sessionColor    = color.RGBA{R: 30, G: 100, B: 200, A: 255}
	snapColor       = color.RGBA{R: 20, G: 150, B: 60, A: 255}
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.PlanCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	toolButtons map[app.Tool]*widget.Button
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Plan View")

	mw := &MainWindow{
		Window:      win,
		app:         fyneApp,
		state:       state,
		prefs:       p,
		toolButtons: make(map[app.Tool]*widget.Button),
	}

	state.SetSnapSettings(p.SnapSettings())

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.setupKeys()
	mw.updateStatus()

	win.Resize(fyne.NewSize(1200, 800))
	win.SetCloseIntercept(func() {
		p.SetSnapSettings(state.SnapSettings())
		if u := state.Underlay(); u != nil {
			p.SetFloat(prefs.KeyUnderlayOpacity, u.Opacity)
		}
		_ = p.Save()
		fyneApp.Quit()
	})

	return mw
}

// setupUI creates the main layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPlanCanvas()
	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.statusBar = widget.NewLabel("Ready")

	mw.canvas.OnTap(mw.onCanvasTap)
	mw.canvas.OnDoubleTap(mw.state.DoubleClick)
	mw.canvas.OnHover(mw.onCanvasHover)
	mw.canvas.OnHoverEnd(mw.onCanvasHoverEnd)
	mw.canvas.OnZoomChange(func(float64) { mw.updateStatus() })

	canvasArea := container.NewBorder(
		mw.createToolbar(),
		nil, nil, nil,
		mw.canvas,
	)

	split := container.NewHSplit(mw.sidePanel.Container(), canvasArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)
	mw.SetContent(content)
}

// createToolbar creates the tool and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	tools := []app.Tool{app.ToolHand, app.ToolMeasure, app.ToolCalibrate, app.ToolDimension, app.ToolArea}

	box := container.NewHBox()
	for _, tool := range tools {
		t := tool
		btn := widget.NewButton(t.String(), func() {
			mw.state.SetTool(t)
		})
		mw.toolButtons[t] = btn
		box.Add(btn)
	}
	mw.highlightTool(mw.state.Tool())

	box.Add(widget.NewSeparator())
	box.Add(widget.NewButton("-", mw.canvas.ZoomOut))
	box.Add(widget.NewButton("+", mw.canvas.ZoomIn))
	box.Add(widget.NewButton("Fit", func() {
		mw.canvas.FitToBounds(mw.state.Bounds())
	}))

	return box
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Drawing...", mw.onOpenDrawing),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Underlay...", mw.onImportUnderlay),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit Drawing", func() {
			mw.canvas.FitToBounds(mw.state.Bounds())
		}),
	)

	toolMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Hand", func() { mw.state.SetTool(app.ToolHand) }),
		fyne.NewMenuItem("Measure", func() { mw.state.SetTool(app.ToolMeasure) }),
		fyne.NewMenuItem("Calibrate", func() { mw.state.SetTool(app.ToolCalibrate) }),
		fyne.NewMenuItem("Dimension", func() { mw.state.SetTool(app.ToolDimension) }),
		fyne.NewMenuItem("Area", func() { mw.state.SetTool(app.ToolArea) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Dimensions", mw.state.ClearDimensions),
		fyne.NewMenuItem("Clear Areas", mw.state.ClearAreas),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, toolMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDrawingLoaded, func(data interface{}) {
		mw.canvas.SetPrimitives(mw.state.Primitives())
		mw.canvas.FitToBounds(mw.state.Bounds())
		mw.rebuildAnnotationOverlay()
		mw.rebuildSessionOverlay()
		if path, ok := data.(string); ok {
			mw.SetTitle("Plan View - " + filepath.Base(path))
		}
		mw.updateStatus()
	})

	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Plan View - " + filepath.Base(path))
			mw.prefs.SetString(prefs.KeyLastProject, path)
		}
	})

	mw.state.On(app.EventUnderlayChanged, func(interface{}) {
		mw.canvas.SetUnderlay(mw.state.Underlay())
	})

	mw.state.On(app.EventToolChanged, func(data interface{}) {
		if tool, ok := data.(app.Tool); ok {
			mw.highlightTool(tool)
		}
		mw.rebuildSessionOverlay()
		mw.updateStatus()
	})

	mw.state.On(app.EventAnnotationsChanged, func(interface{}) {
		mw.rebuildAnnotationOverlay()
	})

	mw.state.On(app.EventSessionChanged, func(interface{}) {
		mw.rebuildSessionOverlay()
	})

	mw.state.On(app.EventCalibrationChanged, func(interface{}) {
		mw.updateStatus()
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// setupKeys wires the escape key to session cancellation.
func (mw *MainWindow) setupKeys() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			mw.state.Escape()
		}
	})
}

// onCanvasTap resolves snapping and feeds the effective point to the active
// tool's session.
func (mw *MainWindow) onCanvasTap(world geometry.Point2D) {
	if mw.state.Tool() == app.ToolHand {
		return
	}

	effective := world
	if result, ok := snap.Resolve(world, mw.state.SnapIndex(), mw.canvas.Viewport(), mw.state.SnapSettings()); ok {
		effective = result.Position
	}
	mw.state.PointerDown(effective)

	if mw.state.HasPendingCalibration() {
		mw.promptCalibration()
	}
}

// onCanvasHover tracks the cursor for previews and the snap indicator.
func (mw *MainWindow) onCanvasHover(world geometry.Point2D) {
	mw.rebuildHoverOverlay(world)
	mw.rebuildSessionPreview(world)
}

func (mw *MainWindow) onCanvasHoverEnd() {
	mw.canvas.ClearOverlay("snap")
	mw.rebuildSessionOverlay()
}

// rebuildHoverOverlay shows the snap indicator under the cursor.
func (mw *MainWindow) rebuildHoverOverlay(world geometry.Point2D) {
	if mw.state.Tool() == app.ToolHand {
		mw.canvas.ClearOverlay("snap")
		return
	}

	result, ok := snap.Resolve(world, mw.state.SnapIndex(), mw.canvas.Viewport(), mw.state.SnapSettings())
	if !ok {
		mw.canvas.ClearOverlay("snap")
		return
	}

	shape := canvas.MarkerSquare
	if result.Kind == snap.KindMidpoint {
		shape = canvas.MarkerDiamond
	}
	mw.canvas.SetOverlay("snap", &canvas.Overlay{
		Markers: []canvas.OverlayMarker{{At: result.Position, Shape: shape}},
		Color:   snapColor,
	})
}

// rebuildSessionOverlay renders committed session points without a cursor
// preview.
func (mw *MainWindow) rebuildSessionOverlay() {
	pts := mw.state.SessionPoints()
	if len(pts) == 0 {
		mw.canvas.ClearOverlay("session")
		return
	}

	overlay := &canvas.Overlay{Color: sessionColor}
	for _, p := range pts {
		overlay.Markers = append(overlay.Markers, canvas.OverlayMarker{At: p, Shape: canvas.MarkerCross})
	}
	for i := 0; i+1 < len(pts); i++ {
		overlay.Lines = append(overlay.Lines, canvas.OverlayLine{A: pts[i], B: pts[i+1]})
	}

	// A completed measure pair shows its result until the next click.
	if mw.state.Tool() == app.ToolMeasure && len(pts) == 2 {
		overlay.Labels = append(overlay.Labels, canvas.OverlayLabel{
			At:   geometry.Midpoint(pts[0], pts[1]),
			Text: mw.state.Calibration().DistanceLabel(pts[0].Distance(pts[1])),
		})
	}

	mw.canvas.SetOverlay("session", overlay)
}

// rebuildSessionPreview extends the session overlay with a dashed rubber
// line and live readout to the cursor. A held measure pair is complete and
// gets no rubber line; it stays put until the next click.
func (mw *MainWindow) rebuildSessionPreview(world geometry.Point2D) {
	mw.rebuildSessionOverlay()

	pts := mw.state.SessionPoints()
	isArea := mw.state.Tool() == app.ToolArea
	if len(pts) == 0 || (len(pts) > 1 && !isArea) {
		return
	}

	overlay := &canvas.Overlay{Color: sessionColor}
	for _, p := range pts {
		overlay.Markers = append(overlay.Markers, canvas.OverlayMarker{At: p, Shape: canvas.MarkerCross})
	}
	for i := 0; i+1 < len(pts); i++ {
		overlay.Lines = append(overlay.Lines, canvas.OverlayLine{A: pts[i], B: pts[i+1]})
	}
	overlay.Lines = append(overlay.Lines, canvas.OverlayLine{A: pts[len(pts)-1], B: world, Dashed: true})

	if label, ok := mw.state.LiveDistanceLabel(world); ok {
		overlay.Labels = append(overlay.Labels, canvas.OverlayLabel{
			At:   geometry.Midpoint(pts[len(pts)-1], world),
			Text: label,
		})
	}
	if isArea && len(pts) > 1 {
		// Dashed closing edge previews the polygon a double click would
		// commit.
		overlay.Lines = append(overlay.Lines, canvas.OverlayLine{A: world, B: pts[0], Dashed: true})
	}

	mw.canvas.SetOverlay("session", overlay)
}

// rebuildAnnotationOverlay renders persisted dimensions and areas.
func (mw *MainWindow) rebuildAnnotationOverlay() {
	dims := mw.state.Annotations().Dimensions()
	areas := mw.state.Annotations().Areas()
	if len(dims) == 0 && len(areas) == 0 {
		mw.canvas.ClearOverlay("annotations")
		return
	}

	overlay := &canvas.Overlay{Color: annotationColor}
	for _, d := range dims {
		overlay.Lines = append(overlay.Lines, canvas.OverlayLine{A: d.A, B: d.B})
		overlay.Markers = append(overlay.Markers,
			canvas.OverlayMarker{At: d.A, Shape: canvas.MarkerCross},
			canvas.OverlayMarker{At: d.B, Shape: canvas.MarkerCross})
		overlay.Labels = append(overlay.Labels, canvas.OverlayLabel{
			At:   geometry.Midpoint(d.A, d.B),
			Text: d.Label,
		})
	}
	for _, a := range areas {
		overlay.Polygons = append(overlay.Polygons, canvas.OverlayPolygon{Points: a.Polygon, Closed: true})
		overlay.Labels = append(overlay.Labels, canvas.OverlayLabel{
			At:   geometry.Centroid(a.Polygon),
			Text: a.Label,
		})
	}
	mw.canvas.SetOverlay("annotations", overlay)
}

// promptCalibration opens the calibration value dialog.
func (mw *MainWindow) promptCalibration() {
	world := mw.state.PendingCalibrationDistance()
	dialogs.ShowCalibration(mw.Window, world,
		mw.state.CompleteCalibration,
		mw.state.CancelCalibration)
}

// highlightTool marks the active tool's button.
func (mw *MainWindow) highlightTool(active app.Tool) {
	for tool, btn := range mw.toolButtons {
		if tool == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

// updateStatus refreshes the status bar readout.
func (mw *MainWindow) updateStatus() {
	calib := "uncalibrated"
	if scale, ok := mw.state.Calibration().Active(); ok {
		calib = fmt.Sprintf("%.4g %s per unit", scale.Factor(), scale.Unit)
	}
	mw.statusBar.SetText(fmt.Sprintf("%s | zoom %.0f%% | %s",
		mw.state.Tool(), mw.canvas.Zoom()*100, calib))
}

// Menu action handlers

func (mw *MainWindow) onOpenDrawing() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadDrawing(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".planproj"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onImportUnderlay() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadUnderlay(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.state.SetUnderlayOpacity(mw.prefs.Float(prefs.KeyUnderlayOpacity, 1))
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(underlay.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".planproj" {
			path += ".planproj"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("project.planproj")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Plan View",
		fmt.Sprintf("Plan View %s\n\n"+
			"A calibrated measurement viewer for 2D plan drawings.",
			version.String()),
		mw.Window)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}
