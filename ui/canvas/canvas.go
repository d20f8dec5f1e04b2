// Package canvas provides a vector plan canvas with pan, zoom, and snapping
// overlays.
package canvas

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"planview/internal/drawing"
	"planview/internal/snap"
	"planview/internal/underlay"
	"planview/pkg/geometry"
)

const (
	minZoom  = 0.05
	maxZoom  = 50.0
	zoomStep = 1.25

	defaultFrustumHeight = 100.0
)

// PlanCanvas renders the flattened vector drawing with an optional raster
// underlay and named annotation overlays. The camera is a world-space center
// point plus a zoom factor against a fixed base frustum height, so snapping
// thresholds track the visible scale.
type PlanCanvas struct {
	widget.BaseWidget

	// Scene
	primitives []drawing.Primitive
	underlay   *underlay.Underlay

	// Overlays (keyed by name, e.g. "dimensions", "session")
	overlays map[string]*Overlay

	// Camera
	center        geometry.Point2D
	zoom          float64
	frustumHeight float64

	// Display
	raster   *fynecanvas.Raster
	lastW    int
	lastH    int
	panning  bool
	prevDrag fyne.Position

	// Callbacks
	onZoomChange func(zoom float64)
	onTap        func(world geometry.Point2D)
	onDoubleTap  func()
	onHover      func(world geometry.Point2D)
	onHoverEnd   func()
}

// NewPlanCanvas creates an empty plan canvas.
func NewPlanCanvas() *PlanCanvas {
	pc := &PlanCanvas{
		overlays:      make(map[string]*Overlay),
		zoom:          1.0,
		frustumHeight: defaultFrustumHeight,
	}
	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.ExtendBaseWidget(pc)
	return pc
}

// CreateRenderer implements fyne.Widget.
func (pc *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

// MinSize implements fyne.Widget.
func (pc *PlanCanvas) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// SetPrimitives replaces the rendered vector scene.
func (pc *PlanCanvas) SetPrimitives(primitives []drawing.Primitive) {
	pc.primitives = primitives
	pc.Refresh()
}

// SetUnderlay sets the raster underlay rendered behind the vectors.
func (pc *PlanCanvas) SetUnderlay(u *underlay.Underlay) {
	pc.underlay = u
	pc.Refresh()
}

// SetOverlay sets a named overlay.
func (pc *PlanCanvas) SetOverlay(name string, overlay *Overlay) {
	pc.overlays[name] = overlay
	pc.Refresh()
}

// ClearOverlay removes a named overlay.
func (pc *PlanCanvas) ClearOverlay(name string) {
	delete(pc.overlays, name)
	pc.Refresh()
}

// Viewport returns the current view parameters used for snap resolution.
func (pc *PlanCanvas) Viewport() snap.Viewport {
	return snap.Viewport{
		ZoomFactor:         pc.zoom,
		PixelHeight:        float64(pc.lastH),
		WorldFrustumHeight: pc.frustumHeight,
	}
}

// UnitsPerPixel returns the current world-units-per-pixel scale (0 until the
// first draw establishes a pixel height).
func (pc *PlanCanvas) UnitsPerPixel() float64 {
	upp, ok := pc.Viewport().UnitsPerPixel()
	if !ok {
		return 0
	}
	return upp
}

// ScreenToWorld converts a widget-relative position into world coordinates.
// World Y grows upward, screen Y downward.
func (pc *PlanCanvas) ScreenToWorld(pos fyne.Position) geometry.Point2D {
	upp := pc.UnitsPerPixel()
	if upp == 0 {
		return pc.center
	}
	return geometry.Point2D{
		X: pc.center.X + (float64(pos.X)-float64(pc.lastW)/2)*upp,
		Y: pc.center.Y - (float64(pos.Y)-float64(pc.lastH)/2)*upp,
	}
}

// worldToScreen converts world coordinates to integer pixel coordinates.
func (pc *PlanCanvas) worldToScreen(p geometry.Point2D) (int, int) {
	upp := pc.UnitsPerPixel()
	if upp == 0 {
		return 0, 0
	}
	x := float64(pc.lastW)/2 + (p.X-pc.center.X)/upp
	y := float64(pc.lastH)/2 - (p.Y-pc.center.Y)/upp
	return int(x + 0.5), int(y + 0.5)
}

// SetZoom sets the zoom factor, clamped to the supported range.
func (pc *PlanCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	pc.zoom = zoom
	pc.Refresh()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom factor.
func (pc *PlanCanvas) Zoom() float64 {
	return pc.zoom
}

// ZoomIn increases the zoom factor by one step.
func (pc *PlanCanvas) ZoomIn() {
	pc.SetZoom(pc.zoom * zoomStep)
}

// ZoomOut decreases the zoom factor by one step.
func (pc *PlanCanvas) ZoomOut() {
	pc.SetZoom(pc.zoom / zoomStep)
}

// FitToBounds centers the camera on the given world rectangle and resets the
// base frustum so the rectangle fills the view at zoom 1.
func (pc *PlanCanvas) FitToBounds(bounds geometry.Rect) {
	h := bounds.Height
	w := bounds.Width
	if h <= 0 && w <= 0 {
		return
	}

	pc.center = bounds.Center()
	frustum := h
	if pc.lastH > 0 && pc.lastW > 0 {
		// Account for aspect ratio so wide plans fit too.
		needed := w * float64(pc.lastH) / float64(pc.lastW)
		if needed > frustum {
			frustum = needed
		}
	}
	if frustum <= 0 {
		frustum = defaultFrustumHeight
	}
	pc.frustumHeight = frustum * 1.05
	pc.zoom = 1.0
	pc.Refresh()

	if pc.onZoomChange != nil {
		pc.onZoomChange(pc.zoom)
	}
}

// OnZoomChange sets a callback for zoom changes.
func (pc *PlanCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// OnTap sets a callback for clicks, in world coordinates.
func (pc *PlanCanvas) OnTap(callback func(world geometry.Point2D)) {
	pc.onTap = callback
}

// OnDoubleTap sets a callback for double clicks.
func (pc *PlanCanvas) OnDoubleTap(callback func()) {
	pc.onDoubleTap = callback
}

// OnHover sets a callback for pointer motion, in world coordinates.
func (pc *PlanCanvas) OnHover(callback func(world geometry.Point2D)) {
	pc.onHover = callback
}

// OnHoverEnd sets a callback for the pointer leaving the canvas.
func (pc *PlanCanvas) OnHoverEnd(callback func()) {
	pc.onHoverEnd = callback
}

// Refresh redraws the canvas.
func (pc *PlanCanvas) Refresh() {
	pc.raster.Refresh()
	pc.BaseWidget.Refresh()
}

// Tapped handles left clicks.
func (pc *PlanCanvas) Tapped(ev *fyne.PointEvent) {
	if pc.onTap == nil {
		return
	}
	size := pc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	pc.onTap(pc.ScreenToWorld(ev.Position))
}

// DoubleTapped handles double clicks.
func (pc *PlanCanvas) DoubleTapped(ev *fyne.PointEvent) {
	if pc.onDoubleTap != nil {
		pc.onDoubleTap()
	}
}

// Dragged pans the camera.
func (pc *PlanCanvas) Dragged(ev *fyne.DragEvent) {
	upp := pc.UnitsPerPixel()
	if upp == 0 {
		return
	}
	if !pc.panning {
		pc.panning = true
		pc.prevDrag = ev.Position
		return
	}
	dx := float64(ev.Position.X - pc.prevDrag.X)
	dy := float64(ev.Position.Y - pc.prevDrag.Y)
	pc.prevDrag = ev.Position

	pc.center.X -= dx * upp
	pc.center.Y += dy * upp
	pc.Refresh()
}

// DragEnd finishes a pan gesture.
func (pc *PlanCanvas) DragEnd() {
	pc.panning = false
}

// Scrolled zooms with the mouse wheel.
func (pc *PlanCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		pc.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		pc.ZoomOut()
	}
}

// MouseIn implements desktop.Hoverable.
func (pc *PlanCanvas) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (pc *PlanCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if pc.onHover != nil {
		pc.onHover(pc.ScreenToWorld(ev.Position))
	}
}

// MouseOut implements desktop.Hoverable.
func (pc *PlanCanvas) MouseOut() {
	if pc.onHoverEnd != nil {
		pc.onHoverEnd()
	}
}

// draw is the raster drawing function.
func (pc *PlanCanvas) draw(w, h int) image.Image {
	pc.lastW, pc.lastH = w, h

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(output, color.RGBA{R: 250, G: 250, B: 248, A: 255})

	if pc.underlay != nil && pc.underlay.Visible {
		pc.compositeUnderlay(output)
	}

	for _, p := range pc.primitives {
		pc.drawPrimitive(output, p)
	}

	for _, overlay := range pc.overlays {
		if overlay != nil {
			pc.drawOverlay(output, overlay)
		}
	}

	return output
}

func fill(img *image.RGBA, c color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}

// compositeUnderlay samples the underlay image per output pixel with the
// configured opacity.
func (pc *PlanCanvas) compositeUnderlay(output *image.RGBA) {
	u := pc.underlay
	if u.Image == nil || u.Scale <= 0 {
		return
	}
	upp := pc.UnitsPerPixel()
	if upp == 0 {
		return
	}

	srcBounds := u.Image.Bounds()
	opacity := u.Opacity
	if opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}

	wb := u.WorldBounds()
	wbMin, wbMax := wb.Min(), wb.Max()
	bounds := output.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			world := pc.ScreenToWorld(fyne.Position{X: float32(x), Y: float32(y)})
			if world.X < wbMin.X || world.X >= wbMax.X ||
				world.Y < wbMin.Y || world.Y >= wbMax.Y {
				continue
			}
			// The image's top row maps to the top of the world rect.
			sx := srcBounds.Min.X + int((world.X-u.Origin.X)/u.Scale)
			sy := srcBounds.Min.Y + int((wbMax.Y-world.Y)/u.Scale)
			if sx < srcBounds.Min.X || sx >= srcBounds.Max.X ||
				sy < srcBounds.Min.Y || sy >= srcBounds.Max.Y {
				continue
			}

			sr, sg, sb, _ := u.Image.At(sx, sy).RGBA()
			dst := output.RGBAAt(x, y)
			blend := func(s uint32, d uint8) uint8 {
				return uint8(float64(s>>8)*opacity + float64(d)*(1-opacity))
			}
			output.SetRGBA(x, y, color.RGBA{
				R: blend(sr, dst.R),
				G: blend(sg, dst.G),
				B: blend(sb, dst.B),
				A: 255,
			})
		}
	}
}

var primitiveColor = color.RGBA{R: 40, G: 40, B: 48, A: 255}

// drawPrimitive renders one flattened primitive.
func (pc *PlanCanvas) drawPrimitive(output *image.RGBA, p drawing.Primitive) {
	switch p.Kind {
	case drawing.PrimitiveSegment:
		x1, y1 := pc.worldToScreen(p.A)
		x2, y2 := pc.worldToScreen(p.B)
		pc.drawLine(output, x1, y1, x2, y2, primitiveColor, 1)
	case drawing.PrimitivePolySegment:
		for i := 0; i+1 < len(p.Points); i++ {
			x1, y1 := pc.worldToScreen(p.Points[i])
			x2, y2 := pc.worldToScreen(p.Points[i+1])
			pc.drawLine(output, x1, y1, x2, y2, primitiveColor, 1)
		}
		if p.Closed && len(p.Points) > 2 {
			x1, y1 := pc.worldToScreen(p.Points[len(p.Points)-1])
			x2, y2 := pc.worldToScreen(p.Points[0])
			pc.drawLine(output, x1, y1, x2, y2, primitiveColor, 1)
		}
	case drawing.PrimitiveMeshVertices:
		for _, v := range p.Points {
			x, y := pc.worldToScreen(v)
			pc.drawMarkerAt(output, x, y, MarkerDot, primitiveColor)
		}
	}
}
