// Package panels provides the side panel widgets.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"planview/internal/app"
	"planview/internal/snap"
)

// SnapPanel exposes the snap settings: per-kind toggles and the pixel
// threshold.
type SnapPanel struct {
	state *app.State

	endpointCheck  *widget.Check
	midpointCheck  *widget.Check
	thresholdSlide *widget.Slider
	thresholdLabel *widget.Label

	container fyne.CanvasObject

	// Guards against feedback loops while syncing from state.
	syncing bool
}

// NewSnapPanel creates the snap settings panel bound to the given state.
func NewSnapPanel(state *app.State) *SnapPanel {
	p := &SnapPanel{state: state}

	p.endpointCheck = widget.NewCheck("Endpoints", func(bool) { p.apply() })
	p.midpointCheck = widget.NewCheck("Midpoints", func(bool) { p.apply() })

	p.thresholdSlide = widget.NewSlider(1, 30)
	p.thresholdSlide.Step = 1
	p.thresholdSlide.OnChanged = func(float64) { p.apply() }

	p.thresholdLabel = widget.NewLabel("")

	p.container = container.NewVBox(
		widget.NewLabelWithStyle("Snapping", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.endpointCheck,
		p.midpointCheck,
		widget.NewSeparator(),
		p.thresholdLabel,
		p.thresholdSlide,
	)

	p.sync(state.SnapSettings())
	state.On(app.EventSnapSettingsChanged, func(data interface{}) {
		if s, ok := data.(snap.Settings); ok {
			p.sync(s)
		}
	})

	return p
}

// Container returns the panel's root object.
func (p *SnapPanel) Container() fyne.CanvasObject {
	return p.container
}

// apply pushes the widget values into the state.
func (p *SnapPanel) apply() {
	if p.syncing {
		return
	}
	p.thresholdLabel.SetText(fmt.Sprintf("Threshold: %.0f px", p.thresholdSlide.Value))
	p.state.SetSnapSettings(snap.Settings{
		EnableEndpoint: p.endpointCheck.Checked,
		EnableMidpoint: p.midpointCheck.Checked,
		ThresholdPx:    p.thresholdSlide.Value,
	})
}

// sync pulls state values into the widgets without re-applying them.
func (p *SnapPanel) sync(s snap.Settings) {
	p.syncing = true
	p.endpointCheck.SetChecked(s.EnableEndpoint)
	p.midpointCheck.SetChecked(s.EnableMidpoint)
	p.thresholdSlide.SetValue(s.ThresholdPx)
	p.thresholdLabel.SetText(fmt.Sprintf("Threshold: %.0f px", s.ThresholdPx))
	p.syncing = false
}
