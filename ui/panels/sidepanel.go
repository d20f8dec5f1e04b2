package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"planview/internal/app"
)

// SidePanel groups the snap settings, calibration status, and annotation
// lists next to the canvas.
type SidePanel struct {
	state *app.State

	snapPanel        *SnapPanel
	annotationsPanel *AnnotationsPanel
	calibrationLabel *widget.Label
	opacitySlide     *widget.Slider

	container fyne.CanvasObject
}

// NewSidePanel creates the side panel bound to the given state.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{
		state:            state,
		snapPanel:        NewSnapPanel(state),
		annotationsPanel: NewAnnotationsPanel(state),
		calibrationLabel: widget.NewLabel(""),
	}
	sp.updateCalibration()

	clearScale := widget.NewButton("Clear Scale", func() {
		state.Calibration().Clear()
		state.Emit(app.EventCalibrationChanged, nil)
	})

	calibrationBox := container.NewVBox(
		widget.NewLabelWithStyle("Calibration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sp.calibrationLabel,
		clearScale,
	)

	sp.opacitySlide = widget.NewSlider(0, 1)
	sp.opacitySlide.Step = 0.05
	sp.opacitySlide.Value = 1
	sp.opacitySlide.OnChanged = func(v float64) {
		state.SetUnderlayOpacity(v)
	}

	underlayBox := container.NewVBox(
		widget.NewLabelWithStyle("Underlay", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Opacity"),
		sp.opacitySlide,
	)

	sp.container = container.NewVBox(
		sp.snapPanel.Container(),
		widget.NewSeparator(),
		calibrationBox,
		widget.NewSeparator(),
		underlayBox,
		widget.NewSeparator(),
		sp.annotationsPanel.Container(),
	)

	state.On(app.EventCalibrationChanged, func(interface{}) {
		sp.updateCalibration()
	})
	state.On(app.EventUnderlayChanged, func(interface{}) {
		if u := state.Underlay(); u != nil && u.Opacity != sp.opacitySlide.Value {
			sp.opacitySlide.SetValue(u.Opacity)
		}
	})

	return sp
}

// Container returns the panel's root object.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return container.NewVScroll(sp.container)
}

func (sp *SidePanel) updateCalibration() {
	if scale, ok := sp.state.Calibration().Active(); ok {
		sp.calibrationLabel.SetText(fmt.Sprintf("%.3g units = %.3g %s",
			scale.WorldDistance, scale.RealValue, scale.Unit))
	} else {
		sp.calibrationLabel.SetText("Not calibrated")
	}
}
