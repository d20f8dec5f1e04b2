package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"planview/internal/app"
	"planview/internal/measure"
)

// AnnotationsPanel lists persisted dimensions and areas in insertion order
// and offers per-kind bulk clearing.
type AnnotationsPanel struct {
	state *app.State

	dimList  *widget.List
	areaList *widget.List

	container fyne.CanvasObject
}

// NewAnnotationsPanel creates the annotations panel bound to the given state.
func NewAnnotationsPanel(state *app.State) *AnnotationsPanel {
	p := &AnnotationsPanel{state: state}

	p.dimList = widget.NewList(
		func() int { return len(state.Annotations().Dimensions()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			dims := state.Annotations().Dimensions()
			if int(id) >= len(dims) {
				return
			}
			obj.(*widget.Label).SetText(dimensionText(id, dims[id]))
		},
	)

	p.areaList = widget.NewList(
		func() int { return len(state.Annotations().Areas()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			areas := state.Annotations().Areas()
			if int(id) >= len(areas) {
				return
			}
			a := areas[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("A%d: %s (%d pts)", id+1, a.Label, len(a.Polygon)))
		},
	)

	clearDims := widget.NewButton("Clear Dimensions", state.ClearDimensions)
	clearAreas := widget.NewButton("Clear Areas", state.ClearAreas)

	p.container = container.NewVBox(
		widget.NewLabelWithStyle("Dimensions", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWrap(fyne.NewSize(220, 140), p.dimList),
		clearDims,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Areas", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWrap(fyne.NewSize(220, 140), p.areaList),
		clearAreas,
	)

	state.On(app.EventAnnotationsChanged, func(interface{}) {
		p.Refresh()
	})

	return p
}

// Container returns the panel's root object.
func (p *AnnotationsPanel) Container() fyne.CanvasObject {
	return p.container
}

// Refresh reloads both lists from the store.
func (p *AnnotationsPanel) Refresh() {
	p.dimList.Refresh()
	p.areaList.Refresh()
}

func dimensionText(id widget.ListItemID, d measure.Dimension) string {
	return fmt.Sprintf("D%d: %s", id+1, d.Label)
}
