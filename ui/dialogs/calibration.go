// Package dialogs provides modal dialogs for the main window.
package dialogs

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"planview/internal/measure"
)

// ShowCalibration asks for the real-world length of a just-drawn reference
// segment. submit installs the value and returns an error for invalid input,
// in which case the dialog reopens so the user can correct it. cancel
// discards the reference segment.
func ShowCalibration(win fyne.Window, worldDistance float64, submit func(input string) error, cancel func()) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder(fmt.Sprintf("length in %s", measure.DefaultUnit))

	items := []*widget.FormItem{
		widget.NewFormItem(
			fmt.Sprintf("Segment spans %.3f drawing units. Real length (%s):", worldDistance, measure.DefaultUnit),
			entry,
		),
	}

	d := dialog.NewForm("Calibrate Scale", "Apply", "Cancel", items,
		func(confirmed bool) {
			if !confirmed {
				cancel()
				return
			}
			if err := submit(entry.Text); err != nil {
				dialog.ShowError(err, win)
				ShowCalibration(win, worldDistance, submit, cancel)
			}
		}, win)
	d.Resize(fyne.NewSize(420, 160))
	d.Show()
	win.Canvas().Focus(entry)
}
