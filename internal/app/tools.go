package app

// Tool selects which point-collection state machine interprets pointer
// events. Exactly one tool is active at a time.
type Tool int

const (
	// ToolHand pans the view; pointer events collect nothing.
	ToolHand Tool = iota
	// ToolMeasure collects point pairs and keeps the last pair displayed.
	ToolMeasure
	// ToolCalibrate collects a point pair and prompts for a real-world value.
	ToolCalibrate
	// ToolDimension collects point pairs and persists dimension annotations.
	ToolDimension
	// ToolArea collects polygon vertices closed by double-click.
	ToolArea
)

// String returns the tool name shown in the status bar.
func (t Tool) String() string {
	switch t {
	case ToolHand:
		return "Hand"
	case ToolMeasure:
		return "Measure"
	case ToolCalibrate:
		return "Calibrate"
	case ToolDimension:
		return "Dimension"
	case ToolArea:
		return "Area"
	default:
		return "Unknown"
	}
}
