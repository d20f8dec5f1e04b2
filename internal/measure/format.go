package measure

import "fmt"

// DistanceLabel formats a raw drawing-unit distance for display, converting
// through the active calibration scale when one exists. Calibrated values
// carry the scale unit; uncalibrated values are plain generic units.
func (c *CalibrationStore) DistanceLabel(raw float64) string {
	if s, ok := c.Active(); ok {
		return fmt.Sprintf("%.3f %s", c.Distance(raw), s.Unit)
	}
	return fmt.Sprintf("%.3f", raw)
}

// AreaLabel formats a raw squared-drawing-unit area for display.
func (c *CalibrationStore) AreaLabel(raw float64) string {
	if s, ok := c.Active(); ok {
		return fmt.Sprintf("%.3f %s²", c.Area(raw), s.Unit)
	}
	return fmt.Sprintf("%.3f", raw)
}
