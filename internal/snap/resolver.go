package snap

import (
	"planview/pkg/geometry"
)

const (
	// catchRadiusFactor widens the world-space threshold relative to the
	// nominal pixel threshold for a more forgiving catch radius.
	catchRadiusFactor = 1.5
	// tieBreakFactor scales the threshold into the near-tie window within
	// which kind priority decides between two candidates.
	tieBreakFactor = 0.1
)

// Settings are the user-controlled snap options, independent of geometry.
type Settings struct {
	EnableEndpoint bool    `json:"enable_endpoint"`
	EnableMidpoint bool    `json:"enable_midpoint"`
	ThresholdPx    float64 `json:"threshold_px"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{EnableEndpoint: true, EnableMidpoint: true, ThresholdPx: 10}
}

// enabled reports whether candidates of the given kind take part in
// resolution.
func (s Settings) enabled(k Kind) bool {
	switch k {
	case KindEndpoint:
		return s.EnableEndpoint
	case KindMidpoint:
		return s.EnableMidpoint
	default:
		return false
	}
}

// Viewport supplies the pixel-to-world conversion for the current view.
type Viewport struct {
	ZoomFactor         float64
	PixelHeight        float64
	WorldFrustumHeight float64
}

// UnitsPerPixel returns the world units covered by one screen pixel. ok is
// false when the viewport is degenerate (zero pixel height, non-positive
// zoom, or non-positive frustum height).
func (v Viewport) UnitsPerPixel() (upp float64, ok bool) {
	if v.PixelHeight == 0 || v.ZoomFactor <= 0 || v.WorldFrustumHeight <= 0 {
		return 0, false
	}
	return v.WorldFrustumHeight / (v.ZoomFactor * v.PixelHeight), true
}

// Result is a resolved snap target.
type Result struct {
	Kind     Kind
	Position geometry.Point2D
	SourceID string
}

// Resolve returns the best snap candidate for the cursor position, or
// ok=false when nothing is within reach. It is a pure function, called on
// every pointer move.
//
// The winner is the closest enabled candidate, except that within a near-tie
// window (a tenth of the world threshold) the higher-priority kind wins:
// endpoints beat midpoints that are marginally closer. Candidates at or
// beyond the threshold never snap. A degenerate viewport resolves to no snap
// rather than a division by zero or an infinite threshold.
func Resolve(cursor geometry.Point2D, index *Index, vp Viewport, settings Settings) (Result, bool) {
	if index.Len() == 0 {
		return Result{}, false
	}
	if !settings.EnableEndpoint && !settings.EnableMidpoint {
		return Result{}, false
	}

	upp, ok := vp.UnitsPerPixel()
	if !ok {
		return Result{}, false
	}
	thresholdWorld := settings.ThresholdPx * upp * catchRadiusFactor
	if thresholdWorld <= 0 {
		return Result{}, false
	}
	tieWindow := thresholdWorld * tieBreakFactor

	best := -1
	bestDist := 0.0
	for _, i := range index.within(cursor, thresholdWorld) {
		c := index.candidates[i]
		if !settings.enabled(c.Kind) {
			continue
		}
		dist := cursor.Distance(c.Position)

		if best < 0 {
			best, bestDist = i, dist
			continue
		}
		if beats(dist, c.Kind, bestDist, index.candidates[best].Kind, tieWindow) {
			best, bestDist = i, dist
		}
	}

	if best < 0 {
		return Result{}, false
	}
	c := index.candidates[best]
	return Result{Kind: c.Kind, Position: c.Position, SourceID: c.SourceID}, true
}

// beats reports whether candidate a (distance da, kind ka) should replace the
// current best b.
func beats(da float64, ka Kind, db float64, kb Kind, tieWindow float64) bool {
	diff := da - db
	if diff < 0 {
		diff = -diff
	}
	if diff < tieWindow && ka.Priority() != kb.Priority() {
		return ka.Priority() > kb.Priority()
	}
	return da < db
}
