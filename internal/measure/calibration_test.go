package measure

import (
	"errors"
	"math"
	"testing"
)

func TestCalibrationRoundTrip(t *testing.T) {
	store := NewCalibrationStore()

	// Calibrate a segment of world length 10 against a real value of 5.
	s, err := store.Set(10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if s.RealValue != 5 || s.Unit != DefaultUnit {
		t.Errorf("scale = %+v", s)
	}

	// Measuring the same segment now reports 5, not 10.
	if got := store.Distance(10); math.Abs(got-5) > 1e-10 {
		t.Errorf("Distance(10) = %v, want 5", got)
	}
	if got := store.DistanceLabel(10); got != "5.000 m" {
		t.Errorf("DistanceLabel(10) = %q, want %q", got, "5.000 m")
	}
}

func TestCalibrationRejections(t *testing.T) {
	store := NewCalibrationStore()
	if _, err := store.Set(10, 2); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name                     string
		worldDistance, realValue float64
	}{
		{"zero-length segment", 0, 5},
		{"negative world distance", -1, 5},
		{"zero real value", 10, 0},
		{"negative real value", 10, -3},
		{"nan real value", 10, math.NaN()},
		{"inf world distance", math.Inf(1), 5},
	}
	for _, tc := range cases {
		if _, err := store.Set(tc.worldDistance, tc.realValue); !errors.Is(err, ErrInvalidCalibration) {
			t.Errorf("%s: err = %v, want ErrInvalidCalibration", tc.name, err)
		}
	}

	// All rejections left the prior scale untouched.
	s, ok := store.Active()
	if !ok || s.WorldDistance != 10 || s.RealValue != 2 {
		t.Errorf("prior scale lost: %+v, %v", s, ok)
	}
}

func TestCalibrationReplaceInFull(t *testing.T) {
	store := NewCalibrationStore()
	if _, err := store.Set(10, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Set(4, 8); err != nil {
		t.Fatal(err)
	}

	s, _ := store.Active()
	if s.WorldDistance != 4 || s.RealValue != 8 {
		t.Errorf("scale = %+v, want fully replaced {4 8}", s)
	}
}

func TestUncalibratedPassThrough(t *testing.T) {
	store := NewCalibrationStore()
	if got := store.Distance(7.5); got != 7.5 {
		t.Errorf("Distance(7.5) = %v, want raw pass-through", got)
	}
	if got := store.DistanceLabel(5); got != "5.000" {
		t.Errorf("DistanceLabel(5) = %q, want %q", got, "5.000")
	}
	if got := store.AreaLabel(16); got != "16.000" {
		t.Errorf("AreaLabel(16) = %q, want %q", got, "16.000")
	}
}

func TestDimensionConversion(t *testing.T) {
	// Points (0,0) and (3,4): raw distance 5. With scale {worldDistance: 1,
	// realValue: 2} the display distance is 10.
	store := NewCalibrationStore()
	if got := store.DistanceLabel(5); got != "5.000" {
		t.Errorf("raw label = %q, want 5.000", got)
	}

	if _, err := store.Set(1, 2); err != nil {
		t.Fatal(err)
	}
	if got := store.DistanceLabel(5); got != "10.000 m" {
		t.Errorf("calibrated label = %q, want 10.000 m", got)
	}
}

func TestAreaScalesBySquaredFactor(t *testing.T) {
	store := NewCalibrationStore()
	if _, err := store.Set(2, 6); err != nil { // factor 3
		t.Fatal(err)
	}
	if got := store.Area(16); math.Abs(got-144) > 1e-10 {
		t.Errorf("Area(16) = %v, want 144 (factor² = 9)", got)
	}
}

func TestCalibrationClear(t *testing.T) {
	store := NewCalibrationStore()
	if _, err := store.Set(10, 5); err != nil {
		t.Fatal(err)
	}
	store.Clear()
	if _, ok := store.Active(); ok {
		t.Error("expected no active scale after Clear")
	}
}
