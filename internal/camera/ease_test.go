package camera

import (
	"math"
	"testing"
)

var allEases = []EaseType{Linear, EaseIn, EaseOut, EaseInOut, Exponential}

func TestEaseCurve_Boundaries(t *testing.T) {
	for _, e := range allEases {
		t.Run(e.String(), func(t *testing.T) {
			if got := EaseCurve(0, e); math.Abs(got) > 1e-12 {
				t.Errorf("EaseCurve(0) = %v, want 0", got)
			}
			if got := EaseCurve(1, e); math.Abs(got-1) > 1e-12 {
				t.Errorf("EaseCurve(1) = %v, want 1", got)
			}
		})
	}
}

func TestEaseCurve_Monotonic(t *testing.T) {
	for _, e := range allEases {
		prev := EaseCurve(0, e)
		for i := 1; i <= 100; i++ {
			a := float64(i) / 100
			got := EaseCurve(a, e)
			if got < prev-1e-9 {
				t.Errorf("%v: EaseCurve(%v) = %v < previous %v", e, a, got, prev)
			}
			prev = got
		}
	}
}

func TestEaseCurve_Shape(t *testing.T) {
	// Ease-in lags linear progress, ease-out leads it.
	if got := EaseCurve(0.25, EaseIn); got >= 0.25 {
		t.Errorf("EaseIn(0.25) = %v, want < 0.25", got)
	}
	if got := EaseCurve(0.75, EaseOut); got <= 0.75 {
		t.Errorf("EaseOut(0.75) = %v, want > 0.75", got)
	}

	// Ease-in-out is symmetric and passes through the middle.
	if got := EaseCurve(0.5, EaseInOut); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("EaseInOut(0.5) = %v, want ≈ 0.5", got)
	}
	for _, a := range []float64{0.1, 0.2, 0.3, 0.4} {
		lo := EaseCurve(a, EaseInOut)
		hi := EaseCurve(1-a, EaseInOut)
		if math.Abs(lo+hi-1) > 1e-9 {
			t.Errorf("EaseInOut not symmetric at %v: %v + %v", a, lo, hi)
		}
	}

	if got := EaseCurve(0.5, Exponential); got != 0.25 {
		t.Errorf("Exponential(0.5) = %v, want 0.25", got)
	}
	if got := EaseCurve(0.3, EaseType(99)); got != 0.3 {
		t.Errorf("unknown ease should be linear, got %v", got)
	}
}

func TestParseEaseType(t *testing.T) {
	for _, e := range allEases {
		got, err := ParseEaseType(e.String())
		if err != nil {
			t.Fatalf("ParseEaseType(%q) error: %v", e.String(), err)
		}
		if got != e {
			t.Errorf("ParseEaseType(%q) = %v, want %v", e.String(), got, e)
		}
	}

	if _, err := ParseEaseType("bouncy"); err == nil {
		t.Error("expected error for unknown ease type")
	}
}
