package camera

import (
	"fmt"
	"math"
)

// EaseType selects the shape of an animation curve.
type EaseType int

const (
	Linear EaseType = iota
	EaseIn
	EaseOut
	EaseInOut
	Exponential
)

// easeFactor scales the sinh-based curves so they reach exactly 0 and 1 at
// the ends.
const easeFactor = 0.1085712344

func (e EaseType) String() string {
	switch e {
	case Linear:
		return "linear"
	case EaseIn:
		return "ease-in"
	case EaseOut:
		return "ease-out"
	case EaseInOut:
		return "ease-in-out"
	case Exponential:
		return "exponential"
	default:
		return fmt.Sprintf("EaseType(%d)", int(e))
	}
}

// ParseEaseType maps a name as produced by String back to an EaseType.
func ParseEaseType(s string) (EaseType, error) {
	for e := Linear; e <= Exponential; e++ {
		if e.String() == s {
			return e, nil
		}
	}
	return Linear, fmt.Errorf("unknown ease type %q", s)
}

// EaseCurve maps a linear progress value in [0, 1] onto the given curve.
// Every curve maps 0 to 0 and 1 to 1. Unknown types behave as Linear.
func EaseCurve(alpha float64, e EaseType) float64 {
	switch e {
	case EaseIn:
		return (1-alpha)*math.Sinh(alpha/(easeFactor*2))/100 + alpha*alpha
	case EaseOut:
		return alpha*(1-math.Sinh((1-alpha)/(easeFactor*2))/100) + (1-alpha)*alpha
	case EaseInOut:
		if alpha < 0.5 {
			return math.Sinh(alpha/easeFactor) / 100
		}
		return 1 - math.Sinh((1-alpha)/easeFactor)/100
	case Exponential:
		return alpha * alpha
	default:
		return alpha
	}
}
