package math

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// WrapAngle maps radians into [0, 2*PI).
func WrapAngle(radians float32) float32 {
	r := math32.Mod(radians, K_PI_2)
	if r < 0 {
		r += K_PI_2
	}
	return r
}

func Sin(x float32) float32 {
	return math32.Sin(x)
}

func Cos(x float32) float32 {
	return math32.Cos(x)
}

func Tan(x float32) float32 {
	return math32.Tan(x)
}

func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}
