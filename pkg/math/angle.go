package math

import "math"

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180 / math.Pi
}
