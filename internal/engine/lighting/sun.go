package lighting

import (
	gomath "math"

	"github.com/gjkf/seriousengine/pkg/math"
)

// SunDirection returns the direction towards a sun that rises on +Z
// (0 degrees), peaks overhead (90) and sets on -Z (180). The angle is
// clamped to [0, 180].
func SunDirection(angle float32) math.Vec3 {
	angle = ClampSunAngle(angle)
	rad := float64(math.Radians(angle))
	return math.Vec3{
		X: 0,
		Y: float32(gomath.Sin(rad)),
		Z: float32(gomath.Cos(rad)),
	}.Normalize()
}

// ClampSunAngle limits angle to the daylight range [0, 180].
func ClampSunAngle(angle float32) float32 {
	if angle < 0 {
		return 0
	}
	if angle > 180 {
		return 180
	}
	return angle
}
