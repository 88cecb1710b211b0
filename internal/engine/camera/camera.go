// Package camera provides the first-person scene camera.
package camera

import (
	gomath "math"

	"github.com/gjkf/seriousengine/pkg/math"
)

// Camera is a free-look camera. Rotation holds pitch (X), yaw (Y) and
// roll (Z) in degrees.
type Camera struct {
	Position math.Vec3
	Rotation math.Vec3
}

// New returns a camera at the origin looking down -Z.
func New() *Camera {
	return &Camera{}
}

// SetPosition moves the camera to an absolute position.
func (c *Camera) SetPosition(x, y, z float32) {
	c.Position = math.Vec3{X: x, Y: y, Z: z}
}

// MovePosition moves the camera relative to its yaw: dz along the view
// direction on the XZ plane, dx sideways, dy straight up.
func (c *Camera) MovePosition(dx, dy, dz float32) {
	yaw := float64(math.Radians(c.Rotation.Y))
	if dz != 0 {
		c.Position.X += float32(gomath.Sin(yaw)) * -1 * dz
		c.Position.Z += float32(gomath.Cos(yaw)) * dz
	}
	if dx != 0 {
		side := float64(math.Radians(c.Rotation.Y - 90))
		c.Position.X += float32(gomath.Sin(side)) * -1 * dx
		c.Position.Z += float32(gomath.Cos(side)) * dx
	}
	c.Position.Y += dy
}

// SetRotation sets the absolute rotation in degrees.
func (c *Camera) SetRotation(x, y, z float32) {
	c.Rotation = math.Vec3{X: x, Y: y, Z: z}
}

// MoveRotation adds to the rotation angles.
func (c *Camera) MoveRotation(dx, dy, dz float32) {
	c.Rotation = c.Rotation.Add(math.Vec3{X: dx, Y: dy, Z: dz})
}
