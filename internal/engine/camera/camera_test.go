package camera

import (
	"testing"
)

const eps = 1e-5

func near(a, b float32) bool {
	d := a - b
	return d < eps && d > -eps
}

func TestMovePosition(t *testing.T) {
	tests := []struct {
		name       string
		yaw        float32
		dx, dy, dz float32
		wantX      float32
		wantY      float32
		wantZ      float32
	}{
		{"forward at yaw 0", 0, 0, 0, -1, 0, 0, -1},
		{"backward at yaw 0", 0, 0, 0, 1, 0, 0, 1},
		{"strafe right at yaw 0", 0, 1, 0, 0, 1, 0, 0},
		{"forward at yaw 90", 90, 0, 0, -1, 1, 0, 0},
		{"strafe at yaw 90", 90, 1, 0, 0, 0, 0, 1},
		{"up", 45, 0, 2, 0, 0, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.SetRotation(0, tt.yaw, 0)
			c.MovePosition(tt.dx, tt.dy, tt.dz)
			p := c.Position
			if !near(p.X, tt.wantX) || !near(p.Y, tt.wantY) || !near(p.Z, tt.wantZ) {
				t.Errorf("position = %+v, want (%v, %v, %v)", p, tt.wantX, tt.wantY, tt.wantZ)
			}
		})
	}
}

func TestMoveRotation(t *testing.T) {
	c := New()
	c.MoveRotation(10, 20, 0)
	c.MoveRotation(-5, 5, 1)
	if c.Rotation.X != 5 || c.Rotation.Y != 25 || c.Rotation.Z != 1 {
		t.Errorf("rotation = %+v, want (5, 25, 1)", c.Rotation)
	}
}
