// Package terrain builds height-map terrain blocks and answers height
// queries used to keep objects on the ground.
package terrain

import (
	"errors"
	gomath "math"
)

// NoHeight is returned by Height for positions outside every block.
const NoHeight = -gomath.MaxFloat32

// ErrInvalidHeightMap is returned for height maps smaller than 2x2 pixels
// or invalid block layouts.
var ErrInvalidHeightMap = errors.New("invalid height map")

// Corner of the unit height-map mesh; the mesh spans [-0.5, 0.5] on X and Z.
const (
	startX = -0.5
	startZ = -0.5
)

// xLength and zLength are the extents of the unscaled height-map mesh.
const (
	xLength = -startX * 2
	zLength = -startZ * 2
)

// Rect is an axis-aligned box on the XZ plane.
type Rect struct {
	X, Z         float32 // minimum corner
	Width, Depth float32
}

// Contains reports whether (x, z) lies inside r, edges included.
func (r Rect) Contains(x, z float32) bool {
	return x >= r.X && x <= r.X+r.Width && z >= r.Z && z <= r.Z+r.Depth
}
