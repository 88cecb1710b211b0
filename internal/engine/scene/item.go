package scene

import (
	"github.com/google/uuid"

	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/engine/model"
	"github.com/gjkf/seriousengine/pkg/math"
)

// Item is a renderable placed in the world. Animation and Particle are
// optional behaviours; nil means the item is static.
type Item struct {
	ID       string
	Position math.Vec3
	Rotation math.Quat
	Scale    float32
	Meshes   []*mesh.Mesh
	// TextPos is the texture atlas frame drawn for this item.
	TextPos int

	Animation *model.Animation
	Particle  *ParticleState
}

// NewItem returns an item at the origin with unit scale and no rotation.
func NewItem(meshes ...*mesh.Mesh) *Item {
	return &Item{
		ID:       uuid.NewString(),
		Rotation: math.QuatIdentity(),
		Scale:    1,
		Meshes:   meshes,
	}
}

// Mesh returns the first mesh, or nil for an empty item.
func (i *Item) Mesh() *mesh.Mesh {
	if len(i.Meshes) == 0 {
		return nil
	}
	return i.Meshes[0]
}

// SetPosition moves the item.
func (i *Item) SetPosition(x, y, z float32) {
	i.Position = math.Vec3{X: x, Y: y, Z: z}
}

// SetRotationEuler sets the rotation from X, Y, Z angles in degrees,
// applied in that order.
func (i *Item) SetRotationEuler(x, y, z float32) {
	qx := math.QuatFromAxisAngle(math.Vec3{X: 1}, math.Radians(x))
	qy := math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.Radians(y))
	qz := math.QuatFromAxisAngle(math.Vec3{Z: 1}, math.Radians(z))
	i.Rotation = qx.Mul(qy).Mul(qz)
}

// Animated reports whether the item carries an animation.
func (i *Item) Animated() bool {
	return i.Animation != nil
}

// CollidesWith reports whether the boxes of i and other overlap. Each box
// is centred on Position*Scale with Scale as its half extent on every
// axis. An item always collides with itself.
func (i *Item) CollidesWith(other *Item) bool {
	if other == i {
		return true
	}
	a := i.Position.Scale(i.Scale)
	b := other.Position.Scale(other.Scale)
	return overlaps(a.X, b.X, i.Scale, other.Scale) &&
		overlaps(a.Y, b.Y, i.Scale, other.Scale) &&
		overlaps(a.Z, b.Z, i.Scale, other.Scale)
}

func overlaps(this, other, thisExtent, otherExtent float32) bool {
	if other < this {
		return other+otherExtent >= this-thisExtent
	}
	return other-otherExtent <= this+thisExtent
}

// Destroy frees the item's meshes.
func (i *Item) Destroy() {
	for _, m := range i.Meshes {
		m.Destroy()
	}
}
