// Package model builds skinned meshes and decoded skeletal animations
// from MD5 data.
package model

import (
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/pkg/math"
)

// MaxJoints is the joint matrix array size shared with the shaders.
const MaxJoints = 150

// AnimatedFrame holds one pose of the skeleton. Local is each joint's
// model-space transform, Skin the transform applied to bind-pose vertices.
// Entries past the skeleton's joint count stay identity.
type AnimatedFrame struct {
	Local [MaxJoints]math.Mat4
	Skin  [MaxJoints]math.Mat4
}

// NewAnimatedFrame returns a frame with every entry set to identity.
func NewAnimatedFrame() AnimatedFrame {
	var f AnimatedFrame
	id := math.Identity()
	for i := range f.Local {
		f.Local[i] = id
		f.Skin[i] = id
	}
	return f
}

// SkinMatrices returns the skinning matrices for upload as a uniform array.
func (f *AnimatedFrame) SkinMatrices() []math.Mat4 {
	return f.Skin[:]
}

// Model is a loaded MD5 model: one mesh per MD5 sub-mesh plus an optional
// animation.
type Model struct {
	Meshes    []*mesh.Mesh
	Animation *Animation
}

// Destroy frees every mesh.
func (m *Model) Destroy() {
	for _, msh := range m.Meshes {
		msh.Destroy()
	}
}
