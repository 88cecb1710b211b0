// Package mesh holds vertex data, materials and drawable GPU meshes.
package mesh

import (
	"errors"
	"fmt"

	"github.com/gjkf/seriousengine/internal/engine/texture"
	"github.com/gjkf/seriousengine/pkg/math"
)

// MaxWeights is the number of joint weights stored per vertex.
const MaxWeights = 4

// InstanceFloats is the per-instance record size of instanced meshes:
// model-view (16), model-light-view (16) and atlas offset (2).
const InstanceFloats = 16 + 16 + 2

// InstanceAttribLocation is the first vertex attribute used by instance data.
const InstanceAttribLocation = 5

// ErrInvalidData is returned when vertex arrays disagree on vertex count.
var ErrInvalidData = errors.New("invalid mesh data")

// Data is CPU-side vertex data. Every array is flat: 3 floats per position
// and normal, 2 per texture coordinate, MaxWeights per weight and joint index.
type Data struct {
	Positions    []float32
	TexCoords    []float32
	Normals      []float32
	Weights      []float32
	JointIndices []int32
	Indices      []uint32
}

// NewStaticData builds Data for an unskinned mesh. Weights and joint indices
// are zero-filled so static and skinned meshes share one vertex layout.
func NewStaticData(positions, texCoords, normals []float32, indices []uint32) *Data {
	n := len(positions) / 3
	return &Data{
		Positions:    positions,
		TexCoords:    texCoords,
		Normals:      normals,
		Weights:      make([]float32, n*MaxWeights),
		JointIndices: make([]int32, n*MaxWeights),
		Indices:      indices,
	}
}

// VertexCount returns the number of vertices.
func (d *Data) VertexCount() int {
	return len(d.Positions) / 3
}

// Validate checks that all arrays describe the same number of vertices and
// that every index is in range.
func (d *Data) Validate() error {
	if len(d.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats", ErrInvalidData, len(d.Positions))
	}
	n := d.VertexCount()
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"texture coordinates", len(d.TexCoords), n * 2},
		{"normals", len(d.Normals), n * 3},
		{"weights", len(d.Weights), n * MaxWeights},
		{"joint indices", len(d.JointIndices), n * MaxWeights},
	}
	for _, c := range checks {
		if c.got != c.want {
			return fmt.Errorf("%w: %s has %d values, want %d", ErrInvalidData, c.name, c.got, c.want)
		}
	}
	for i, idx := range d.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range", ErrInvalidData, idx, i)
		}
	}
	return nil
}

// Position returns vertex i.
func (d *Data) Position(i int) math.Vec3 {
	return math.Vec3{X: d.Positions[i*3], Y: d.Positions[i*3+1], Z: d.Positions[i*3+2]}
}

// Material describes the surface of a mesh.
type Material struct {
	Colour      math.Vec3
	Reflectance float32
	Texture     *texture.Texture
	NormalMap   *texture.Texture
}

// DefaultColour is the colour of an untextured material.
var DefaultColour = math.Vec3{X: 1, Y: 1, Z: 1}

// NewMaterial returns a white material with the given texture.
func NewMaterial(tex *texture.Texture, reflectance float32) *Material {
	return &Material{Colour: DefaultColour, Reflectance: reflectance, Texture: tex}
}

// IsTextured reports whether the material samples a texture.
func (m *Material) IsTextured() bool {
	return m != nil && m.Texture != nil
}

// HasNormalMap reports whether the material has a normal map.
func (m *Material) HasNormalMap() bool {
	return m != nil && m.NormalMap != nil
}
