package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuffer struct {
	deletes int
}

func (b *fakeBuffer) Bind()                        {}
func (b *fakeBuffer) Unbind()                      {}
func (b *fakeBuffer) Draw()                        {}
func (b *fakeBuffer) DrawInstanced([]float32, int) {}
func (b *fakeBuffer) Delete()                      { b.deletes++ }

type fakeUploader struct {
	buffers   []*fakeBuffer
	instances []int
}

func (u *fakeUploader) UploadMesh(data *Data, instances int) (Buffer, error) {
	b := &fakeBuffer{}
	u.buffers = append(u.buffers, b)
	u.instances = append(u.instances, instances)
	return b, nil
}

func triangle() *Data {
	return NewStaticData(
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]float32{0, 0, 1, 0, 0, 1},
		[]float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		[]uint32{0, 1, 2},
	)
}

func TestNewStaticDataZeroFillsWeights(t *testing.T) {
	d := triangle()
	assert.Len(t, d.Weights, 3*MaxWeights)
	assert.Len(t, d.JointIndices, 3*MaxWeights)
	for i, w := range d.Weights {
		if w != 0 {
			t.Fatalf("weight %d = %v, want 0", i, w)
		}
	}
	require.NoError(t, d.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Data)
	}{
		{"ragged positions", func(d *Data) { d.Positions = d.Positions[:8] }},
		{"short texcoords", func(d *Data) { d.TexCoords = d.TexCoords[:4] }},
		{"short normals", func(d *Data) { d.Normals = d.Normals[:6] }},
		{"short weights", func(d *Data) { d.Weights = d.Weights[:4] }},
		{"short joint indices", func(d *Data) { d.JointIndices = nil }},
		{"index out of range", func(d *Data) { d.Indices = []uint32{0, 1, 3} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := triangle()
			tt.mutate(d)
			if err := d.Validate(); !errors.Is(err, ErrInvalidData) {
				t.Errorf("Validate() = %v, want ErrInvalidData", err)
			}
		})
	}
}

func TestNewMesh(t *testing.T) {
	up := &fakeUploader{}
	m, err := New(up, triangle(), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, 3, m.VertexCount())
	assert.False(t, m.Instanced())
	assert.Equal(t, DefaultColour, m.Material.Colour)
	assert.Equal(t, []int{0}, up.instances)
}

func TestNewInstanced(t *testing.T) {
	up := &fakeUploader{}
	m, err := NewInstanced(up, triangle(), NewMaterial(nil, 0.5), 200)
	require.NoError(t, err)
	assert.True(t, m.Instanced())
	assert.Equal(t, 200, m.InstanceCapacity())
	assert.Equal(t, []int{200}, up.instances)

	_, err = NewInstanced(up, triangle(), nil, 0)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestDestroyOnce(t *testing.T) {
	up := &fakeUploader{}
	m, err := New(up, triangle(), nil)
	require.NoError(t, err)

	m.Destroy()
	m.Destroy()
	assert.True(t, m.Destroyed())
	assert.Equal(t, 1, up.buffers[0].deletes)
}

func TestUniqueIDs(t *testing.T) {
	up := &fakeUploader{}
	a, _ := New(up, triangle(), nil)
	b, _ := New(up, triangle(), nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestInstanceFloats(t *testing.T) {
	if InstanceFloats != 34 {
		t.Errorf("InstanceFloats = %d, want 34", InstanceFloats)
	}
}
