package mesh

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/logger"
)

// Buffer is an uploaded, drawable vertex array.
type Buffer interface {
	Bind()
	Unbind()
	Draw()
	// DrawInstanced uploads count instance records and draws them.
	DrawInstanced(instanceData []float32, count int)
	Delete()
}

// Uploader creates GPU buffers from mesh data. instances is the instance
// chunk capacity, 0 for a regular mesh.
type Uploader interface {
	UploadMesh(data *Data, instances int) (Buffer, error)
}

// Mesh is vertex data living on the GPU plus its material.
type Mesh struct {
	ID       string
	Material *Material

	buffer      Buffer
	vertexCount int
	instances   int
	destroyed   bool
}

// New uploads data as a regular mesh.
func New(up Uploader, data *Data, material *Material) (*Mesh, error) {
	return upload(up, data, material, 0)
}

// NewInstanced uploads data as an instanced mesh drawing up to numInstances
// copies per call.
func NewInstanced(up Uploader, data *Data, material *Material, numInstances int) (*Mesh, error) {
	if numInstances < 1 {
		return nil, fmt.Errorf("%w: instance capacity %d", ErrInvalidData, numInstances)
	}
	return upload(up, data, material, numInstances)
}

func upload(up Uploader, data *Data, material *Material, instances int) (*Mesh, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	buf, err := up.UploadMesh(data, instances)
	if err != nil {
		return nil, fmt.Errorf("uploading mesh: %w", err)
	}
	if material == nil {
		material = &Material{Colour: DefaultColour}
	}
	m := &Mesh{
		ID:          uuid.NewString(),
		Material:    material,
		buffer:      buf,
		vertexCount: len(data.Indices),
		instances:   instances,
	}
	logger.Debug("mesh uploaded",
		zap.String("id", m.ID),
		zap.Int("indices", m.vertexCount),
		zap.Int("instances", instances))
	return m, nil
}

// Buffer returns the GPU handle.
func (m *Mesh) Buffer() Buffer {
	return m.buffer
}

// VertexCount returns the number of indices drawn per instance.
func (m *Mesh) VertexCount() int {
	return m.vertexCount
}

// Instanced reports whether the mesh was created with NewInstanced.
func (m *Mesh) Instanced() bool {
	return m.instances > 0
}

// InstanceCapacity returns the chunk size of an instanced mesh.
func (m *Mesh) InstanceCapacity() int {
	return m.instances
}

// Destroyed reports whether Destroy has run.
func (m *Mesh) Destroyed() bool {
	return m.destroyed
}

// Destroy frees the buffer and the material's textures. Further calls are
// no-ops, so meshes shared by several items can be destroyed per item.
func (m *Mesh) Destroy() {
	if m == nil || m.destroyed {
		return
	}
	m.destroyed = true
	m.buffer.Delete()
	if m.Material != nil {
		m.Material.Texture.Destroy()
		m.Material.NormalMap.Destroy()
	}
}
