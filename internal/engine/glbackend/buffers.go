package glbackend

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/internal/engine/mesh"
)

// Vertex attribute locations shared with the GLSL sources.
const (
	attribPosition     = 0
	attribTexCoord     = 1
	attribNormal       = 2
	attribWeights      = 3
	attribJointIndices = 4
)

const floatSize = 4

// meshBuffer is a VAO with one VBO per attribute, an index buffer and an
// optional per-instance VBO.
type meshBuffer struct {
	vao         uint32
	vbos        []uint32
	ebo         uint32
	instanceVBO uint32
	indexCount  int32
	capacity    int
}

// UploadMesh uploads data. When instances > 0 an instance buffer holding
// instances records of mesh.InstanceFloats floats is allocated.
func (d *Device) UploadMesh(data *mesh.Data, instances int) (mesh.Buffer, error) {
	if len(data.Indices) == 0 {
		return nil, fmt.Errorf("%w: mesh has no indices", gfx.ErrResourceCreation)
	}

	b := &meshBuffer{indexCount: int32(len(data.Indices)), capacity: instances}
	gl.GenVertexArrays(1, &b.vao)
	if b.vao == 0 {
		return nil, fmt.Errorf("%w: vertex array", gfx.ErrResourceCreation)
	}
	gl.BindVertexArray(b.vao)

	b.floatAttrib(attribPosition, 3, data.Positions)
	b.floatAttrib(attribTexCoord, 2, data.TexCoords)
	b.floatAttrib(attribNormal, 3, data.Normals)
	b.floatAttrib(attribWeights, mesh.MaxWeights, data.Weights)
	b.intAttrib(attribJointIndices, mesh.MaxWeights, data.JointIndices)

	if instances > 0 {
		b.allocInstances(instances)
	}

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, unsafe.Pointer(&data.Indices[0]), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return b, nil
}

func (b *meshBuffer) floatAttrib(loc uint32, size int32, values []float32) {
	if len(values) == 0 {
		return
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(values)*floatSize, unsafe.Pointer(&values[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(loc, size, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(loc)
	b.vbos = append(b.vbos, vbo)
}

func (b *meshBuffer) intAttrib(loc uint32, size int32, values []int32) {
	if len(values) == 0 {
		return
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(values)*4, unsafe.Pointer(&values[0]), gl.STATIC_DRAW)
	gl.VertexAttribIPointer(loc, size, gl.INT, 0, nil)
	gl.EnableVertexAttribArray(loc)
	b.vbos = append(b.vbos, vbo)
}

// allocInstances lays out two mat4 (four vec4 columns each) followed by a
// vec2 atlas offset, all advancing once per instance.
func (b *meshBuffer) allocInstances(capacity int) {
	stride := int32(mesh.InstanceFloats * floatSize)

	gl.GenBuffers(1, &b.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.instanceVBO)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*int(stride), nil, gl.DYNAMIC_DRAW)

	loc := uint32(mesh.InstanceAttribLocation)
	offset := uintptr(0)
	for i := 0; i < 8; i++ {
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, stride, offset)
		gl.VertexAttribDivisor(loc, 1)
		gl.EnableVertexAttribArray(loc)
		loc++
		offset += 4 * floatSize
	}
	gl.VertexAttribPointerWithOffset(loc, 2, gl.FLOAT, false, stride, offset)
	gl.VertexAttribDivisor(loc, 1)
	gl.EnableVertexAttribArray(loc)
}

func (b *meshBuffer) Bind() {
	gl.BindVertexArray(b.vao)
}

func (b *meshBuffer) Unbind() {
	gl.BindVertexArray(0)
}

func (b *meshBuffer) Draw() {
	gl.DrawElements(gl.TRIANGLES, b.indexCount, gl.UNSIGNED_INT, nil)
}

// DrawInstanced uploads count records and draws them. Counts above the
// allocated capacity are clamped.
func (b *meshBuffer) DrawInstanced(instanceData []float32, count int) {
	if b.instanceVBO == 0 || count <= 0 {
		return
	}
	if count > b.capacity {
		count = b.capacity
	}
	if n := len(instanceData) / mesh.InstanceFloats; count > n {
		count = n
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.instanceVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, count*mesh.InstanceFloats*floatSize, unsafe.Pointer(&instanceData[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.DrawElementsInstanced(gl.TRIANGLES, b.indexCount, gl.UNSIGNED_INT, nil, int32(count))
}

func (b *meshBuffer) Delete() {
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if len(b.vbos) > 0 {
		gl.DeleteBuffers(int32(len(b.vbos)), &b.vbos[0])
		b.vbos = nil
	}
	if b.instanceVBO != 0 {
		gl.DeleteBuffers(1, &b.instanceVBO)
		b.instanceVBO = 0
	}
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
		b.ebo = 0
	}
	if b.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}
