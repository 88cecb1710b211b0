package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/pkg/formats"
	"github.com/gjkf/seriousengine/pkg/math"
)

func testSubMesh() *formats.MD5SubMesh {
	return &formats.MD5SubMesh{
		Shader: "arm.tga",
		Vertices: []formats.MD5Vertex{
			{Index: 0, TexCoord: math.Vec2{X: 0, Y: 0}, StartWeight: 0, WeightCount: 1},
			{Index: 1, TexCoord: math.Vec2{X: 1, Y: 0}, StartWeight: 1, WeightCount: 1},
			{Index: 2, TexCoord: math.Vec2{X: 0.5, Y: 1}, StartWeight: 2, WeightCount: 2},
		},
		Triangles: []formats.MD5Triangle{{Index: 0, Vertices: [3]int{0, 2, 1}}},
		Weights: []formats.MD5Weight{
			{Index: 0, Joint: 0, Bias: 1, Position: math.Vec3{}},
			{Index: 1, Joint: 0, Bias: 1, Position: math.Vec3{X: 1}},
			{Index: 2, Joint: 0, Bias: 0.5, Position: math.Vec3{Y: 1}},
			{Index: 3, Joint: 1, Bias: 0.5, Position: math.Vec3{Y: 1}},
		},
	}
}

func TestBuildMeshData(t *testing.T) {
	data, err := BuildMeshData(testSubMesh(), twoJointSkeleton())
	require.NoError(t, err)
	require.NoError(t, data.Validate())

	wantPos := []float32{
		0, 0, 0,
		1, 0, 0,
		0.5, 2, 1.5,
	}
	assert.InDeltaSlice(t, wantPos, data.Positions, eps)
	assert.Equal(t, []float32{0, 0, 1, 0, 0.5, 1}, data.TexCoords)
	assert.Equal(t, []uint32{0, 2, 1}, data.Indices)

	// (v1 - v0) x (v2 - v0) for the (0, 2, 1) winding.
	for i := 0; i < 3; i++ {
		assert.InDeltaSlice(t, []float32{0, -0.6, 0.8}, data.Normals[i*3:i*3+3], eps, "normal %d", i)
	}

	assert.Equal(t, []float32{0.5, 0.5, 0, 0}, data.Weights[8:12])
	assert.Equal(t, []int32{0, 1, 0, 0}, data.JointIndices[8:12])
	assert.Equal(t, []float32{1, 0, 0, 0}, data.Weights[0:4])
}

func TestBuildMeshDataRotatedJoint(t *testing.T) {
	joints := twoJointSkeleton()
	// 180 degrees around Z.
	joints[0].Orientation = math.Quat{Z: 1, W: 0}
	sub := testSubMesh()

	data, err := BuildMeshData(sub, joints)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{-1, 0, 0}, data.Positions[3:6], eps)
}

func TestBuildMeshDataTruncatesWeights(t *testing.T) {
	sub := &formats.MD5SubMesh{
		Vertices: []formats.MD5Vertex{{StartWeight: 0, WeightCount: 5}},
	}
	for i := 0; i < 5; i++ {
		sub.Weights = append(sub.Weights, formats.MD5Weight{Index: i, Joint: i % 2, Bias: 0.2})
	}
	data, err := BuildMeshData(sub, twoJointSkeleton())
	require.NoError(t, err)
	assert.Len(t, data.Weights, mesh.MaxWeights)
	assert.Equal(t, []float32{0.2, 0.2, 0.2, 0.2}, data.Weights)
	assert.Equal(t, []int32{0, 1, 0, 1}, data.JointIndices)
}

func TestBuildMeshDataErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *formats.MD5SubMesh)
	}{
		{"weight range", func(s *formats.MD5SubMesh) { s.Vertices[2].WeightCount = 3 }},
		{"unknown joint", func(s *formats.MD5SubMesh) { s.Weights[3].Joint = 7 }},
		{"triangle vertex", func(s *formats.MD5SubMesh) { s.Triangles[0].Vertices[1] = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := testSubMesh()
			tt.mutate(sub)
			_, err := BuildMeshData(sub, twoJointSkeleton())
			if !errors.Is(err, formats.ErrMalformedMD5) {
				t.Errorf("BuildMeshData() error = %v, want ErrMalformedMD5", err)
			}
		})
	}
}

type fakeBuffer struct{ deleted bool }

func (b *fakeBuffer) Bind()                        {}
func (b *fakeBuffer) Unbind()                      {}
func (b *fakeBuffer) Draw()                        {}
func (b *fakeBuffer) DrawInstanced([]float32, int) {}
func (b *fakeBuffer) Delete()                      { b.deleted = true }

type fakeUploader struct{ uploads int }

func (u *fakeUploader) UploadMesh(*mesh.Data, int) (mesh.Buffer, error) {
	u.uploads++
	return &fakeBuffer{}, nil
}

func TestLoad(t *testing.T) {
	md5 := &formats.MD5Mesh{
		Joints: twoJointSkeleton(),
		Meshes: []formats.MD5SubMesh{*testSubMesh(), *testSubMesh()},
	}
	up := &fakeUploader{}

	m, err := Load(up, md5, twoJointAnim([]float32{0, 0, 0, 0}, []float32{1, 0, 0, 0}), nil)
	require.NoError(t, err)
	assert.Len(t, m.Meshes, 2)
	assert.Equal(t, 2, up.uploads)
	require.NotNil(t, m.Animation)
	assert.Equal(t, 2, m.Animation.FrameCount())
	assert.Equal(t, 24, m.Animation.FrameRate)

	static, err := Load(up, md5, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, static.Animation)
}

func TestLoadBadAnimationDestroysMeshes(t *testing.T) {
	md5 := &formats.MD5Mesh{Joints: twoJointSkeleton(), Meshes: []formats.MD5SubMesh{*testSubMesh()}}
	anim := twoJointAnim([]float32{0})

	_, err := Load(&fakeUploader{}, md5, anim, nil)
	assert.ErrorIs(t, err, formats.ErrMalformedMD5)
}

const singleJointMesh = `MD5Version 10
commandline ""

numJoints 1
numMeshes 1

joints {
	"root"	-1 ( 0 0 0 ) ( 0 0 0 )
}

mesh {
	shader "skin.tga"

	numverts 3
	vert 0 ( 0 0 ) 0 1
	vert 1 ( 1 0 ) 1 1
	vert 2 ( 0 1 ) 2 1

	numtris 1
	tri 0 0 2 1

	numweights 3
	weight 0 0 1 ( 0 0 0 )
	weight 1 0 1 ( 1 0 0 )
	weight 2 0 1 ( 0 1 0 )
}
`

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	meshPath := filepath.Join(dir, "single.md5mesh")
	require.NoError(t, os.WriteFile(meshPath, []byte(singleJointMesh), 0644))

	up := &fakeUploader{}
	m, err := LoadFiles(up, meshPath, "", nil)
	require.NoError(t, err)
	assert.Len(t, m.Meshes, 1)
	assert.Nil(t, m.Animation)
	assert.Equal(t, 3, m.Meshes[0].VertexCount())

	_, err = LoadFiles(up, meshPath, filepath.Join(dir, "missing.md5anim"), nil)
	assert.Error(t, err)
}
