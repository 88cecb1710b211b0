package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/gjkf/seriousengine/internal/engine/camera"
	"github.com/gjkf/seriousengine/internal/engine/input"
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/pkg/math"
)

type nopBuffer struct{ deleted int }

func (b *nopBuffer) Bind()                        {}
func (b *nopBuffer) Unbind()                      {}
func (b *nopBuffer) Draw()                        {}
func (b *nopBuffer) DrawInstanced([]float32, int) {}
func (b *nopBuffer) Delete()                      { b.deleted++ }

type nopUploader struct{ buffers []*nopBuffer }

func (u *nopUploader) UploadMesh(*mesh.Data, int) (mesh.Buffer, error) {
	b := &nopBuffer{}
	u.buffers = append(u.buffers, b)
	return b, nil
}

type flatGround float32

func (g flatGround) Height(math.Vec3) float32 { return float32(g) }

func TestQuadData(t *testing.T) {
	d := quadData()
	require.NoError(t, d.Validate())
	assert.Equal(t, 4, d.VertexCount())
	assert.Len(t, d.Indices, 6)
}

func TestCubeData(t *testing.T) {
	d := cubeData()
	require.NoError(t, d.Validate())
	assert.Equal(t, 24, d.VertexCount())
	assert.Len(t, d.Indices, 36)

	for f, face := range cubeFaces {
		n := math.Vec3{X: face[0][0], Y: face[0][1], Z: face[0][2]}
		for c := 0; c < 4; c++ {
			p := d.Position(f*4 + c)
			// Every vertex lies on its face plane at half a unit.
			if got := p.Dot(n); got != 0.5 {
				t.Errorf("face %d corner %d: plane distance = %v, want 0.5", f, c, got)
			}
			for _, v := range []float32{p.X, p.Y, p.Z} {
				if v != 0.5 && v != -0.5 {
					t.Errorf("face %d corner %d: coordinate %v off the unit cube", f, c, v)
				}
			}
		}
	}
}

func TestMovementInput(t *testing.T) {
	tests := []struct {
		name string
		keys []sdl.Scancode
		want math.Vec3
	}{
		{"idle", nil, math.Vec3{}},
		{"forward", []sdl.Scancode{sdl.SCANCODE_W}, math.Vec3{Z: -1}},
		{"back and left", []sdl.Scancode{sdl.SCANCODE_S, sdl.SCANCODE_A}, math.Vec3{X: -1, Z: 1}},
		{"forward wins over back", []sdl.Scancode{sdl.SCANCODE_W, sdl.SCANCODE_S}, math.Vec3{Z: -1}},
		{"up", []sdl.Scancode{sdl.SCANCODE_E}, math.Vec3{Y: 1}},
		{"down right", []sdl.Scancode{sdl.SCANCODE_Q, sdl.SCANCODE_D}, math.Vec3{X: 1, Y: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input.New()
			for _, k := range tt.keys {
				in.Push(input.Event{Type: input.EventKeyDown, Key: k})
			}
			if got := movementInput(in); got != tt.want {
				t.Errorf("movementInput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoveCamera(t *testing.T) {
	tests := []struct {
		name   string
		start  math.Vec3
		step   math.Vec3
		ground float32
		want   math.Vec3
	}{
		{"free move", math.Vec3{Y: 2}, math.Vec3{Z: -0.1}, 0, math.Vec3{Y: 2, Z: -0.1}},
		{"blocked by ground", math.Vec3{Y: 0.05}, math.Vec3{Y: -0.1}, 0, math.Vec3{Y: 0.05}},
		{"below ground reverts", math.Vec3{Y: 1.05}, math.Vec3{Y: -0.1}, 1, math.Vec3{Y: 1.05}},
		{"no ground below", math.Vec3{Y: 0}, math.Vec3{Y: -1}, -3.4028235e38, math.Vec3{Y: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := camera.New()
			cam.Position = tt.start
			moveCamera(cam, tt.step, flatGround(tt.ground))
			assert.InDelta(t, tt.want.X, cam.Position.X, 1e-5)
			assert.InDelta(t, tt.want.Y, cam.Position.Y, 1e-5)
			assert.InDelta(t, tt.want.Z, cam.Position.Z, 1e-5)
		})
	}
}

func TestHudLayout(t *testing.T) {
	up := &nopUploader{}
	h, err := newHud(up)
	require.NoError(t, err)
	require.Len(t, h.Items(), 2)

	h.updateSize(800, 600)
	assert.Equal(t, math.Vec3{X: 400, Y: 300}, h.crosshair.Position)
	assert.Equal(t, math.Vec3{X: 800 - 16 - 24, Y: 16 + 24}, h.compass.Position)
	assert.Equal(t, float32(crosshairSize), h.crosshair.Scale)

	h.Destroy()
	for _, b := range up.buffers {
		assert.Equal(t, 1, b.deleted)
	}
}
