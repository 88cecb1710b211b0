package lighting

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gjkf/seriousengine/pkg/math"
)

const eps = 1e-5

func assertVec(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestPointLightInView(t *testing.T) {
	view := math.Translate(1, 2, 3)
	p := NewPointLight(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 1}, 2)

	got := p.InView(view)
	assertVec(t, math.Vec3{X: 2, Y: 2, Z: 3}, got.Position)
	assertVec(t, math.Vec3{X: 1}, p.Position)
	assert.Equal(t, float32(1), got.Attenuation.Constant)
}

func TestSpotLightInView(t *testing.T) {
	view := math.Translate(0, 0, -5).Mul(math.RotateY(float32(gomath.Pi / 2)))
	s := NewSpotLight(NewPointLight(math.Vec3{}, math.Vec3{}, 1), math.Vec3{X: 1}, 60)

	got := s.InView(view)
	// Direction ignores the translation.
	assertVec(t, math.Vec3{Z: -1}, got.ConeDirection)
	assertVec(t, math.Vec3{Z: -5}, got.Point.Position)
	assert.InDelta(t, 0.5, s.CutOff, eps)
}

func TestDirectionalLightInView(t *testing.T) {
	view := math.Translate(10, 10, 10)
	d := NewDirectionalLight(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{Y: 1}, 1)

	got := d.InView(view)
	assertVec(t, math.Vec3{Y: 1}, got.Direction)
	assert.Equal(t, float32(1), d.ShadowPosMult)
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		angle float32
		want  math.Vec3
	}{
		{0, math.Vec3{Z: 1}},
		{90, math.Vec3{Y: 1}},
		{180, math.Vec3{Z: -1}},
		{-30, math.Vec3{Z: 1}},
		{270, math.Vec3{Z: -1}},
	}
	for _, tt := range tests {
		got := SunDirection(tt.angle)
		assertVec(t, tt.want, got)
		assert.InDelta(t, 1, got.Length(), eps)
	}
}
