// Package lighting defines the scene light sources.
package lighting

import (
	gomath "math"

	"github.com/gjkf/seriousengine/pkg/math"
)

// Shader array sizes for point and spot lights.
const (
	MaxPointLights = 5
	MaxSpotLights  = 5
)

// Attenuation is the distance falloff constant + linear*d + exponent*d².
type Attenuation struct {
	Constant float32
	Linear   float32
	Exponent float32
}

// PointLight emits in all directions from Position.
type PointLight struct {
	Colour      math.Vec3
	Position    math.Vec3
	Intensity   float32
	Attenuation Attenuation
}

// NewPointLight returns a point light with no distance falloff.
func NewPointLight(colour, position math.Vec3, intensity float32) PointLight {
	return PointLight{
		Colour:      colour,
		Position:    position,
		Intensity:   intensity,
		Attenuation: Attenuation{Constant: 1},
	}
}

// InView returns a copy with the position transformed by view (w=1).
func (p PointLight) InView(view math.Mat4) PointLight {
	p.Position = math.Vec3From(view.MulVec4(p.Position.Vec4(1)))
	return p
}

// SpotLight is a point light restricted to a cone.
type SpotLight struct {
	Point         PointLight
	ConeDirection math.Vec3
	// CutOff is the cosine of the cone half angle.
	CutOff float32
}

// NewSpotLight builds a spot light from a cone half angle in degrees.
func NewSpotLight(point PointLight, coneDir math.Vec3, cutOffAngle float32) SpotLight {
	s := SpotLight{Point: point, ConeDirection: coneDir}
	s.SetCutOffAngle(cutOffAngle)
	return s
}

// SetCutOffAngle sets CutOff from an angle in degrees.
func (s *SpotLight) SetCutOffAngle(deg float32) {
	s.CutOff = float32(gomath.Cos(float64(math.Radians(deg))))
}

// InView returns a copy with the position (w=1) and cone direction (w=0)
// transformed by view.
func (s SpotLight) InView(view math.Mat4) SpotLight {
	s.Point = s.Point.InView(view)
	s.ConeDirection = math.Vec3From(view.MulVec4(s.ConeDirection.Vec4(0)))
	return s
}

// OrthoCoords is the light-space orthographic volume used for shadows.
type OrthoCoords struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// DirectionalLight is an infinitely distant light such as the sun.
type DirectionalLight struct {
	Colour    math.Vec3
	Direction math.Vec3
	Intensity float32
	// ShadowPosMult places the shadow camera at Direction*ShadowPosMult.
	ShadowPosMult float32
	Ortho         OrthoCoords
}

// NewDirectionalLight returns a directional light with ShadowPosMult 1.
func NewDirectionalLight(colour, direction math.Vec3, intensity float32) *DirectionalLight {
	return &DirectionalLight{
		Colour:        colour,
		Direction:     direction,
		Intensity:     intensity,
		ShadowPosMult: 1,
	}
}

// InView returns a copy with the direction transformed by view (w=0).
func (d DirectionalLight) InView(view math.Mat4) DirectionalLight {
	d.Direction = math.Vec3From(view.MulVec4(d.Direction.Vec4(0)))
	return d
}

// SceneLight groups every light of a scene.
type SceneLight struct {
	Ambient     math.Vec3
	SkyBox      math.Vec3
	Points      []PointLight
	Spots       []SpotLight
	Directional *DirectionalLight
}
