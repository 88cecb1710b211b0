package shader

import (
	"errors"
	"fmt"

	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/internal/engine/lighting"
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/engine/scene"
	"github.com/gjkf/seriousengine/pkg/math"
)

func createAll(p gfx.Program, names ...string) error {
	var errs []error
	for _, n := range names {
		errs = append(errs, p.CreateUniform(n))
	}
	return errors.Join(errs...)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func element(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}

// CreateMaterialUniform declares the fields of a Material struct uniform.
func CreateMaterialUniform(p gfx.Program, name string) error {
	return createAll(p,
		name+".colour",
		name+".hasTexture",
		name+".hasNormalMap",
		name+".reflectance")
}

// SetMaterial uploads m.
func SetMaterial(p gfx.Program, name string, m *mesh.Material) {
	colour := mesh.DefaultColour
	var reflectance float32
	if m != nil {
		colour = m.Colour
		reflectance = m.Reflectance
	}
	p.SetVec4(name+".colour", colour.Vec4(1))
	p.SetInt(name+".hasTexture", boolInt(m.IsTextured()))
	p.SetInt(name+".hasNormalMap", boolInt(m.HasNormalMap()))
	p.SetFloat(name+".reflectance", reflectance)
}

// CreatePointLightUniform declares the fields of a PointLight struct uniform.
func CreatePointLightUniform(p gfx.Program, name string) error {
	return createAll(p,
		name+".colour",
		name+".position",
		name+".intensity",
		name+".att.constant",
		name+".att.linear",
		name+".att.exponent")
}

// CreatePointLightListUniform declares n point light array elements.
func CreatePointLightListUniform(p gfx.Program, name string, n int) error {
	var errs []error
	for i := 0; i < n; i++ {
		errs = append(errs, CreatePointLightUniform(p, element(name, i)))
	}
	return errors.Join(errs...)
}

// SetPointLight uploads l. The position must already be in view space.
func SetPointLight(p gfx.Program, name string, l lighting.PointLight) {
	p.SetVec3(name+".colour", l.Colour)
	p.SetVec3(name+".position", l.Position)
	p.SetFloat(name+".intensity", l.Intensity)
	p.SetFloat(name+".att.constant", l.Attenuation.Constant)
	p.SetFloat(name+".att.linear", l.Attenuation.Linear)
	p.SetFloat(name+".att.exponent", l.Attenuation.Exponent)
}

// SetPointLights uploads up to n lights and zeroes the remaining slots so
// stale lights from a previous frame do not contribute.
func SetPointLights(p gfx.Program, name string, n int, lights []lighting.PointLight) {
	for i := 0; i < n; i++ {
		var l lighting.PointLight
		if i < len(lights) {
			l = lights[i]
		}
		SetPointLight(p, element(name, i), l)
	}
}

// CreateSpotLightUniform declares the fields of a SpotLight struct uniform.
func CreateSpotLightUniform(p gfx.Program, name string) error {
	return errors.Join(
		CreatePointLightUniform(p, name+".pl"),
		createAll(p, name+".conedir", name+".cutoff"),
	)
}

// CreateSpotLightListUniform declares n spot light array elements.
func CreateSpotLightListUniform(p gfx.Program, name string, n int) error {
	var errs []error
	for i := 0; i < n; i++ {
		errs = append(errs, CreateSpotLightUniform(p, element(name, i)))
	}
	return errors.Join(errs...)
}

// SetSpotLight uploads l. Position and cone direction must be in view space.
func SetSpotLight(p gfx.Program, name string, l lighting.SpotLight) {
	SetPointLight(p, name+".pl", l.Point)
	p.SetVec3(name+".conedir", l.ConeDirection)
	p.SetFloat(name+".cutoff", l.CutOff)
}

// SetSpotLights uploads up to n lights and zeroes the remaining slots.
func SetSpotLights(p gfx.Program, name string, n int, lights []lighting.SpotLight) {
	for i := 0; i < n; i++ {
		var l lighting.SpotLight
		if i < len(lights) {
			l = lights[i]
		}
		SetSpotLight(p, element(name, i), l)
	}
}

// CreateDirectionalLightUniform declares a DirectionalLight struct uniform.
func CreateDirectionalLightUniform(p gfx.Program, name string) error {
	return createAll(p, name+".colour", name+".direction", name+".intensity")
}

// SetDirectionalLight uploads l, or a zero-intensity light when l is nil.
func SetDirectionalLight(p gfx.Program, name string, l *lighting.DirectionalLight) {
	if l == nil {
		l = &lighting.DirectionalLight{}
	}
	p.SetVec3(name+".colour", l.Colour)
	p.SetVec3(name+".direction", l.Direction)
	p.SetFloat(name+".intensity", l.Intensity)
}

// CreateFogUniform declares a Fog struct uniform.
func CreateFogUniform(p gfx.Program, name string) error {
	return createAll(p, name+".activeFog", name+".colour", name+".density")
}

// SetFog uploads f.
func SetFog(p gfx.Program, name string, f scene.Fog) {
	p.SetInt(name+".activeFog", boolInt(f.Active))
	p.SetVec3(name+".colour", f.Colour)
	p.SetFloat(name+".density", f.Density)
}

// SetColour uploads an RGBA colour.
func SetColour(p gfx.Program, name string, c math.Vec3, alpha float32) {
	p.SetVec4(name, c.Vec4(alpha))
}
