// Package transform composes the projection, view and model matrices used
// by the render passes. Every function returns a fresh matrix and leaves its
// inputs untouched.
package transform

import (
	gomath "math"

	"github.com/gjkf/seriousengine/internal/engine/camera"
	"github.com/gjkf/seriousengine/internal/engine/lighting"
	"github.com/gjkf/seriousengine/internal/engine/scene"
	"github.com/gjkf/seriousengine/pkg/math"
)

// Projection returns a perspective projection for a fovDeg vertical field
// of view and the given viewport size.
func Projection(fovDeg float32, width, height int, zNear, zFar float32) math.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return math.Perspective(math.Radians(fovDeg), aspect, zNear, zFar)
}

// Model returns translate * rotate(quat) * scale for an item.
func Model(it *scene.Item) math.Mat4 {
	s := it.Scale
	return math.TranslationRotateScale(it.Position, it.Rotation, math.Vec3{X: s, Y: s, Z: s})
}

// ModelEuler builds a model matrix from Euler angles in degrees, each
// applied negated in X, Y, Z order.
//
// Deprecated: use Model, which rotates by the item quaternion.
func ModelEuler(position, rotationDeg math.Vec3, scale float32) math.Mat4 {
	return math.TranslateVec(position).
		Mul(math.RotateX(math.Radians(-rotationDeg.X))).
		Mul(math.RotateY(math.Radians(-rotationDeg.Y))).
		Mul(math.RotateZ(math.Radians(-rotationDeg.Z))).
		Mul(math.Scale(scale, scale, scale))
}

// ModelView returns view * model.
func ModelView(model, view math.Mat4) math.Mat4 {
	return view.Mul(model)
}

// ModelLightView returns lightView * model.
func ModelLightView(model, lightView math.Mat4) math.Mat4 {
	return lightView.Mul(model)
}

// View returns RotateX(pitch) * RotateY(yaw) * Translate(-position), with
// angles in degrees.
func View(position, rotationDeg math.Vec3) math.Mat4 {
	return math.RotateX(math.Radians(rotationDeg.X)).
		Mul(math.RotateY(math.Radians(rotationDeg.Y))).
		Mul(math.TranslateVec(position.Neg()))
}

// CameraView returns the view matrix of cam.
func CameraView(cam *camera.Camera) math.Mat4 {
	return View(cam.Position, cam.Rotation)
}

// LightAngles returns the pitch and yaw in degrees that point the shadow
// camera along dir.
func LightAngles(dir math.Vec3) math.Vec3 {
	return math.Vec3{
		X: math.Degrees(float32(gomath.Acos(float64(dir.Z)))),
		Y: math.Degrees(float32(gomath.Asin(float64(dir.X)))),
	}
}

// LightView returns the view matrix of the shadow camera of a directional
// light, placed at Direction * ShadowPosMult.
func LightView(l *lighting.DirectionalLight) math.Mat4 {
	return View(l.Direction.Scale(l.ShadowPosMult), LightAngles(l.Direction))
}

// LightOrtho returns the orthographic projection of the light volume.
func LightOrtho(l *lighting.DirectionalLight) math.Mat4 {
	o := l.Ortho
	return Ortho(o.Left, o.Right, o.Bottom, o.Top, o.Near, o.Far)
}

// Ortho returns an orthographic projection.
func Ortho(left, right, bottom, top, zNear, zFar float32) math.Mat4 {
	return math.Ortho(left, right, bottom, top, zNear, zFar)
}

// Ortho2D returns an orthographic projection with a [-1, 1] depth range.
func Ortho2D(left, right, bottom, top float32) math.Mat4 {
	return math.Ortho2D(left, right, bottom, top)
}

// OrthoProjModel returns ortho * Model(it) for HUD items.
func OrthoProjModel(it *scene.Item, ortho math.Mat4) math.Mat4 {
	return ortho.Mul(Model(it))
}

// SkyBoxView returns view with its translation removed so the skybox
// stays centred on the camera.
func SkyBoxView(view math.Mat4) math.Mat4 {
	return view.WithTranslation(math.Vec3{})
}

// Billboard returns a model-view matrix for a camera-facing quad at
// position: the model rotation cancels the view rotation, then the result
// is scaled uniformly.
func Billboard(position math.Vec3, scale float32, view math.Mat4) math.Mat4 {
	model := math.TranslateVec(position).Transpose3x3(view)
	return view.Mul(model).ScaleUniform(scale)
}
