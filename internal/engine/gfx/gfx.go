// Package gfx declares the graphics services the renderer drives. The
// OpenGL implementation lives in package glbackend.
package gfx

import (
	"errors"
	"fmt"

	"github.com/gjkf/seriousengine/pkg/math"
)

// ErrResourceCreation is returned when a GPU object cannot be created:
// zero handles, compile or link failures, missing uniform locations and
// incomplete framebuffers.
var ErrResourceCreation = errors.New("graphics resource creation failed")

// MissingUniformError is the panic value raised when a program sets a
// uniform that was never created.
type MissingUniformError struct {
	Program string
	Name    string
}

func (e *MissingUniformError) Error() string {
	return fmt.Sprintf("uniform %q not declared in program %q", e.Name, e.Program)
}

// Program is a linked shader program with named uniforms. Setters panic
// with *MissingUniformError for names not passed to CreateUniform.
type Program interface {
	Name() string
	Bind()
	Unbind()
	CreateUniform(name string) error
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec2(name string, x, y float32)
	SetVec3(name string, v math.Vec3)
	SetVec4(name string, v math.Vec4)
	SetMat4(name string, m math.Mat4)
	SetMat4Array(name string, m []math.Mat4)
	Destroy()
}

// DepthTarget is an offscreen depth-only framebuffer.
type DepthTarget interface {
	// Bind makes the target current and clears its depth.
	Bind()
	// Unbind restores the default framebuffer.
	Unbind()
	Resolution() int32
	// BindTexture binds the depth texture to a texture unit.
	BindTexture(unit uint32)
	Destroy()
}

// BlendMode selects how fragments combine with the framebuffer.
type BlendMode int

// Blend modes.
const (
	BlendNone BlendMode = iota
	BlendAlpha
	BlendAdditive
)

// Device creates GPU objects and sets global pipeline state.
type Device interface {
	NewProgram(name, vertexSrc, fragmentSrc string) (Program, error)
	NewDepthTarget(resolution int32) (DepthTarget, error)
	// Clear clears the colour and depth buffers of the bound framebuffer.
	Clear()
	// BindTexture binds texture id to a texture unit; id 0 unbinds.
	BindTexture(unit uint32, id uint32)
	SetBlending(mode BlendMode)
	SetDepthMask(write bool)
}

// Window is the drawable surface.
type Window interface {
	Width() int
	Height() int
	SetViewport(x, y, width, height int)
}
