// Package glbackend implements the gfx, mesh and texture services on
// OpenGL 4.1 core.
package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/engine/shadow"
	"github.com/gjkf/seriousengine/internal/engine/texture"
	"github.com/gjkf/seriousengine/internal/logger"
)

// Device is the OpenGL device. All methods must be called on the thread
// owning the GL context.
type Device struct {
	anisotropy float32
}

var (
	_ gfx.Device       = (*Device)(nil)
	_ mesh.Uploader    = (*Device)(nil)
	_ texture.Uploader = (*Device)(nil)
)

// Options tunes texture sampling.
type Options struct {
	// Anisotropy is the max anisotropic filtering level, 0 disables it.
	Anisotropy float32
}

// New loads the GL function pointers and sets the default pipeline state.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(opts Options) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.ClearColor(0, 0, 0, 0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &Device{anisotropy: opts.Anisotropy}, nil
}

// NewProgram compiles and links a shader program.
func (d *Device) NewProgram(name, vertexSrc, fragmentSrc string) (gfx.Program, error) {
	return newProgram(name, vertexSrc, fragmentSrc)
}

// NewDepthTarget creates a shadow map framebuffer.
func (d *Device) NewDepthTarget(resolution int32) (gfx.DepthTarget, error) {
	return shadow.NewMap(resolution)
}

// Clear clears colour, depth and stencil of the bound framebuffer.
func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

// BindTexture binds a 2D texture to GL_TEXTURE0+unit.
func (d *Device) BindTexture(unit uint32, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, id)
}

// SetBlending selects the blend equation.
func (d *Device) SetBlending(mode gfx.BlendMode) {
	switch mode {
	case gfx.BlendNone:
		gl.Disable(gl.BLEND)
	case gfx.BlendAdditive:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	default:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}

// SetDepthMask enables or disables depth writes.
func (d *Device) SetDepthMask(write bool) {
	gl.DepthMask(write)
}

// ReadPixels reads the default framebuffer as tightly packed RGBA rows,
// bottom row first.
func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
