// Package shadow provides the depth framebuffer used for directional
// light shadows.
package shadow

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/internal/logger"
	"go.uber.org/zap"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 1024

// Map is a depth-only framebuffer sampled by the scene program.
type Map struct {
	FBO          uint32 // Framebuffer object
	DepthTexture uint32 // Depth texture for shadow sampling
	resolution   int32  // width = height
}

var _ gfx.DepthTarget = (*Map)(nil)

// NewMap creates a shadow map. A non-positive resolution selects
// DefaultResolution. Requires a current GL context.
func NewMap(resolution int32) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	sm := &Map{resolution: resolution}

	gl.GenFramebuffers(1, &sm.FBO)
	if sm.FBO == 0 {
		return nil, fmt.Errorf("%w: shadow framebuffer", gfx.ErrResourceCreation)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)

	gl.GenTextures(1, &sm.DepthTexture)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTexture)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.DEPTH_COMPONENT24,
		resolution,
		resolution,
		0,
		gl.DEPTH_COMPONENT,
		gl.FLOAT,
		nil,
	)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	// Outside the light volume reads as depth 1 (lit).
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	gl.FramebufferTexture2D(
		gl.FRAMEBUFFER,
		gl.DEPTH_ATTACHMENT,
		gl.TEXTURE_2D,
		sm.DepthTexture,
		0,
	)

	// No color buffer for shadow pass
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		sm.Destroy()
		return nil, fmt.Errorf("%w: shadow framebuffer incomplete (status 0x%x)", gfx.ErrResourceCreation, status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debug("shadow map created", zap.Int32("resolution", resolution))
	return sm, nil
}

// Resolution returns the width and height of the depth texture.
func (sm *Map) Resolution() int32 {
	return sm.resolution
}

// Bind binds the framebuffer for the depth pass and clears it. The
// caller sets the viewport.
func (sm *Map) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	// Front-face culling reduces shadow acne.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

// Unbind restores the default framebuffer.
func (sm *Map) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.CullFace(gl.BACK)
	gl.Disable(gl.CULL_FACE)
}

// BindTexture binds the depth texture to texture unit GL_TEXTURE0+unit.
func (sm *Map) BindTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTexture)
}

// Destroy releases the framebuffer and texture. Safe to call twice.
func (sm *Map) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTexture != 0 {
		gl.DeleteTextures(1, &sm.DepthTexture)
		sm.DepthTexture = 0
	}
}
