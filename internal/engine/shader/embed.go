package shader

import _ "embed"

// Program names used in logs and uniform errors.
const (
	DepthProgram     = "depth"
	SceneProgram     = "scene"
	ParticlesProgram = "particles"
	SkyBoxProgram    = "skybox"
	HudProgram       = "hud"
)

// DepthVertexShader renders scene depth from the light for the shadow map.
//
//go:embed glsl/depth.vert
var DepthVertexShader string

// DepthFragmentShader is the fragment stage of the depth program.
//
//go:embed glsl/depth.frag
var DepthFragmentShader string

// SceneVertexShader skins and transforms scene meshes.
//
//go:embed glsl/scene.vert
var SceneVertexShader string

// SceneFragmentShader applies materials, lights, shadows and fog.
//
//go:embed glsl/scene.frag
var SceneFragmentShader string

// ParticlesVertexShader draws instanced billboards with atlas offsets.
//
//go:embed glsl/particles.vert
var ParticlesVertexShader string

// ParticlesFragmentShader is the fragment stage of the particle program.
//
//go:embed glsl/particles.frag
var ParticlesFragmentShader string

// SkyBoxVertexShader is the vertex shader for the skybox.
//
//go:embed glsl/skybox.vert
var SkyBoxVertexShader string

// SkyBoxFragmentShader is the fragment shader for the skybox.
//
//go:embed glsl/skybox.frag
var SkyBoxFragmentShader string

// HudVertexShader is the vertex shader for orthographic HUD items.
//
//go:embed glsl/hud.vert
var HudVertexShader string

// HudFragmentShader is the fragment shader for HUD items.
//
//go:embed glsl/hud.frag
var HudFragmentShader string

// Source is a vertex and fragment shader pair.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
}

// Sources returns the engine's programs in creation order.
func Sources() []Source {
	return []Source{
		{Name: DepthProgram, Vertex: DepthVertexShader, Fragment: DepthFragmentShader},
		{Name: SceneProgram, Vertex: SceneVertexShader, Fragment: SceneFragmentShader},
		{Name: ParticlesProgram, Vertex: ParticlesVertexShader, Fragment: ParticlesFragmentShader},
		{Name: SkyBoxProgram, Vertex: SkyBoxVertexShader, Fragment: SkyBoxFragmentShader},
		{Name: HudProgram, Vertex: HudVertexShader, Fragment: HudFragmentShader},
	}
}
