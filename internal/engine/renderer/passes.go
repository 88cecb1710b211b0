package renderer

import (
	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/internal/engine/lighting"
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/engine/scene"
	"github.com/gjkf/seriousengine/internal/engine/shader"
	"github.com/gjkf/seriousengine/internal/engine/transform"
	"github.com/gjkf/seriousengine/pkg/math"
)

// renderDepth fills the shadow map from the light. The framebuffer and
// viewport are always restored, even when nothing casts shadows.
func (r *Renderer) renderDepth(win gfx.Window, sc *scene.Scene, f *frame) {
	r.stats.Phases = append(r.stats.Phases, PhaseDepth)

	res := int(r.shadowMap.Resolution())
	r.shadowMap.Bind()
	win.SetViewport(0, 0, res, res)
	defer func() {
		r.shadowMap.Unbind()
		win.SetViewport(0, 0, f.width, f.height)
	}()

	if !f.shadows {
		return
	}

	p := r.depth
	p.Bind()
	defer p.Unbind()

	p.SetMat4("orthoProjectionMatrix", f.lightOrtho)
	p.SetInt("isInstanced", 0)
	for _, g := range sc.Groups() {
		buf := g.Mesh.Buffer()
		buf.Bind()
		r.stats.MeshBinds++
		for _, it := range g.Items {
			p.SetMat4("modelLightViewMatrix", transform.ModelLightView(transform.Model(it), f.lightView))
			r.setJoints(p, it)
			buf.Draw()
			r.stats.DrawCalls++
		}
		buf.Unbind()
	}

	p.SetInt("isInstanced", 1)
	for _, g := range sc.InstancedGroups() {
		buf := g.Mesh.Buffer()
		buf.Bind()
		r.stats.MeshBinds++
		r.drawInstanced(g.Items, buf, g.Mesh.InstanceCapacity(), func(it *scene.Item, dst []float32) {
			model := transform.Model(it)
			fillInstance(dst, transform.ModelView(model, f.view), transform.ModelLightView(model, f.lightView), 0, 0)
		})
		buf.Unbind()
	}
}

// renderScene draws every mesh group with lighting, then the particles.
func (r *Renderer) renderScene(sc *scene.Scene, f *frame) {
	r.stats.Phases = append(r.stats.Phases, PhaseColor)

	p := r.scene
	p.Bind()

	p.SetMat4("projectionMatrix", f.projection)
	p.SetMat4("orthoProjectionMatrix", f.lightOrtho)
	r.setLights(p, sc.SceneLight(), f.view)
	shader.SetFog(p, "fog", sc.Fog())
	p.SetFloat("specularPower", r.cfg.SpecularPower)
	p.SetInt("texture_sampler", unitTexture)
	p.SetInt("normalMap", unitNormalMap)
	p.SetInt("shadowMap", unitShadowMap)
	r.shadowMap.BindTexture(unitShadowMap)

	p.SetInt("isInstanced", 0)
	for _, g := range sc.Groups() {
		buf := r.bindMesh(p, g.Mesh)
		for _, it := range g.Items {
			model := transform.Model(it)
			p.SetMat4("modelViewMatrix", transform.ModelView(model, f.view))
			p.SetMat4("modelLightViewMatrix", transform.ModelLightView(model, f.lightView))
			r.setJoints(p, it)
			buf.Draw()
			r.stats.DrawCalls++
		}
		r.unbindMesh(buf)
	}

	p.SetInt("isInstanced", 1)
	for _, g := range sc.InstancedGroups() {
		buf := r.bindMesh(p, g.Mesh)
		tex := g.Mesh.Material.Texture
		r.drawInstanced(g.Items, buf, g.Mesh.InstanceCapacity(), func(it *scene.Item, dst []float32) {
			model := transform.Model(it)
			x, y := atlasOffset(tex, it.TextPos)
			fillInstance(dst, transform.ModelView(model, f.view), transform.ModelLightView(model, f.lightView), x, y)
		})
		r.unbindMesh(buf)
	}
	p.Unbind()

	r.renderParticles(sc, f)
}

// renderParticles draws emitter particles as additive billboards without
// writing depth.
func (r *Renderer) renderParticles(sc *scene.Scene, f *frame) {
	emitters := sc.ParticleEmitters()
	if len(emitters) == 0 {
		return
	}

	p := r.particles
	p.Bind()
	p.SetMat4("projectionMatrix", f.projection)
	p.SetInt("texture_sampler", unitTexture)

	r.dev.SetDepthMask(false)
	r.dev.SetBlending(gfx.BlendAdditive)

	for _, e := range emitters {
		base := e.Base()
		m := base.Mesh()
		if m == nil || !m.Instanced() {
			continue
		}
		tex := m.Material.Texture
		p.SetInt("numCols", int32(atlasCols(tex)))
		p.SetInt("numRows", int32(atlasRows(tex)))
		r.bindTextures(m.Material)

		buf := m.Buffer()
		buf.Bind()
		r.stats.MeshBinds++
		r.drawInstanced(e.Particles(), buf, m.InstanceCapacity(), func(it *scene.Item, dst []float32) {
			x, y := atlasOffset(tex, it.TextPos)
			fillInstance(dst, transform.Billboard(it.Position, it.Scale, f.view), math.Identity(), x, y)
		})
		buf.Unbind()
	}

	r.dev.SetBlending(gfx.BlendAlpha)
	r.dev.SetDepthMask(true)
	p.Unbind()
}

// renderSkyBox draws the skybox around the camera lit by the skybox light.
func (r *Renderer) renderSkyBox(sc *scene.Scene, f *frame) {
	r.stats.Phases = append(r.stats.Phases, PhaseSkyBox)

	sb := sc.SkyBox()
	if sb == nil || sb.Mesh() == nil {
		return
	}
	m := sb.Mesh()

	p := r.skyBox
	p.Bind()
	defer p.Unbind()

	var ambient math.Vec3
	if light := sc.SceneLight(); light != nil {
		ambient = light.SkyBox
	}

	p.SetInt("texture_sampler", unitTexture)
	p.SetMat4("projectionMatrix", f.projection)
	p.SetMat4("modelViewMatrix", transform.ModelView(transform.Model(&sb.Item), transform.SkyBoxView(f.view)))
	p.SetVec3("ambientLight", ambient)
	shader.SetColour(p, "colour", m.Material.Colour, 1)
	p.SetInt("hasTexture", boolInt(m.Material.IsTextured()))

	r.bindTextures(m.Material)
	buf := m.Buffer()
	buf.Bind()
	r.stats.MeshBinds++
	buf.Draw()
	r.stats.DrawCalls++
	buf.Unbind()
}

// renderHud draws HUD items with a pixel-space orthographic projection,
// origin top-left.
func (r *Renderer) renderHud(hud scene.Hud, f *frame) {
	r.stats.Phases = append(r.stats.Phases, PhaseHud)
	if hud == nil {
		return
	}
	items := hud.Items()
	if len(items) == 0 {
		return
	}

	ortho := transform.Ortho2D(0, float32(f.width), float32(f.height), 0)

	p := r.hud
	p.Bind()
	defer p.Unbind()

	p.SetInt("texture_sampler", unitTexture)
	for _, it := range items {
		for _, m := range it.Meshes {
			p.SetMat4("projModelMatrix", transform.OrthoProjModel(it, ortho))
			shader.SetColour(p, "colour", m.Material.Colour, 1)
			p.SetInt("hasTexture", boolInt(m.Material.IsTextured()))

			r.bindTextures(m.Material)
			buf := m.Buffer()
			buf.Bind()
			r.stats.MeshBinds++
			buf.Draw()
			r.stats.DrawCalls++
			buf.Unbind()
		}
	}
}

// setLights uploads view-space copies of the scene lights.
func (r *Renderer) setLights(p gfx.Program, light *lighting.SceneLight, view math.Mat4) {
	if light == nil {
		light = &lighting.SceneLight{}
	}
	p.SetVec3("ambientLight", light.Ambient)

	points := make([]lighting.PointLight, 0, len(light.Points))
	for _, l := range light.Points {
		points = append(points, l.InView(view))
	}
	shader.SetPointLights(p, "pointLights", lighting.MaxPointLights, points)

	spots := make([]lighting.SpotLight, 0, len(light.Spots))
	for _, l := range light.Spots {
		spots = append(spots, l.InView(view))
	}
	shader.SetSpotLights(p, "spotLights", lighting.MaxSpotLights, spots)

	if light.Directional != nil {
		d := light.Directional.InView(view)
		shader.SetDirectionalLight(p, "directionalLight", &d)
	} else {
		shader.SetDirectionalLight(p, "directionalLight", nil)
	}
}

// bindMesh sets the material and atlas uniforms, binds the textures and
// the vertex array of m once for all items drawing it.
func (r *Renderer) bindMesh(p gfx.Program, m *mesh.Mesh) mesh.Buffer {
	shader.SetMaterial(p, "material", m.Material)
	tex := m.Material.Texture
	p.SetInt("numCols", int32(atlasCols(tex)))
	p.SetInt("numRows", int32(atlasRows(tex)))
	r.bindTextures(m.Material)

	buf := m.Buffer()
	buf.Bind()
	r.stats.MeshBinds++
	return buf
}

func (r *Renderer) unbindMesh(buf mesh.Buffer) {
	buf.Unbind()
	r.dev.BindTexture(unitTexture, 0)
	r.dev.BindTexture(unitNormalMap, 0)
}

func (r *Renderer) bindTextures(m *mesh.Material) {
	if m.IsTextured() {
		r.dev.BindTexture(unitTexture, m.Texture.ID)
	}
	if m.HasNormalMap() {
		r.dev.BindTexture(unitNormalMap, m.NormalMap.ID)
	}
}

// fillInstance writes one instance record: model-view, model-light-view,
// then the atlas offset.
func fillInstance(dst []float32, modelView, modelLightView math.Mat4, x, y float32) {
	copy(dst[0:16], modelView[:])
	copy(dst[16:32], modelLightView[:])
	dst[32] = x
	dst[33] = y
}
