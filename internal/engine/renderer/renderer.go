// Package renderer draws a scene in four phases: shadow depth, colour,
// skybox and HUD.
package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/engine/camera"
	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/engine/model"
	"github.com/gjkf/seriousengine/internal/engine/scene"
	"github.com/gjkf/seriousengine/internal/engine/shader"
	"github.com/gjkf/seriousengine/internal/engine/shadow"
	"github.com/gjkf/seriousengine/internal/engine/transform"
	"github.com/gjkf/seriousengine/internal/logger"
	"github.com/gjkf/seriousengine/pkg/math"
)

// Texture units shared by the scene program.
const (
	unitTexture   = 0
	unitNormalMap = 1
	unitShadowMap = 2
)

// Config holds renderer configuration.
type Config struct {
	FOV              float32 // vertical field of view, degrees
	ZNear            float32
	ZFar             float32
	SpecularPower    float32
	ShadowResolution int32
}

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return Config{
		FOV:              60,
		ZNear:            0.01,
		ZFar:             1000,
		SpecularPower:    10,
		ShadowResolution: shadow.DefaultResolution,
	}
}

// Phase is a step of a rendered frame.
type Phase int

// Frame phases, in execution order.
const (
	PhaseDepth Phase = iota
	PhaseColor
	PhaseSkyBox
	PhaseHud
)

func (p Phase) String() string {
	switch p {
	case PhaseDepth:
		return "depth"
	case PhaseColor:
		return "color"
	case PhaseSkyBox:
		return "skybox"
	case PhaseHud:
		return "hud"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Stats counts the work done by the last Render call.
type Stats struct {
	Phases             []Phase
	DrawCalls          int
	InstancedDrawCalls int
	MeshBinds          int
}

// Renderer owns the shader programs and the shadow map.
type Renderer struct {
	cfg Config
	dev gfx.Device

	depth     gfx.Program
	scene     gfx.Program
	particles gfx.Program
	skyBox    gfx.Program
	hud       gfx.Program
	shadowMap gfx.DepthTarget

	stats        Stats
	instanceData []float32
	jointsDirty  map[gfx.Program]bool
	identity     []math.Mat4
}

// New compiles the programs, declares their uniforms and creates the
// shadow map. Zero config fields take their DefaultConfig value.
func New(dev gfx.Device, cfg Config) (*Renderer, error) {
	cfg = withDefaults(cfg)
	r := &Renderer{
		cfg:         cfg,
		dev:         dev,
		jointsDirty: make(map[gfx.Program]bool),
		identity:    identityJoints(),
	}

	setups := map[string]func(gfx.Program) error{
		shader.DepthProgram:     setupDepthUniforms,
		shader.SceneProgram:     setupSceneUniforms,
		shader.ParticlesProgram: setupParticlesUniforms,
		shader.SkyBoxProgram:    setupSkyBoxUniforms,
		shader.HudProgram:       setupHudUniforms,
	}
	targets := map[string]*gfx.Program{
		shader.DepthProgram:     &r.depth,
		shader.SceneProgram:     &r.scene,
		shader.ParticlesProgram: &r.particles,
		shader.SkyBoxProgram:    &r.skyBox,
		shader.HudProgram:       &r.hud,
	}

	for _, src := range shader.Sources() {
		p, err := dev.NewProgram(src.Name, src.Vertex, src.Fragment)
		if err != nil {
			r.Destroy()
			return nil, fmt.Errorf("creating %s program: %w", src.Name, err)
		}
		*targets[src.Name] = p
		if err := setups[src.Name](p); err != nil {
			r.Destroy()
			return nil, fmt.Errorf("declaring %s uniforms: %w", src.Name, err)
		}
	}

	sm, err := dev.NewDepthTarget(cfg.ShadowResolution)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("creating shadow map: %w", err)
	}
	r.shadowMap = sm

	logger.Info("renderer initialized",
		zap.Float32("fov", cfg.FOV),
		zap.Int32("shadowResolution", sm.Resolution()),
	)
	return r, nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.FOV <= 0 {
		cfg.FOV = def.FOV
	}
	if cfg.ZNear <= 0 {
		cfg.ZNear = def.ZNear
	}
	if cfg.ZFar <= cfg.ZNear {
		cfg.ZFar = def.ZFar
	}
	if cfg.SpecularPower <= 0 {
		cfg.SpecularPower = def.SpecularPower
	}
	if cfg.ShadowResolution <= 0 {
		cfg.ShadowResolution = def.ShadowResolution
	}
	return cfg
}

func identityJoints() []math.Mat4 {
	m := make([]math.Mat4, model.MaxJoints)
	for i := range m {
		m[i] = math.Identity()
	}
	return m
}

// Config returns the active configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Stats returns the counters of the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// frame holds the matrices computed once per Render call.
type frame struct {
	width, height int
	projection    math.Mat4
	view          math.Mat4
	lightView     math.Mat4
	lightOrtho    math.Mat4
	shadows       bool
}

// Render draws one frame. cam and sc are required; hud may be nil.
func (r *Renderer) Render(win gfx.Window, cam *camera.Camera, sc *scene.Scene, hud scene.Hud) {
	r.stats = Stats{}

	f := frame{
		width:      win.Width(),
		height:     win.Height(),
		lightView:  math.Identity(),
		lightOrtho: math.Identity(),
	}
	f.projection = transform.Projection(r.cfg.FOV, f.width, f.height, r.cfg.ZNear, r.cfg.ZFar)
	f.view = transform.CameraView(cam)
	if light := sc.SceneLight(); light != nil && light.Directional != nil {
		f.lightView = transform.LightView(light.Directional)
		f.lightOrtho = transform.LightOrtho(light.Directional)
		f.shadows = sc.RenderShadows
	}

	r.dev.Clear()
	r.renderDepth(win, sc, &f)
	r.renderScene(sc, &f)
	r.renderSkyBox(sc, &f)
	r.renderHud(hud, &f)
}

// Destroy releases the shadow map and the programs.
func (r *Renderer) Destroy() {
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
		r.shadowMap = nil
	}
	for _, p := range []*gfx.Program{&r.depth, &r.scene, &r.particles, &r.skyBox, &r.hud} {
		if *p != nil {
			(*p).Destroy()
			*p = nil
		}
	}
}

// setJoints uploads the skinning matrices of animated items. Static items
// reset the array to identity once after an animated item was drawn.
func (r *Renderer) setJoints(p gfx.Program, it *scene.Item) {
	if it.Animated() {
		p.SetMat4Array("jointsMatrix", it.Animation.CurrentFrame().SkinMatrices())
		r.jointsDirty[p] = true
		return
	}
	if r.jointsDirty[p] {
		p.SetMat4Array("jointsMatrix", r.identity)
		r.jointsDirty[p] = false
	}
}

// drawInstanced draws a group in chunks of the mesh instance capacity,
// filling one record per item with fill.
func (r *Renderer) drawInstanced(items []*scene.Item, buf mesh.Buffer, capacity int, fill func(it *scene.Item, dst []float32)) {
	if capacity < 1 || len(items) == 0 {
		return
	}
	for start := 0; start < len(items); start += capacity {
		end := start + capacity
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]
		data := r.instanceBuffer(len(chunk))
		for i, it := range chunk {
			fill(it, data[i*mesh.InstanceFloats:(i+1)*mesh.InstanceFloats])
		}
		buf.DrawInstanced(data, len(chunk))
		r.stats.InstancedDrawCalls++
	}
}

func (r *Renderer) instanceBuffer(n int) []float32 {
	size := n * mesh.InstanceFloats
	if cap(r.instanceData) < size {
		r.instanceData = make([]float32, size)
	}
	return r.instanceData[:size]
}
