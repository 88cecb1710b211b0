package main

import (
	"fmt"
	"path"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/assets"
	"github.com/gjkf/seriousengine/internal/config"
	"github.com/gjkf/seriousengine/internal/engine/camera"
	"github.com/gjkf/seriousengine/internal/engine/debug"
	"github.com/gjkf/seriousengine/internal/engine/glbackend"
	"github.com/gjkf/seriousengine/internal/engine/input"
	"github.com/gjkf/seriousengine/internal/engine/lighting"
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/engine/model"
	"github.com/gjkf/seriousengine/internal/engine/renderer"
	"github.com/gjkf/seriousengine/internal/engine/scene"
	"github.com/gjkf/seriousengine/internal/engine/terrain"
	"github.com/gjkf/seriousengine/internal/engine/texture"
	"github.com/gjkf/seriousengine/internal/engine/window"
	"github.com/gjkf/seriousengine/internal/logger"
	"github.com/gjkf/seriousengine/pkg/formats"
	"github.com/gjkf/seriousengine/pkg/math"
)

const (
	mouseSensitivity = 0.2
	cameraPosStep    = 0.1
	sunAngleStep     = 0.05

	terrainBlocks  = 3
	terrainScale   = 10
	terrainMinY    = -0.1
	terrainMaxY    = 0.1
	terrainTextInc = 40

	skyBoxScale   = 50
	maxParticles  = 200
	particleEvery = 300 * time.Millisecond
)

// heightSampler reports the ground height under a point.
type heightSampler interface {
	Height(pos math.Vec3) float32
}

// demo is the Logic of the sample scene.
type demo struct {
	cfg    *config.Config
	win    *window.Window
	dev    *glbackend.Device
	assets *assets.Manager
	shots  *debug.ScreenshotCapture
	stop   func()

	renderer *renderer.Renderer
	camera   *camera.Camera
	scene    *scene.Scene
	hud      *hud
	terrain  *terrain.Terrain
	monster  *scene.Item
	emitter  *scene.FlowEmitter

	cameraInc  math.Vec3
	angleInc   float32
	lightAngle float32
	stepFrame  bool
	screenshot bool
}

func newDemo(cfg *config.Config, win *window.Window, dev *glbackend.Device) *demo {
	return &demo{
		cfg:        cfg,
		win:        win,
		dev:        dev,
		assets:     assets.NewManager(),
		shots:      debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "demo"),
		camera:     camera.New(),
		lightAngle: 45,
	}
}

func (d *demo) Init() (err error) {
	defer func() {
		if err != nil {
			d.Cleanup()
		}
	}()

	for _, root := range d.cfg.Assets.Roots {
		if err := d.assets.AddDir(root); err != nil {
			return err
		}
	}

	r, err := renderer.New(d.dev, renderer.Config{
		FOV:              d.cfg.Render.FOV,
		ZNear:            d.cfg.Render.ZNear,
		ZFar:             d.cfg.Render.ZFar,
		SpecularPower:    d.cfg.Render.SpecularPower,
		ShadowResolution: d.cfg.Render.ShadowResolution,
	})
	if err != nil {
		return err
	}
	d.renderer = r

	d.scene = scene.New()
	d.scene.RenderShadows = d.cfg.Render.RenderShadows
	d.scene.SetFog(scene.Fog{Active: true, Colour: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, Density: 0.05})
	d.scene.SetSceneLight(sceneLights())

	steps := []struct {
		name string
		fn   func() error
	}{
		{"terrain", d.loadTerrain},
		{"model", d.loadModel},
		{"skybox", d.loadSkyBox},
		{"particles", d.loadParticles},
		{"hud", d.loadHud},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("loading %s: %w", s.name, err)
		}
	}

	items := append([]*scene.Item{}, d.terrain.Items()...)
	items = append(items, d.monster)
	d.scene.SetItems(items)

	d.camera.SetPosition(0, 1, 0)
	if h := d.terrain.Height(d.camera.Position); h != terrain.NoHeight {
		d.camera.Position.Y = h + 1
	}

	logger.Info("demo scene ready",
		zap.Int("items", len(items)),
		zap.Int("groups", len(d.scene.Groups())))
	return nil
}

func sceneLights() *lighting.SceneLight {
	sun := lighting.NewDirectionalLight(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{Y: 1, Z: 1}, 1)
	sun.ShadowPosMult = 10
	sun.Ortho = lighting.OrthoCoords{Left: -10, Right: 10, Bottom: -10, Top: 10, Near: -1, Far: 20}

	return &lighting.SceneLight{
		Ambient:     math.Vec3{X: 0.3, Y: 0.3, Z: 0.3},
		SkyBox:      math.Vec3{X: 1, Y: 1, Z: 1},
		Directional: sun,
	}
}

func (d *demo) loadTexture(p string, cols, rows int) (*texture.Texture, error) {
	data, err := d.assets.Load(p)
	if err != nil {
		return nil, err
	}
	return texture.Load(d.dev, data, cols, rows)
}

func (d *demo) loadTerrain() error {
	data, err := d.assets.Load(d.cfg.Assets.HeightMap)
	if err != nil {
		return err
	}
	img, err := texture.Decode(data)
	if err != nil {
		return err
	}
	tex, err := d.loadTexture(d.cfg.Assets.TerrainTexture, 1, 1)
	if err != nil {
		return err
	}
	t, err := terrain.New(d.dev, terrainBlocks, terrainScale, terrainMinY, terrainMaxY, img, tex, terrainTextInc)
	if err != nil {
		tex.Destroy()
		return err
	}
	d.terrain = t
	return nil
}

func (d *demo) loadModel() error {
	data, err := d.assets.Load(d.cfg.Assets.Model)
	if err != nil {
		return err
	}
	md5, err := formats.ParseMD5Mesh(data)
	if err != nil {
		return err
	}

	var anim *formats.MD5Anim
	if d.cfg.Assets.Animation != "" {
		data, err := d.assets.Load(d.cfg.Assets.Animation)
		if err != nil {
			return err
		}
		if anim, err = formats.ParseMD5Anim(data); err != nil {
			return err
		}
	}

	m, err := model.Load(d.dev, md5, anim, d.modelMaterial(md5))
	if err != nil {
		return err
	}

	d.monster = scene.NewItem(m.Meshes...)
	d.monster.Animation = m.Animation
	d.monster.Scale = 0.05
	d.monster.SetRotationEuler(-90, 0, 0)
	d.monster.SetPosition(0, 0, -2)
	if h := d.terrain.Height(d.monster.Position); h != terrain.NoHeight {
		d.monster.Position.Y = h
	}
	return nil
}

// modelMaterial textures the model with its first shader, looked up next to
// the mesh file and then as given. A missing texture leaves it untextured.
func (d *demo) modelMaterial(md5 *formats.MD5Mesh) *mesh.Material {
	mat := &mesh.Material{Colour: mesh.DefaultColour, Reflectance: 1}
	if len(md5.Meshes) == 0 || md5.Meshes[0].Shader == "" {
		return mat
	}
	shader := md5.Meshes[0].Shader
	for _, p := range []string{path.Join(path.Dir(d.cfg.Assets.Model), shader), shader} {
		tex, err := d.loadTexture(p, 1, 1)
		if err == nil {
			mat.Texture = tex
			return mat
		}
		logger.Debug("model texture candidate rejected", zap.String("path", p), zap.Error(err))
	}
	logger.Warn("model texture not found", zap.String("shader", shader))
	return mat
}

func (d *demo) loadSkyBox() error {
	tex, err := d.loadTexture(d.cfg.Assets.SkyBoxTexture, 1, 1)
	if err != nil {
		return err
	}
	m, err := mesh.New(d.dev, cubeData(), mesh.NewMaterial(tex, 0))
	if err != nil {
		tex.Destroy()
		return err
	}
	d.scene.SetSkyBox(scene.NewSkyBox(m, skyBoxScale))
	return nil
}

func (d *demo) loadParticles() error {
	tex, err := d.loadTexture(d.cfg.Assets.ParticleTexture, d.cfg.Assets.ParticleAtlasCol, d.cfg.Assets.ParticleAtlasRow)
	if err != nil {
		return err
	}
	m, err := mesh.NewInstanced(d.dev, quadData(), mesh.NewMaterial(tex, 0), maxParticles)
	if err != nil {
		tex.Destroy()
		return err
	}

	base := scene.NewParticle(scene.NewItem(m), math.Vec3{Y: 1}, 4*time.Second, 50*time.Millisecond)
	base.Scale = 0.5
	base.SetPosition(2, 0, -2)
	if h := d.terrain.Height(base.Position); h != terrain.NoHeight {
		base.Position.Y = h
	}

	e, err := scene.NewFlowEmitter(base, maxParticles, particleEvery)
	if err != nil {
		m.Destroy()
		return err
	}
	e.PositionRndRange = 0.3
	e.SpeedRndRange = 0.75
	e.ScaleRndRange = 0.1
	e.AnimRange = 10 * time.Millisecond
	d.emitter = e
	d.scene.SetParticleEmitters([]scene.ParticleEmitter{e})
	return nil
}

func (d *demo) loadHud() error {
	h, err := newHud(d.dev)
	if err != nil {
		return err
	}
	d.hud = h
	return nil
}

func (d *demo) Input(in *input.Input) {
	d.cameraInc = movementInput(in)

	switch {
	case in.IsKeyDown(sdl.SCANCODE_LEFT):
		d.angleInc -= sunAngleStep
	case in.IsKeyDown(sdl.SCANCODE_RIGHT):
		d.angleInc += sunAngleStep
	default:
		d.angleInc = 0
	}

	if in.IsKeyPressed(sdl.SCANCODE_SPACE) {
		d.stepFrame = true
	}
	if in.IsKeyPressed(sdl.SCANCODE_F12) {
		d.screenshot = true
	}
	if in.IsKeyPressed(sdl.SCANCODE_ESCAPE) && d.stop != nil {
		d.stop()
	}
}

// movementInput maps WASD, Q and E to a unit camera step per axis.
func movementInput(in *input.Input) math.Vec3 {
	var inc math.Vec3
	if in.IsKeyDown(sdl.SCANCODE_W) {
		inc.Z = -1
	} else if in.IsKeyDown(sdl.SCANCODE_S) {
		inc.Z = 1
	}
	if in.IsKeyDown(sdl.SCANCODE_A) {
		inc.X = -1
	} else if in.IsKeyDown(sdl.SCANCODE_D) {
		inc.X = 1
	}
	if in.IsKeyDown(sdl.SCANCODE_Q) {
		inc.Y = -1
	} else if in.IsKeyDown(sdl.SCANCODE_E) {
		inc.Y = 1
	}
	return inc
}

func (d *demo) Update(interval time.Duration, in *input.Input) error {
	mouse := in.Mouse()
	if mouse.Left {
		rot := mouse.Displacement.Scale(mouseSensitivity)
		d.camera.MoveRotation(rot.X, rot.Y, 0)
	}

	moveCamera(d.camera, d.cameraInc.Scale(cameraPosStep), d.terrain)

	d.lightAngle = lighting.ClampSunAngle(d.lightAngle + d.angleInc)
	if sun := d.scene.SceneLight().Directional; sun != nil {
		sun.Direction = lighting.SunDirection(d.lightAngle)
	}

	if d.stepFrame {
		d.stepFrame = false
		if d.monster.Animated() {
			d.monster.Animation.NextFrame()
		}
	}

	d.emitter.Update(interval)
	return nil
}

// moveCamera moves cam by step and puts it back when it would end up at
// or below the ground.
func moveCamera(cam *camera.Camera, step math.Vec3, ground heightSampler) {
	prev := cam.Position
	cam.MovePosition(step.X, step.Y, step.Z)
	if ground == nil {
		return
	}
	if cam.Position.Y <= ground.Height(cam.Position) {
		cam.Position = prev
	}
}

func (d *demo) Render() error {
	d.hud.updateSize(d.win.Width(), d.win.Height())
	d.hud.pointCompass(d.camera.Rotation.Y)
	d.renderer.Render(d.win, d.camera, d.scene, d.hud)

	if d.screenshot {
		d.screenshot = false
		if _, err := d.shots.Capture(d.dev, d.win.Width(), d.win.Height()); err != nil {
			logger.Warn("screenshot failed", zap.Error(err))
		}
	}
	return nil
}

func (d *demo) Cleanup() {
	if d.renderer != nil {
		st := d.renderer.Stats()
		logger.Debug("last frame",
			zap.Int("draw_calls", st.DrawCalls),
			zap.Int("instanced_draw_calls", st.InstancedDrawCalls),
			zap.Int("mesh_binds", st.MeshBinds))
		d.renderer.Destroy()
	}
	if d.scene != nil {
		d.scene.Destroy()
	}
	if d.terrain != nil {
		d.terrain.Destroy()
	}
	if d.monster != nil {
		d.monster.Destroy()
	}
	if d.hud != nil {
		d.hud.Destroy()
	}
	d.assets.Close()
	logger.Info("demo cleaned up")
}
