package renderer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gjkf/seriousengine/internal/engine/camera"
	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/internal/engine/gfx/gfxtest"
	"github.com/gjkf/seriousengine/internal/engine/lighting"
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/engine/model"
	"github.com/gjkf/seriousengine/internal/engine/scene"
	"github.com/gjkf/seriousengine/internal/engine/texture"
	"github.com/gjkf/seriousengine/pkg/math"
)

type recordBuffer struct {
	binds     int
	draws     int
	instances []int
	records   [][]float32
}

func (b *recordBuffer) Bind()   { b.binds++ }
func (b *recordBuffer) Unbind() {}
func (b *recordBuffer) Draw()   { b.draws++ }
func (b *recordBuffer) Delete() {}

func (b *recordBuffer) DrawInstanced(data []float32, count int) {
	b.instances = append(b.instances, count)
	b.records = append(b.records, append([]float32(nil), data[:count*mesh.InstanceFloats]...))
}

type recordUploader struct{ last *recordBuffer }

func (u *recordUploader) UploadMesh(*mesh.Data, int) (mesh.Buffer, error) {
	u.last = &recordBuffer{}
	return u.last, nil
}

func quad() *mesh.Data {
	return mesh.NewStaticData(
		[]float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		[]float32{0, 0, 1, 0, 1, 1, 0, 1},
		[]float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		[]uint32{0, 1, 2, 2, 3, 0},
	)
}

func newMesh(t *testing.T, material *mesh.Material) (*mesh.Mesh, *recordBuffer) {
	t.Helper()
	up := &recordUploader{}
	m, err := mesh.New(up, quad(), material)
	require.NoError(t, err)
	return m, up.last
}

func newInstancedMesh(t *testing.T, material *mesh.Material, capacity int) (*mesh.Mesh, *recordBuffer) {
	t.Helper()
	up := &recordUploader{}
	m, err := mesh.NewInstanced(up, quad(), material, capacity)
	require.NoError(t, err)
	return m, up.last
}

func newRenderer(t *testing.T) (*Renderer, *gfxtest.Device) {
	t.Helper()
	dev := gfxtest.NewDevice()
	r, err := New(dev, Config{})
	require.NoError(t, err)
	return r, dev
}

func sunScene() *scene.Scene {
	sc := scene.New()
	sun := lighting.NewDirectionalLight(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{Y: 1, Z: 1}.Normalize(), 1)
	sun.ShadowPosMult = 10
	sun.Ortho = lighting.OrthoCoords{Left: -10, Right: 10, Bottom: -10, Top: 10, Near: -1, Far: 20}
	sc.SetSceneLight(&lighting.SceneLight{Ambient: math.Vec3{X: 0.3, Y: 0.3, Z: 0.3}, Directional: sun})
	return sc
}

type staticHud struct{ items []*scene.Item }

func (h staticHud) Items() []*scene.Item { return h.items }

func TestNewDeclaresUniforms(t *testing.T) {
	r, dev := newRenderer(t)

	assert.Len(t, dev.Programs, 5)
	assert.Equal(t, int32(1024), dev.Depth.Res)
	assert.Equal(t, DefaultConfig(), r.Config())

	sceneProgram := dev.Programs["scene"]
	for _, name := range []string{
		"projectionMatrix",
		"material.reflectance",
		"pointLights[4].att.exponent",
		"spotLights[4].pl.position",
		"spotLights[0].cutoff",
		"directionalLight.direction",
		"fog.activeFog",
		"jointsMatrix",
		"numRows",
	} {
		assert.True(t, sceneProgram.Declared[name], name)
	}
	assert.True(t, dev.Programs["depth"].Declared["isInstanced"])
	assert.True(t, dev.Programs["hud"].Declared["projModelMatrix"])
}

func TestNewFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *gfxtest.Device)
	}{
		{"link", func(d *gfxtest.Device) { d.FailProgram = "skybox" }},
		{"uniform", func(d *gfxtest.Device) { d.Reject["fog.density"] = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			tt.setup(dev)

			r, err := New(dev, Config{})
			require.Error(t, err)
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, gfx.ErrResourceCreation))
			for name, p := range dev.Programs {
				assert.Equal(t, 1, p.Destroyed, name)
			}
		})
	}
}

func TestRenderPhasesOnEmptyScene(t *testing.T) {
	r, dev := newRenderer(t)
	win := &gfxtest.Window{W: 800, H: 600}

	r.Render(win, camera.New(), scene.New(), nil)

	stats := r.Stats()
	assert.Equal(t, []Phase{PhaseDepth, PhaseColor, PhaseSkyBox, PhaseHud}, stats.Phases)
	assert.Zero(t, stats.DrawCalls)
	assert.Equal(t, []gfxtest.Viewport{{0, 0, 1024, 1024}, {0, 0, 800, 600}}, win.Viewports)
	assert.Equal(t, 1, dev.Depth.Binds)
	assert.Equal(t, 1, dev.Clears)
}

func TestRenderRestoresViewportWithoutShadows(t *testing.T) {
	r, dev := newRenderer(t)
	win := &gfxtest.Window{W: 640, H: 480}
	sc := sunScene()
	sc.RenderShadows = false
	m, buf := newMesh(t, nil)
	sc.SetItems([]*scene.Item{scene.NewItem(m)})

	r.Render(win, camera.New(), sc, nil)

	assert.Zero(t, dev.Programs["depth"].Binds)
	assert.Equal(t, 1, dev.Depth.Binds)
	assert.Equal(t, gfxtest.Viewport{0, 0, 640, 480}, win.Viewports[len(win.Viewports)-1])
	assert.Equal(t, 1, buf.draws, "color pass only")
}

func TestRenderBindsEachMeshOncePerPass(t *testing.T) {
	r, _ := newRenderer(t)
	sc := sunScene()
	m1, b1 := newMesh(t, nil)
	m2, b2 := newMesh(t, nil)
	sc.SetItems([]*scene.Item{scene.NewItem(m1), scene.NewItem(m2), scene.NewItem(m1), scene.NewItem(m1)})

	r.Render(&gfxtest.Window{W: 800, H: 600}, camera.New(), sc, nil)

	assert.Equal(t, 2, b1.binds)
	assert.Equal(t, 6, b1.draws)
	assert.Equal(t, 2, b2.binds)
	assert.Equal(t, 2, b2.draws)

	stats := r.Stats()
	assert.Equal(t, 8, stats.DrawCalls)
	assert.Equal(t, 4, stats.MeshBinds)
}

func TestRenderInstancedChunks(t *testing.T) {
	r, _ := newRenderer(t)
	sc := sunScene()
	tex := &texture.Texture{ID: 3, NumCols: 2, NumRows: 2}
	m, buf := newInstancedMesh(t, &mesh.Material{Colour: mesh.DefaultColour, Texture: tex}, 2)

	items := make([]*scene.Item, 5)
	for i := range items {
		items[i] = scene.NewItem(m)
		items[i].SetPosition(float32(i), 0, 0)
		items[i].TextPos = 3
	}
	sc.SetItems(items)

	r.Render(&gfxtest.Window{W: 800, H: 600}, camera.New(), sc, nil)

	assert.Equal(t, []int{2, 2, 1, 2, 2, 1}, buf.instances)
	assert.Equal(t, 6, r.Stats().InstancedDrawCalls)

	// Colour pass records carry the model-view translation and the atlas offset.
	last := buf.records[5]
	require.Len(t, last, mesh.InstanceFloats)
	assert.Equal(t, float32(4), last[12])
	assert.Equal(t, float32(0.5), last[32])
	assert.Equal(t, float32(0.5), last[33])
}

func TestRenderLightsUseViewSpaceCopies(t *testing.T) {
	r, dev := newRenderer(t)
	sc := sunScene()
	light := sc.SceneLight()
	light.Points = []lighting.PointLight{lighting.NewPointLight(math.Vec3{X: 1}, math.Vec3{Z: -5}, 1)}
	cam := camera.New()
	cam.SetPosition(0, 0, 5)

	r.Render(&gfxtest.Window{W: 800, H: 600}, cam, sc, nil)

	p := dev.Programs["scene"]
	assert.Equal(t, math.Vec3{Z: -10}, p.Values["pointLights[0].position"])
	assert.Equal(t, math.Vec3{Z: -5}, light.Points[0].Position)
	assert.Equal(t, float32(0), p.Values["pointLights[1].intensity"])
	assert.Equal(t, math.Vec3{X: 0.3, Y: 0.3, Z: 0.3}, p.Values["ambientLight"])
}

func TestRenderAnimatedItemUploadsJoints(t *testing.T) {
	r, dev := newRenderer(t)
	sc := sunScene()
	m, _ := newMesh(t, nil)
	animated := scene.NewItem(m)
	frame := model.NewAnimatedFrame()
	frame.Skin[1] = math.Translate(1, 2, 3)
	animated.Animation = model.NewAnimation("idle", []model.AnimatedFrame{frame}, 24)
	sc.SetItems([]*scene.Item{animated})

	r.Render(&gfxtest.Window{W: 800, H: 600}, camera.New(), sc, nil)

	for _, name := range []string{"depth", "scene"} {
		joints, ok := dev.Programs[name].Values["jointsMatrix"].([]math.Mat4)
		require.True(t, ok, name)
		assert.Len(t, joints, model.MaxJoints)
		assert.Equal(t, math.Translate(1, 2, 3), joints[1])
	}
}

func TestRenderResetsJointsForStaticItems(t *testing.T) {
	r, dev := newRenderer(t)
	sc := sunScene()
	m, _ := newMesh(t, nil)
	animated := scene.NewItem(m)
	frame := model.NewAnimatedFrame()
	frame.Skin[0] = math.Translate(1, 0, 0)
	animated.Animation = model.NewAnimation("idle", []model.AnimatedFrame{frame}, 24)
	sc.SetItems([]*scene.Item{animated, scene.NewItem(m)})

	r.Render(&gfxtest.Window{W: 800, H: 600}, camera.New(), sc, nil)

	joints := dev.Programs["scene"].Values["jointsMatrix"].([]math.Mat4)
	assert.Equal(t, math.Identity(), joints[0])
}

func TestRenderSkyBoxAndHud(t *testing.T) {
	r, dev := newRenderer(t)
	sc := sunScene()
	sc.SceneLight().SkyBox = math.Vec3{X: 1, Y: 1, Z: 1}
	skyMesh, skyBuf := newMesh(t, mesh.NewMaterial(&texture.Texture{ID: 9}, 0))
	sc.SetSkyBox(scene.NewSkyBox(skyMesh, 50))
	cam := camera.New()
	cam.SetPosition(3, 4, 5)

	hudMesh, hudBuf := newMesh(t, &mesh.Material{Colour: math.Vec3{X: 1}})
	label := scene.NewItem(hudMesh)
	label.SetPosition(10, 20, 0)

	r.Render(&gfxtest.Window{W: 800, H: 600}, cam, sc, staticHud{[]*scene.Item{label}})

	assert.Equal(t, 1, skyBuf.draws)
	assert.Equal(t, 1, hudBuf.draws)

	sky := dev.Programs["skybox"]
	mv := sky.Values["modelViewMatrix"].(math.Mat4)
	assert.Equal(t, math.Vec3{}, mv.Translation(), "camera translation removed")
	assert.Equal(t, int32(1), sky.Values["hasTexture"])
	assert.Equal(t, math.Vec3{X: 1, Y: 1, Z: 1}, sky.Values["ambientLight"])

	hud := dev.Programs["hud"]
	assert.Equal(t, math.Vec4{1, 0, 0, 1}, hud.Values["colour"])
	assert.Equal(t, int32(0), hud.Values["hasTexture"])
	pm := hud.Values["projModelMatrix"].(math.Mat4)
	origin := pm.TransformPoint(math.Vec3{})
	assert.InDelta(t, -1+20.0/800, origin.X, 1e-5)
	assert.InDelta(t, 1-40.0/600, origin.Y, 1e-5)
}

func TestRenderParticlesAdditiveWithoutDepthWrites(t *testing.T) {
	r, dev := newRenderer(t)
	sc := sunScene()
	m, buf := newInstancedMesh(t, mesh.NewMaterial(&texture.Texture{ID: 4, NumCols: 4, NumRows: 4}, 0), 8)
	base := scene.NewParticle(scene.NewItem(m), math.Vec3{Y: 1}, time.Second, 50*time.Millisecond)
	e, err := scene.NewFlowEmitter(base, 3, 10*time.Millisecond)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		e.Update(10 * time.Millisecond)
	}
	require.Len(t, e.Particles(), 3)
	sc.SetParticleEmitters([]scene.ParticleEmitter{e})

	r.Render(&gfxtest.Window{W: 800, H: 600}, camera.New(), sc, nil)

	assert.Equal(t, []int{3}, buf.instances)
	assert.Equal(t, []bool{false, true}, dev.DepthMask)
	assert.Equal(t, []gfx.BlendMode{gfx.BlendAdditive, gfx.BlendAlpha}, dev.Blending)
	assert.Equal(t, int32(4), dev.Programs["particles"].Values["numCols"])
	assert.Equal(t, uint32(4), dev.Textures[unitTexture])
}

func TestDestroyReleasesEverything(t *testing.T) {
	r, dev := newRenderer(t)
	r.Destroy()
	r.Destroy()

	assert.Equal(t, 1, dev.Depth.Destroyed)
	for name, p := range dev.Programs {
		assert.Equal(t, 1, p.Destroyed, name)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseDepth, "depth"},
		{PhaseColor, "color"},
		{PhaseSkyBox, "skybox"},
		{PhaseHud, "hud"},
		{Phase(9), "Phase(9)"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.phase), got, tt.want)
		}
	}
}
