// Package scene holds the items, lights and effects that make up a frame.
package scene

import (
	"github.com/gjkf/seriousengine/internal/engine/lighting"
	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/pkg/math"
)

// Group is a mesh and every item drawing it.
type Group struct {
	Mesh  *mesh.Mesh
	Items []*Item
}

// Fog is exponential distance fog.
type Fog struct {
	Active  bool
	Colour  math.Vec3
	Density float32
}

// NoFog disables fog.
var NoFog = Fog{}

// SkyBox is drawn around the camera ignoring its translation.
type SkyBox struct {
	Item
}

// NewSkyBox wraps a textured mesh as a skybox of the given scale.
func NewSkyBox(m *mesh.Mesh, scale float32) *SkyBox {
	sb := &SkyBox{Item: *NewItem(m)}
	sb.Scale = scale
	return sb
}

// Hud provides the 2D items drawn over the scene.
type Hud interface {
	Items() []*Item
}

// Scene is the set of everything rendered each frame. Items are grouped by
// mesh so each mesh is bound once per pass.
type Scene struct {
	groups    []*Group
	instanced []*Group

	light     *lighting.SceneLight
	skyBox    *SkyBox
	fog       Fog
	emitters  []ParticleEmitter
	destroyed bool

	// RenderShadows enables drawing into the shadow map.
	RenderShadows bool
}

// New returns an empty scene with shadows enabled and no fog.
func New() *Scene {
	return &Scene{fog: NoFog, RenderShadows: true}
}

// SetItems replaces the scene content. Groups keep the order in which
// their mesh is first seen; an item with several meshes joins each group.
func (s *Scene) SetItems(items []*Item) {
	s.groups = nil
	s.instanced = nil
	index := make(map[*mesh.Mesh]*Group)

	for _, it := range items {
		for _, m := range it.Meshes {
			g, ok := index[m]
			if !ok {
				g = &Group{Mesh: m}
				index[m] = g
				if m.Instanced() {
					s.instanced = append(s.instanced, g)
				} else {
					s.groups = append(s.groups, g)
				}
			}
			g.Items = append(g.Items, it)
		}
	}
}

// Groups returns the non-instanced mesh groups.
func (s *Scene) Groups() []*Group {
	return s.groups
}

// InstancedGroups returns the instanced mesh groups.
func (s *Scene) InstancedGroups() []*Group {
	return s.instanced
}

// SetSceneLight sets the lights.
func (s *Scene) SetSceneLight(l *lighting.SceneLight) {
	s.light = l
}

// SceneLight returns the lights, nil when unset.
func (s *Scene) SceneLight() *lighting.SceneLight {
	return s.light
}

// SetSkyBox sets or clears (nil) the skybox.
func (s *Scene) SetSkyBox(sb *SkyBox) {
	s.skyBox = sb
}

// SkyBox returns the skybox, nil when unset.
func (s *Scene) SkyBox() *SkyBox {
	return s.skyBox
}

// SetFog sets the fog.
func (s *Scene) SetFog(f Fog) {
	s.fog = f
}

// Fog returns the fog.
func (s *Scene) Fog() Fog {
	return s.fog
}

// SetParticleEmitters replaces the particle emitters.
func (s *Scene) SetParticleEmitters(e []ParticleEmitter) {
	s.emitters = e
}

// ParticleEmitters returns the particle emitters.
func (s *Scene) ParticleEmitters() []ParticleEmitter {
	return s.emitters
}

// Destroy frees every mesh once, then the skybox and emitters.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	for _, g := range s.groups {
		g.Mesh.Destroy()
	}
	for _, g := range s.instanced {
		g.Mesh.Destroy()
	}
	if s.skyBox != nil {
		s.skyBox.Destroy()
	}
	for _, e := range s.emitters {
		e.Destroy()
	}
}
