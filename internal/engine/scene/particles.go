package scene

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/logger"
	"github.com/gjkf/seriousengine/pkg/math"
)

// ErrNotParticle is returned when an emitter's base item has no particle
// state or no instanced mesh.
var ErrNotParticle = errors.New("base item is not an instanced particle")

// ParticleState is the per-particle behaviour attached to an Item.
type ParticleState struct {
	Speed math.Vec3
	// TTL is the remaining lifetime; the particle dies when it drops below 0.
	TTL time.Duration
	// UpdateTexture is how long each atlas frame is shown.
	UpdateTexture time.Duration
	AnimFrames    int

	animTime time.Duration
}

// NewParticle returns an item carrying particle state. The atlas frame count
// is taken from the mesh's texture.
func NewParticle(base *Item, speed math.Vec3, ttl, updateTexture time.Duration) *Item {
	p := &ParticleState{Speed: speed, TTL: ttl, UpdateTexture: updateTexture}
	if m := base.Mesh(); m != nil && m.Material.IsTextured() {
		p.AnimFrames = m.Material.Texture.Frames()
	}
	base.Particle = p
	return base
}

// cloneParticle copies base's placement and particle state into a new item
// sharing its meshes.
func cloneParticle(base *Item) *Item {
	it := NewItem(base.Meshes...)
	it.Position = base.Position
	it.Rotation = base.Rotation
	it.Scale = base.Scale
	state := *base.Particle
	state.animTime = 0
	it.Particle = &state
	return it
}

// updateTTL ages the particle and advances its atlas frame. It returns the
// remaining lifetime.
func (i *Item) updateTTL(elapsed time.Duration) time.Duration {
	p := i.Particle
	p.TTL -= elapsed
	p.animTime += elapsed
	if p.animTime >= p.UpdateTexture && p.AnimFrames > 0 {
		p.animTime = 0
		i.TextPos++
		if i.TextPos >= p.AnimFrames {
			i.TextPos = 0
		}
	}
	return p.TTL
}

func (i *Item) updatePosition(elapsed time.Duration) {
	delta := float32(elapsed.Seconds())
	i.Position = i.Position.Add(i.Particle.Speed.Scale(delta))
}

// ParticleEmitter spawns and animates particles.
type ParticleEmitter interface {
	// Base is the template particle; its mesh draws every particle.
	Base() *Item
	Particles() []*Item
	Update(elapsed time.Duration)
	Destroy()
}

// FlowEmitter emits a steady stream of particles from a base particle.
type FlowEmitter struct {
	MaxParticles   int
	CreationPeriod time.Duration
	Active         bool

	// Random offsets applied to each new particle. A single random sign is
	// drawn per particle and shared by every offset.
	SpeedRndRange    float32
	PositionRndRange float32
	ScaleRndRange    float32
	AnimRange        time.Duration

	base          *Item
	particles     []*Item
	sinceCreation time.Duration
	rnd           *rand.Rand
}

// NewFlowEmitter creates an emitter around base, which must carry particle
// state and an instanced mesh.
func NewFlowEmitter(base *Item, maxParticles int, creationPeriod time.Duration) (*FlowEmitter, error) {
	if base.Particle == nil || base.Mesh() == nil || !base.Mesh().Instanced() {
		return nil, ErrNotParticle
	}
	return &FlowEmitter{
		MaxParticles:   maxParticles,
		CreationPeriod: creationPeriod,
		Active:         true,
		base:           base,
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// SetRand replaces the random source.
func (e *FlowEmitter) SetRand(r *rand.Rand) {
	e.rnd = r
}

// Base returns the template particle.
func (e *FlowEmitter) Base() *Item {
	return e.base
}

// Particles returns the live particles.
func (e *FlowEmitter) Particles() []*Item {
	return e.particles
}

// Update ages and moves live particles, drops expired ones and, while
// Active, spawns a new one once CreationPeriod has passed since the last
// spawn.
func (e *FlowEmitter) Update(elapsed time.Duration) {
	alive := e.particles[:0]
	for _, p := range e.particles {
		if p.updateTTL(elapsed) < 0 {
			continue
		}
		p.updatePosition(elapsed)
		alive = append(alive, p)
	}
	for i := len(alive); i < len(e.particles); i++ {
		e.particles[i] = nil
	}
	e.particles = alive

	e.sinceCreation += elapsed
	if e.Active && e.sinceCreation >= e.CreationPeriod && len(e.particles) < e.MaxParticles {
		e.createParticle()
		e.sinceCreation = 0
	}
}

func (e *FlowEmitter) createParticle() {
	p := cloneParticle(e.base)

	sign := float32(1)
	if e.rnd.Float64() > 0.5 {
		sign = -1
	}
	speedInc := sign * e.rnd.Float32() * e.SpeedRndRange
	posInc := sign * e.rnd.Float32() * e.PositionRndRange
	scaleInc := sign * e.rnd.Float32() * e.ScaleRndRange
	animInc := time.Duration(float64(sign) * e.rnd.Float64() * float64(e.AnimRange))

	p.Position = p.Position.Add(math.Vec3{X: posInc, Y: posInc, Z: posInc})
	p.Particle.Speed = p.Particle.Speed.Add(math.Vec3{X: speedInc, Y: speedInc, Z: speedInc})
	p.Scale += scaleInc
	p.Particle.UpdateTexture += animInc

	e.particles = append(e.particles, p)
	logger.Debug("particle spawned", zap.String("id", p.ID), zap.Int("live", len(e.particles)))
}

// Destroy frees the base particle's meshes.
func (e *FlowEmitter) Destroy() {
	e.base.Destroy()
}
