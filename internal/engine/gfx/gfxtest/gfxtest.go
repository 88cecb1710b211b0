// Package gfxtest provides recording fakes of the gfx interfaces.
package gfxtest

import (
	"fmt"

	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/pkg/math"
)

// Program records uniform declarations and the last value set per name.
// Setting an undeclared uniform panics like the OpenGL program does.
type Program struct {
	ProgramName string
	// Reject lists uniform names CreateUniform fails for.
	Reject    map[string]bool
	Declared  map[string]bool
	Values    map[string]any
	Sets      []string
	Bound     bool
	Binds     int
	Destroyed int
}

// NewProgram returns an empty recording program.
func NewProgram(name string) *Program {
	return &Program{
		ProgramName: name,
		Reject:      make(map[string]bool),
		Declared:    make(map[string]bool),
		Values:      make(map[string]any),
	}
}

func (p *Program) Name() string { return p.ProgramName }

func (p *Program) Bind() {
	p.Bound = true
	p.Binds++
}

func (p *Program) Unbind() { p.Bound = false }

func (p *Program) CreateUniform(name string) error {
	if p.Reject[name] {
		return fmt.Errorf("%w: uniform %q", gfx.ErrResourceCreation, name)
	}
	p.Declared[name] = true
	return nil
}

func (p *Program) set(name string, v any) {
	if !p.Declared[name] {
		panic(&gfx.MissingUniformError{Program: p.ProgramName, Name: name})
	}
	p.Values[name] = v
	p.Sets = append(p.Sets, name)
}

func (p *Program) SetInt(name string, v int32)             { p.set(name, v) }
func (p *Program) SetFloat(name string, v float32)         { p.set(name, v) }
func (p *Program) SetVec2(name string, x, y float32)       { p.set(name, math.Vec2{X: x, Y: y}) }
func (p *Program) SetVec3(name string, v math.Vec3)        { p.set(name, v) }
func (p *Program) SetVec4(name string, v math.Vec4)        { p.set(name, v) }
func (p *Program) SetMat4(name string, m math.Mat4)        { p.set(name, m) }
func (p *Program) SetMat4Array(name string, m []math.Mat4) { p.set(name, append([]math.Mat4(nil), m...)) }
func (p *Program) Destroy()                                { p.Destroyed++ }

// DepthTarget records binds of a fake shadow map.
type DepthTarget struct {
	Res          int32
	Binds        int
	TextureUnits []uint32
	Destroyed    int
}

func (d *DepthTarget) Bind()                   { d.Binds++ }
func (d *DepthTarget) Unbind()                 {}
func (d *DepthTarget) Resolution() int32       { return d.Res }
func (d *DepthTarget) BindTexture(unit uint32) { d.TextureUnits = append(d.TextureUnits, unit) }
func (d *DepthTarget) Destroy()                { d.Destroyed++ }

// Device creates recording programs and depth targets.
type Device struct {
	Programs map[string]*Program
	Depth    *DepthTarget
	// FailProgram makes NewProgram fail for the named program.
	FailProgram string
	// Reject is copied into every program created.
	Reject    map[string]bool
	Clears    int
	Textures  map[uint32]uint32
	Blending  []gfx.BlendMode
	DepthMask []bool
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{
		Programs: make(map[string]*Program),
		Reject:   make(map[string]bool),
		Textures: make(map[uint32]uint32),
	}
}

func (d *Device) NewProgram(name, vertexSrc, fragmentSrc string) (gfx.Program, error) {
	if name == d.FailProgram {
		return nil, fmt.Errorf("%w: link %s", gfx.ErrResourceCreation, name)
	}
	p := NewProgram(name)
	for k, v := range d.Reject {
		p.Reject[k] = v
	}
	d.Programs[name] = p
	return p, nil
}

func (d *Device) NewDepthTarget(resolution int32) (gfx.DepthTarget, error) {
	d.Depth = &DepthTarget{Res: resolution}
	return d.Depth, nil
}

func (d *Device) Clear()                             { d.Clears++ }
func (d *Device) BindTexture(unit uint32, id uint32) { d.Textures[unit] = id }
func (d *Device) SetBlending(mode gfx.BlendMode)     { d.Blending = append(d.Blending, mode) }
func (d *Device) SetDepthMask(write bool)            { d.DepthMask = append(d.DepthMask, write) }

// Viewport is a recorded SetViewport call.
type Viewport struct {
	X, Y, Width, Height int
}

// Window is a fixed-size window recording viewport changes.
type Window struct {
	W, H      int
	Viewports []Viewport
}

func (w *Window) Width() int  { return w.W }
func (w *Window) Height() int { return w.H }

func (w *Window) SetViewport(x, y, width, height int) {
	w.Viewports = append(w.Viewports, Viewport{x, y, width, height})
}
