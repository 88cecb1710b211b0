// Package shader holds the GLSL sources, the uniform registry and the
// helpers that upload struct uniforms.
package shader

import (
	"fmt"

	"github.com/gjkf/seriousengine/internal/engine/gfx"
)

// Uniforms maps uniform names to locations for one program.
type Uniforms struct {
	program   string
	lookup    func(name string) int32
	locations map[string]int32
}

// NewUniforms returns a registry resolving names with lookup, which
// returns a negative location for unknown names.
func NewUniforms(program string, lookup func(name string) int32) *Uniforms {
	return &Uniforms{
		program:   program,
		lookup:    lookup,
		locations: make(map[string]int32),
	}
}

// Create resolves and stores the location of name.
func (u *Uniforms) Create(name string) error {
	loc := u.lookup(name)
	if loc < 0 {
		return fmt.Errorf("%w: uniform %q not found in program %q", gfx.ErrResourceCreation, name, u.program)
	}
	u.locations[name] = loc
	return nil
}

// Location returns the stored location of name. It panics with
// *gfx.MissingUniformError when name was never created.
func (u *Uniforms) Location(name string) int32 {
	loc, ok := u.locations[name]
	if !ok {
		panic(&gfx.MissingUniformError{Program: u.program, Name: name})
	}
	return loc
}

// Has reports whether name was created.
func (u *Uniforms) Has(name string) bool {
	_, ok := u.locations[name]
	return ok
}

// Len returns the number of created uniforms.
func (u *Uniforms) Len() int {
	return len(u.locations)
}
