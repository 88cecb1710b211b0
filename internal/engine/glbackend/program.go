package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/internal/engine/shader"
	"github.com/gjkf/seriousengine/internal/logger"
	"github.com/gjkf/seriousengine/pkg/math"
)

// Program is a linked GLSL program.
type Program struct {
	name     string
	id       uint32
	uniforms *shader.Uniforms
}

var _ gfx.Program = (*Program)(nil)

func newProgram(name, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: program %s: %v", gfx.ErrResourceCreation, name, err)
	}

	gl.ValidateProgram(id)
	var status int32
	gl.GetProgramiv(id, gl.VALIDATE_STATUS, &status)
	if status == gl.FALSE {
		logger.Warn("shader program validation",
			zap.String("program", name),
			zap.String("log", programLog(id)))
	}

	p := &Program{name: name, id: id}
	p.uniforms = shader.NewUniforms(name, func(uniform string) int32 {
		return gl.GetUniformLocation(id, gl.Str(uniform+"\x00"))
	})
	logger.Debug("shader program linked", zap.String("program", name), zap.Uint32("id", id))
	return p, nil
}

// compileProgram compiles vertex and fragment shaders and links them.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	if program == 0 {
		return 0, fmt.Errorf("create program failed")
	}
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := programLog(program)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", log)
	}

	gl.DetachShader(program, vertShader)
	gl.DetachShader(program, fragShader)
	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return 0, fmt.Errorf("%s shader: create failed", name)
	}
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

func programLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// Bind makes the program current.
func (p *Program) Bind() { gl.UseProgram(p.id) }

// Unbind clears the current program.
func (p *Program) Unbind() { gl.UseProgram(0) }

// CreateUniform resolves a uniform location.
func (p *Program) CreateUniform(name string) error {
	return p.uniforms.Create(name)
}

func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.uniforms.Location(name), v)
}

func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.uniforms.Location(name), v)
}

func (p *Program) SetVec2(name string, x, y float32) {
	gl.Uniform2f(p.uniforms.Location(name), x, y)
}

func (p *Program) SetVec3(name string, v math.Vec3) {
	gl.Uniform3f(p.uniforms.Location(name), v.X, v.Y, v.Z)
}

func (p *Program) SetVec4(name string, v math.Vec4) {
	gl.Uniform4f(p.uniforms.Location(name), v[0], v[1], v[2], v[3])
}

func (p *Program) SetMat4(name string, m math.Mat4) {
	gl.UniformMatrix4fv(p.uniforms.Location(name), 1, false, &m[0])
}

// SetMat4Array uploads consecutive matrices starting at name.
func (p *Program) SetMat4Array(name string, m []math.Mat4) {
	loc := p.uniforms.Location(name)
	if len(m) == 0 {
		return
	}
	gl.UniformMatrix4fv(loc, int32(len(m)), false, &m[0][0])
}

// Destroy deletes the program.
func (p *Program) Destroy() {
	if p.id != 0 {
		gl.UseProgram(0)
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
