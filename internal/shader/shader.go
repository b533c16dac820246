// Package shader compiles the cube program and resolves its uniform locations once.
package shader

import (
	"errors"
	"fmt"

	"cube-demo/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUniformNotFound means the linked program does not expose a uniform the renderer writes.
var ErrUniformNotFound = errors.New("shader: uniform not found")

// Uniform names shared by the GLSL sources and the renderer.
const (
	UniformView       = "view"
	UniformProjection = "projection"
	UniformModel      = "model"
	UniformColor      = "color"
)

// VertexSource transforms the cube corners; texture coordinates are passed through unused.
const VertexSource = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;
uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
out vec2 texCoord;
void main() {
  texCoord = aTexCoord;
  gl_Position = projection * view * model * vec4(aPos, 1.0);
}
`

// FragmentSource paints each cube with its flat color.
const FragmentSource = `#version 330 core
in vec2 texCoord;
uniform vec3 color;
out vec4 fragColor;
void main() {
  fragColor = vec4(color, 1.0);
}
`

// Program is a linked shader program with its uniform locations.
type Program struct {
	dev gpu.Device
	id  gpu.Handle

	view, projection, model, color int32
}

// Compile builds and links the program and looks up every uniform.
// A missing uniform deletes the program and returns ErrUniformNotFound.
func Compile(dev gpu.Device, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("shader: %w", err)
	}
	p := &Program{dev: dev, id: id}
	for _, u := range []struct {
		name string
		loc  *int32
	}{
		{UniformView, &p.view},
		{UniformProjection, &p.projection},
		{UniformModel, &p.model},
		{UniformColor, &p.color},
	} {
		*u.loc = dev.UniformLocation(id, u.name)
		if *u.loc < 0 {
			p.Release()
			return nil, fmt.Errorf("%w: %q", ErrUniformNotFound, u.name)
		}
	}
	return p, nil
}

// ID is the program handle, 0 after Release.
func (p *Program) ID() gpu.Handle { return p.id }

// Use makes the program current.
func (p *Program) Use() { p.dev.UseProgram(p.id) }

// Unuse clears the current program so other renderers start from a clean slate.
func (p *Program) Unuse() { p.dev.UseProgram(0) }

func (p *Program) SetView(m mgl32.Mat4)       { p.dev.UniformMat4(p.view, m) }
func (p *Program) SetProjection(m mgl32.Mat4) { p.dev.UniformMat4(p.projection, m) }
func (p *Program) SetModel(m mgl32.Mat4)      { p.dev.UniformMat4(p.model, m) }
func (p *Program) SetColor(c mgl32.Vec3)      { p.dev.UniformVec3(p.color, c) }

// Release deletes the program. Safe to call more than once.
func (p *Program) Release() {
	if p == nil || p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
}
