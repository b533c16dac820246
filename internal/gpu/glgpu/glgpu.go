// Package glgpu implements gpu.Device on OpenGL 3.3 core through go-gl.
// It expects a current context (raylib creates one in graphics.Open).
package glgpu

import (
	"fmt"
	"strings"

	"cube-demo/internal/gpu"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Device issues GL calls on the current context.
type Device struct {
	version string
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL entry points for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glgpu: init: %w", err)
	}
	return &Device{version: gl.GoStr(gl.GetString(gl.VERSION))}, nil
}

// Version is the GL_VERSION string reported by the driver.
func (d *Device) Version() string { return d.version }

func (d *Device) CreateVertexArray() (gpu.Handle, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("glgpu: vertex array: %w", d.errOr("no handle returned"))
	}
	return gpu.Handle(id), nil
}

func (d *Device) CreateBuffer() (gpu.Handle, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("glgpu: buffer: %w", d.errOr("no handle returned"))
	}
	return gpu.Handle(id), nil
}

func (d *Device) BindVertexArray(h gpu.Handle) { gl.BindVertexArray(uint32(h)) }

func (d *Device) UploadVertices(buf gpu.Handle, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *Device) UploadIndices(buf gpu.Handle, data []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(buf))
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *Device) EnableAttrib(a gpu.Attrib) {
	gl.VertexAttribPointerWithOffset(a.Slot, a.Size, gl.FLOAT, false, a.Stride, uintptr(a.Offset))
	gl.EnableVertexAttribArray(a.Slot)
}

// UnbindBuffers leaves the element buffer alone: it is vertex array state.
func (d *Device) UnbindBuffers() { gl.BindBuffer(gl.ARRAY_BUFFER, 0) }

func (d *Device) DrawIndexed(count int32) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, count, gl.UNSIGNED_INT, 0)
}

func (d *Device) DeleteVertexArray(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteVertexArrays(1, &id)
}

func (d *Device) DeleteBuffer(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Handle, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("glgpu: vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("glgpu: fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("glgpu: link: %s", strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(prog, vs)
	gl.DetachShader(prog, fs)
	return gpu.Handle(prog), nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *Device) DeleteProgram(h gpu.Handle) { gl.DeleteProgram(uint32(h)) }

func (d *Device) UseProgram(h gpu.Handle) { gl.UseProgram(uint32(h)) }

func (d *Device) UniformLocation(program gpu.Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
}

func (d *Device) UniformMat4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *Device) UniformVec3(loc int32, v mgl32.Vec3) {
	gl.Uniform3f(loc, v[0], v[1], v[2])
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(c gpu.Color) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Err() error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	// Drain so the next frame starts clean.
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("glgpu: %s (0x%04x)", errorName(code), code)
}

func (d *Device) errOr(msg string) error {
	if err := d.Err(); err != nil {
		return err
	}
	return fmt.Errorf("glgpu: %s", msg)
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "invalid enum"
	case gl.INVALID_VALUE:
		return "invalid value"
	case gl.INVALID_OPERATION:
		return "invalid operation"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "invalid framebuffer operation"
	case gl.OUT_OF_MEMORY:
		return "out of memory"
	default:
		return "unknown error"
	}
}
