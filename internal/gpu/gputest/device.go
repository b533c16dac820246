// Package gputest provides a recording gpu.Device for tests that must run without a GL context.
package gputest

import (
	"errors"
	"fmt"

	"cube-demo/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("gputest: injected failure")

// Uniform is the last value written to a uniform location.
type Uniform struct {
	Mat4 mgl32.Mat4
	Vec3 mgl32.Vec3
}

// Device records every call as a short string in Calls and tracks live handles.
// Zero value is ready to use.
type Device struct {
	Calls []string

	// FailVertexArray, FailBuffer (1-based call number, 0 = never) and FailCompile inject errors.
	FailVertexArray bool
	FailBuffer      int
	FailCompile     bool
	// MissingUniforms makes UniformLocation return -1 for the listed names.
	MissingUniforms map[string]bool
	// PendingErr is returned (once) by the next Err call.
	PendingErr error

	next      gpu.Handle
	buffers   int
	live      map[gpu.Handle]string
	deleted   map[gpu.Handle]int
	uniforms  map[int32]Uniform
	locations map[string]int32
	program   gpu.Handle
	vao       gpu.Handle
	draws     []Draw
}

// Draw captures the state at one DrawIndexed call.
type Draw struct {
	VertexArray gpu.Handle
	Program     gpu.Handle
	Count       int32
	Model       mgl32.Mat4
	Color       mgl32.Vec3
}

var _ gpu.Device = (*Device)(nil)

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) alloc(kind string) gpu.Handle {
	if d.live == nil {
		d.live = make(map[gpu.Handle]string)
		d.deleted = make(map[gpu.Handle]int)
	}
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *Device) free(h gpu.Handle, kind string) {
	if d.deleted == nil {
		d.deleted = make(map[gpu.Handle]int)
	}
	d.deleted[h]++
	if d.live[h] == kind {
		delete(d.live, h)
	}
}

// Live returns the number of allocated, not yet deleted objects.
func (d *Device) Live() int { return len(d.live) }

// Deletes reports how many times h was deleted.
func (d *Device) Deletes(h gpu.Handle) int { return d.deleted[h] }

// Draws returns every indexed draw issued so far.
func (d *Device) Draws() []Draw { return d.draws }

// UniformAt returns the last value written to loc.
func (d *Device) UniformAt(loc int32) Uniform { return d.uniforms[loc] }

// Location returns the location handed out for name, or -1.
func (d *Device) Location(name string) int32 {
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	return -1
}

// Reset forgets recorded calls and draws but keeps handles and uniforms.
func (d *Device) Reset() {
	d.Calls = nil
	d.draws = nil
}

func (d *Device) CreateVertexArray() (gpu.Handle, error) {
	if d.FailVertexArray {
		return 0, ErrInjected
	}
	h := d.alloc("vao")
	d.record("CreateVertexArray %d", h)
	return h, nil
}

func (d *Device) CreateBuffer() (gpu.Handle, error) {
	d.buffers++
	if d.FailBuffer == d.buffers {
		return 0, ErrInjected
	}
	h := d.alloc("buffer")
	d.record("CreateBuffer %d", h)
	return h, nil
}

func (d *Device) BindVertexArray(h gpu.Handle) {
	d.vao = h
	d.record("BindVertexArray %d", h)
}

func (d *Device) UploadVertices(buf gpu.Handle, data []float32) {
	d.record("UploadVertices %d %d", buf, len(data))
}

func (d *Device) UploadIndices(buf gpu.Handle, data []uint32) {
	d.record("UploadIndices %d %d", buf, len(data))
}

func (d *Device) EnableAttrib(a gpu.Attrib) {
	d.record("EnableAttrib %d size=%d stride=%d offset=%d", a.Slot, a.Size, a.Stride, a.Offset)
}

func (d *Device) UnbindBuffers() { d.record("UnbindBuffers") }

func (d *Device) DrawIndexed(count int32) {
	d.record("DrawIndexed %d", count)
	d.draws = append(d.draws, Draw{
		VertexArray: d.vao,
		Program:     d.program,
		Count:       count,
		Model:       d.uniforms[d.Location("model")].Mat4,
		Color:       d.uniforms[d.Location("color")].Vec3,
	})
}

func (d *Device) DeleteVertexArray(h gpu.Handle) {
	d.free(h, "vao")
	d.record("DeleteVertexArray %d", h)
}

func (d *Device) DeleteBuffer(h gpu.Handle) {
	d.free(h, "buffer")
	d.record("DeleteBuffer %d", h)
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Handle, error) {
	if d.FailCompile {
		return 0, fmt.Errorf("link: %w", ErrInjected)
	}
	h := d.alloc("program")
	d.record("CompileProgram %d", h)
	return h, nil
}

func (d *Device) DeleteProgram(h gpu.Handle) {
	d.free(h, "program")
	d.record("DeleteProgram %d", h)
}

func (d *Device) UseProgram(h gpu.Handle) {
	d.program = h
	d.record("UseProgram %d", h)
}

func (d *Device) UniformLocation(program gpu.Handle, name string) int32 {
	if d.MissingUniforms[name] {
		return -1
	}
	if d.locations == nil {
		d.locations = make(map[string]int32)
	}
	loc, ok := d.locations[name]
	if !ok {
		loc = int32(len(d.locations))
		d.locations[name] = loc
	}
	return loc
}

func (d *Device) UniformMat4(loc int32, m mgl32.Mat4) {
	d.setUniform(loc, Uniform{Mat4: m})
	d.record("UniformMat4 %d", loc)
}

func (d *Device) UniformVec3(loc int32, v mgl32.Vec3) {
	d.setUniform(loc, Uniform{Vec3: v})
	d.record("UniformVec3 %d", loc)
}

func (d *Device) setUniform(loc int32, u Uniform) {
	if d.uniforms == nil {
		d.uniforms = make(map[int32]Uniform)
	}
	d.uniforms[loc] = u
}

func (d *Device) Viewport(width, height int) { d.record("Viewport %dx%d", width, height) }

func (d *Device) Clear(c gpu.Color) { d.record("Clear") }

func (d *Device) Err() error {
	err := d.PendingErr
	d.PendingErr = nil
	return err
}
