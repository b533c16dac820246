// Package mesh uploads indexed triangle geometry and draws it.
package mesh

import (
	"errors"
	"fmt"

	"cube-demo/internal/gpu"
)

// ErrReleased is returned when drawing a mesh whose buffers are gone.
var ErrReleased = errors.New("mesh: released")

// floatsPerVertex is position (3) + texture coordinate (2).
const floatsPerVertex = 5

// CuboidVertices are the 8 corners of a unit cube centered on the origin,
// interleaved as x, y, z, u, v.
var CuboidVertices = []float32{
	-0.5, -0.5, -0.5, 0, 0,
	0.5, -0.5, -0.5, 1, 0,
	0.5, 0.5, -0.5, 1, 1,
	-0.5, 0.5, -0.5, 0, 1,
	-0.5, -0.5, 0.5, 0, 0,
	0.5, -0.5, 0.5, 1, 0,
	0.5, 0.5, 0.5, 1, 1,
	-0.5, 0.5, 0.5, 0, 1,
}

// CuboidIndices split each face into two triangles, wound counter-clockwise
// seen from outside so back-face culling keeps every outer face.
var CuboidIndices = []uint32{
	0, 3, 2, 2, 1, 0, // back
	4, 5, 6, 6, 7, 4, // front
	0, 4, 7, 7, 3, 0, // left
	1, 2, 6, 6, 5, 1, // right
	3, 7, 6, 6, 2, 3, // top
	0, 1, 5, 5, 4, 0, // bottom
}

// Mesh owns a vertex array with its vertex and index buffers.
// One Mesh is shared by every cube; handle it by pointer and never copy it.
type Mesh struct {
	dev   gpu.Device
	vao   gpu.Handle
	vbo   gpu.Handle
	ebo   gpu.Handle
	count int32
}

// NewCuboid uploads the cube geometry. Must run on the goroutine owning the GL context.
// On failure nothing stays allocated.
func NewCuboid(dev gpu.Device) (*Mesh, error) {
	return New(dev, CuboidVertices, CuboidIndices)
}

// New uploads interleaved position+texcoord vertices and triangle indices.
func New(dev gpu.Device, vertices []float32, indices []uint32) (*Mesh, error) {
	if len(vertices) == 0 || len(vertices)%floatsPerVertex != 0 {
		return nil, fmt.Errorf("mesh: %d floats is not a whole number of vertices", len(vertices))
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh: %d indices is not a whole number of triangles", len(indices))
	}

	m := &Mesh{dev: dev, count: int32(len(indices))}
	var err error
	if m.vao, err = dev.CreateVertexArray(); err != nil {
		return nil, fmt.Errorf("mesh: vertex array: %w", err)
	}
	if m.vbo, err = dev.CreateBuffer(); err != nil {
		m.Release()
		return nil, fmt.Errorf("mesh: vertex buffer: %w", err)
	}
	if m.ebo, err = dev.CreateBuffer(); err != nil {
		m.Release()
		return nil, fmt.Errorf("mesh: index buffer: %w", err)
	}

	const stride = floatsPerVertex * 4
	dev.BindVertexArray(m.vao)
	dev.UploadVertices(m.vbo, vertices)
	dev.UploadIndices(m.ebo, indices)
	dev.EnableAttrib(gpu.Attrib{Slot: 0, Size: 3, Stride: stride, Offset: 0})
	dev.EnableAttrib(gpu.Attrib{Slot: 1, Size: 2, Stride: stride, Offset: 3 * 4})
	dev.UnbindBuffers()
	dev.BindVertexArray(0)
	return m, nil
}

// Live reports whether the mesh still owns its buffers.
func (m *Mesh) Live() bool {
	return m != nil && m.vao != 0
}

// IndexCount is the number of indices issued per draw.
func (m *Mesh) IndexCount() int32 { return m.count }

// Draw issues one indexed triangle draw. The vertex array is bound only for the call.
func (m *Mesh) Draw() error {
	if !m.Live() {
		return ErrReleased
	}
	m.dev.BindVertexArray(m.vao)
	defer m.dev.BindVertexArray(0)
	m.dev.DrawIndexed(m.count)
	return nil
}

// Release deletes the buffers and vertex array. Calling it again is a no-op.
func (m *Mesh) Release() {
	if m == nil || m.dev == nil {
		return
	}
	if m.ebo != 0 {
		m.dev.DeleteBuffer(m.ebo)
		m.ebo = 0
	}
	if m.vbo != 0 {
		m.dev.DeleteBuffer(m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		m.dev.DeleteVertexArray(m.vao)
		m.vao = 0
	}
}
