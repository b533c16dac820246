// Package gpu defines the small slice of a graphics API the renderer needs.
// The real backend lives in gpu/glgpu; gpu/gputest records calls for tests.
// All methods must be called from the goroutine that owns the GL context.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Handle names a GPU object (vertex array, buffer or program). Zero is never a valid handle.
type Handle uint32

// Color is an RGBA clear color with channels in [0,1].
type Color struct {
	R, G, B, A float32
}

// Attrib describes one float vertex attribute inside an interleaved buffer.
// Stride and Offset are in bytes.
type Attrib struct {
	Slot   uint32
	Size   int32
	Stride int32
	Offset int
}

// Device is the graphics API surface used by mesh, shader and render.
type Device interface {
	// CreateVertexArray allocates a vertex array object.
	CreateVertexArray() (Handle, error)
	// CreateBuffer allocates a buffer object.
	CreateBuffer() (Handle, error)
	// BindVertexArray binds h; 0 unbinds.
	BindVertexArray(h Handle)
	// UploadVertices binds buf as the array buffer and fills it with data (static draw).
	UploadVertices(buf Handle, data []float32)
	// UploadIndices binds buf as the element buffer of the bound vertex array and fills it.
	UploadIndices(buf Handle, data []uint32)
	// EnableAttrib configures and enables a float attribute for the bound vertex array.
	EnableAttrib(a Attrib)
	// UnbindBuffers clears the array buffer binding.
	UnbindBuffers()
	// DrawIndexed draws count indices of the bound vertex array as triangles.
	DrawIndexed(count int32)
	DeleteVertexArray(h Handle)
	DeleteBuffer(h Handle)

	// CompileProgram compiles both stages and links them. Stage objects are not kept.
	CompileProgram(vertexSrc, fragmentSrc string) (Handle, error)
	DeleteProgram(h Handle)
	// UseProgram makes h current; 0 unbinds.
	UseProgram(h Handle)
	// UniformLocation returns -1 when the program has no active uniform called name.
	UniformLocation(program Handle, name string) int32
	UniformMat4(loc int32, m mgl32.Mat4)
	UniformVec3(loc int32, v mgl32.Vec3)

	// Viewport sets the drawable area in pixels.
	Viewport(width, height int)
	// Clear enables depth testing and clears color and depth.
	Clear(c Color)
	// Err reports the first pending API error, if any, and resets the error state.
	Err() error
}
