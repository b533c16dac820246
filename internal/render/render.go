// Package render owns the GPU resources of the cube scene and draws one frame at a time.
package render

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"cube-demo/internal/gpu"
	"cube-demo/internal/mesh"
	"cube-demo/internal/scene"
	"cube-demo/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	// ErrNotReady is returned by Frame before Setup succeeded or after Close.
	ErrNotReady = errors.New("render: renderer not set up")
	// ErrAlreadySetup is returned by a second Setup without an intervening Close.
	ErrAlreadySetup = errors.New("render: renderer already set up")
	// ErrFrame wraps every error that aborts a frame.
	ErrFrame = errors.New("render: frame failed")
)

// State is the renderer lifecycle.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Camera is read once per frame.
type Camera interface {
	ViewMatrix() mgl32.Mat4
	Position() mgl32.Vec3
	Yaw() float32
	Pitch() float32
}

// Surface is the window being drawn into.
type Surface interface {
	// Size is the drawable size in pixels.
	Size() (width, height int)
	// BeginFrame opens the frame. A frame that Frame aborts is never presented,
	// so the surface stays open until it is closed.
	BeginFrame()
	// Present shows the finished frame.
	Present()
}

// Overlay draws on top of the scene after the 3D pass.
type Overlay interface {
	Begin()
	Submit(Stats)
	Render()
}

// Options configure projection, clear color and shader sources.
type Options struct {
	FOV        float32 // vertical, degrees
	Near       float32
	Far        float32
	ClearColor gpu.Color

	VertexSource   string
	FragmentSource string
}

// DefaultOptions matches the demo: 45° FOV, 0.1..100 depth range, dark grey background.
func DefaultOptions() Options {
	return Options{
		FOV:            45,
		Near:           0.1,
		Far:            100,
		ClearColor:     gpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
		VertexSource:   shader.VertexSource,
		FragmentSource: shader.FragmentSource,
	}
}

// Renderer draws the scene. It is not safe for concurrent use and must stay on the GL thread.
type Renderer struct {
	dev  gpu.Device
	opts Options
	log  *zap.Logger

	state   State
	program *shader.Program
	mesh    *mesh.Mesh
	scene   *scene.Scene
	fps     int
}

// New returns an Uninitialized renderer. Empty shader sources fall back to the built-in ones.
func New(dev gpu.Device, opts Options, log *zap.Logger) *Renderer {
	if opts.VertexSource == "" {
		opts.VertexSource = shader.VertexSource
	}
	if opts.FragmentSource == "" {
		opts.FragmentSource = shader.FragmentSource
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{dev: dev, opts: opts, log: log.Named("render")}
}

// Setup compiles the program, uploads the shared cube mesh and builds the scene.
// On failure everything created so far is released and the renderer stays Uninitialized.
func (r *Renderer) Setup(instances []scene.ObjectInstance, rng *rand.Rand) error {
	if r.state == Ready {
		return ErrAlreadySetup
	}

	program, err := shader.Compile(r.dev, r.opts.VertexSource, r.opts.FragmentSource)
	if err != nil {
		return fmt.Errorf("render: setup: %w", err)
	}
	m, err := mesh.NewCuboid(r.dev)
	if err != nil {
		program.Release()
		return fmt.Errorf("render: setup: %w", err)
	}
	scn, err := scene.New(instances, m, rng)
	if err != nil {
		m.Release()
		program.Release()
		return fmt.Errorf("render: setup: %w", err)
	}

	r.program, r.mesh, r.scene = program, m, scn
	r.state = Ready
	r.log.Info("renderer ready",
		zap.Int("objects", scn.Len()),
		zap.Uint32("program", uint32(program.ID())),
		zap.Int32("indices", m.IndexCount()),
	)
	return nil
}

// Frame renders one frame and presents it. Any failure aborts the frame before Present,
// leaving the surface frame open; the caller must stop and close the surface.
func (r *Renderer) Frame(cam Camera, surf Surface, ov Overlay) error {
	if r.state != Ready {
		return ErrNotReady
	}

	surf.BeginFrame()
	w, h := surf.Size()
	r.dev.Viewport(w, h)
	r.dev.Clear(r.opts.ClearColor)

	r.program.Use()
	r.program.SetView(cam.ViewMatrix())
	r.program.SetProjection(r.Projection(w, h))

	err := r.scene.Each(func(o *scene.Object) error {
		r.program.SetColor(o.Color)
		r.program.SetModel(o.ModelMatrix())
		return o.Draw()
	})
	r.program.Unuse()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFrame, err)
	}
	if err := r.dev.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrFrame, err)
	}

	if ov != nil {
		ov.Begin()
		ov.Submit(r.stats(cam))
		ov.Render()
	}
	surf.Present()
	return nil
}

// Projection is the perspective matrix for a w x h surface. A zero height uses aspect 1.
func (r *Renderer) Projection(w, h int) mgl32.Mat4 {
	aspect := float32(1)
	if h > 0 && w > 0 {
		aspect = float32(w) / float32(h)
	}
	return mgl32.Perspective(mgl32.DegToRad(r.opts.FOV), aspect, r.opts.Near, r.opts.Far)
}

// SetFPS records the frame rate reported to the overlay.
func (r *Renderer) SetFPS(fps int) { r.fps = fps }

// Scene is nil unless the renderer is Ready.
func (r *Renderer) Scene() *scene.Scene { return r.scene }

func (r *Renderer) State() State { return r.state }

// Close releases the program and mesh. Safe to call more than once.
func (r *Renderer) Close() {
	if r.state == Ready {
		r.log.Debug("releasing gpu resources")
	}
	r.program.Release()
	r.mesh.Release()
	r.program, r.mesh, r.scene = nil, nil, nil
	r.state = Uninitialized
}

func (r *Renderer) stats(cam Camera) Stats {
	return Stats{
		Position: cam.Position(),
		Yaw:      cam.Yaw(),
		Pitch:    cam.Pitch(),
		Objects:  r.scene.Len(),
		FPS:      r.fps,
	}
}

// Stats is the read-only snapshot handed to the overlay each frame.
type Stats struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Objects  int
	FPS      int
}

// Lines formats the debug panel text.
func (s Stats) Lines() []string {
	return []string{
		fmt.Sprintf("Camera Position: (%.2f, %.2f, %.2f)", s.Position.X(), s.Position.Y(), s.Position.Z()),
		fmt.Sprintf("Yaw: %.2f, Pitch: %.2f", s.Yaw, s.Pitch),
		fmt.Sprintf("Objects: %d", s.Objects),
		fmt.Sprintf("FPS: %d", s.FPS),
	}
}
