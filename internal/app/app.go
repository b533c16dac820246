// Package app drives the frame loop: poll input, move the camera, render, repeat.
package app

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"cube-demo/internal/camera"
	"cube-demo/internal/input"
	"cube-demo/internal/render"
	"cube-demo/internal/scene"
	"cube-demo/internal/version"

	"go.uber.org/zap"
)

// ErrNotInitialized is returned by Step and Run before a successful Init.
var ErrNotInitialized = errors.New("app: not initialized")

// Platform is the window: a render surface that also yields input and shows a title.
type Platform interface {
	render.Surface
	PollEvents() []input.Event
	SetTitle(title string)
}

// Options tune the loop.
type Options struct {
	// Name prefixes the window title.
	Name string
	// Speed is the camera distance per held movement key per frame.
	Speed float32
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// App owns the loop state. Everything runs on the caller's goroutine.
type App struct {
	platform Platform
	renderer *render.Renderer
	cam      *camera.Controller
	handler  *input.Handler
	overlay  render.Overlay
	log      *zap.Logger
	opts     Options

	running     bool
	initialized bool

	frames     int
	fps        int
	frameTotal uint64
	lastTick   time.Time
}

// New wires the loop. overlay may be nil.
func New(p Platform, r *render.Renderer, cam *camera.Controller, overlay render.Overlay, log *zap.Logger, opts Options) *App {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		platform: p,
		renderer: r,
		cam:      cam,
		handler:  input.NewHandler(cam, opts.Speed),
		overlay:  overlay,
		log:      log.Named("app"),
		opts:     opts,
	}
}

// Init sets up the renderer with the startup layout. On error the app is not running and
// no frame may be rendered.
func (a *App) Init(instances []scene.ObjectInstance, rng *rand.Rand) error {
	if err := a.renderer.Setup(instances, rng); err != nil {
		a.running = false
		return fmt.Errorf("app: init: %w", err)
	}
	a.initialized = true
	a.running = true
	a.lastTick = a.opts.Clock()
	a.platform.SetTitle(version.Title(a.opts.Name, 0))
	a.log.Info("initialized", zap.Int("objects", len(instances)))
	return nil
}

// Running reports whether the loop should continue.
func (a *App) Running() bool { return a.running }

// Stop ends the loop after the current frame.
func (a *App) Stop() { a.running = false }

// FPS is the frame count of the last full second.
func (a *App) FPS() int { return a.fps }

// Frames is the number of frames rendered so far.
func (a *App) Frames() uint64 { return a.frameTotal }

// Step runs one iteration: events, then one frame. A quit event still finishes the frame.
// A render error stops the loop and is returned.
func (a *App) Step() error {
	if !a.initialized {
		return ErrNotInitialized
	}
	if !a.handler.HandleAll(a.platform.PollEvents()) {
		a.log.Info("quit requested")
		a.running = false
	}

	if err := a.renderer.Frame(a.cam, a.platform, a.overlay); err != nil {
		a.log.Error("frame failed", zap.Error(err), zap.Uint64("frame", a.frameTotal))
		a.running = false
		return err
	}
	a.frameTotal++
	a.tick()
	return nil
}

// Run steps until the loop is stopped or a frame fails.
func (a *App) Run() error {
	if !a.initialized {
		return ErrNotInitialized
	}
	for a.running {
		if err := a.Step(); err != nil {
			return err
		}
	}
	a.log.Info("loop finished", zap.Uint64("frames", a.frameTotal))
	return nil
}

// Close releases GPU resources. The platform is closed by its owner.
func (a *App) Close() {
	a.running = false
	a.initialized = false
	a.renderer.Close()
}

// tick counts frames and refreshes the FPS once per second.
func (a *App) tick() {
	a.frames++
	now := a.opts.Clock()
	if elapsed := now.Sub(a.lastTick); elapsed >= time.Second {
		a.fps = int(float64(a.frames) / elapsed.Seconds())
		a.frames = 0
		a.lastTick = now
		a.renderer.SetFPS(a.fps)
		a.platform.SetTitle(version.Title(a.opts.Name, a.fps))
	}
}
