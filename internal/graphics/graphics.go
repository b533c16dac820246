// Package graphics owns the raylib window and turns its input into events.
package graphics

import (
	"errors"

	"cube-demo/internal/input"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// ErrWindow is returned when raylib could not create the window or its GL context.
var ErrWindow = errors.New("graphics: window creation failed")

// Options describe the window to open.
type Options struct {
	Width     int
	Height    int
	Title     string
	TargetFPS int
	VSync     bool
	MSAA      bool
}

// movementKeys are polled every frame in this order; each held key yields one KeyPressed.
var movementKeys = []struct {
	raylib int32
	key    input.Key
}{
	{rl.KeyW, input.KeyW},
	{rl.KeyS, input.KeyS},
	{rl.KeyA, input.KeyA},
	{rl.KeyD, input.KeyD},
	{rl.KeySpace, input.KeySpace},
	{rl.KeyLeftControl, input.KeyLeftControl},
}

// Window is the raylib window. It is the render surface and the input source.
// Open it on the main OS thread and keep every call there.
type Window struct {
	log      *zap.Logger
	captured bool
	last     rl.Vector2
	open     bool
}

// Open creates the window and its GL context, then captures the pointer (relative mouse mode).
// raylib's own trace log is forwarded to log.
func Open(opts Options, log *zap.Logger) (*Window, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Window{log: log.Named("window")}
	rl.SetTraceLogCallback(traceLogger(log.Named("raylib")))

	var flags uint32 = rl.FlagWindowResizable
	if opts.VSync {
		flags |= rl.FlagVsyncHint
	}
	if opts.MSAA {
		flags |= rl.FlagMsaa4xHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	if !rl.IsWindowReady() {
		return nil, ErrWindow
	}
	w.open = true

	rl.SetExitKey(rl.KeyEscape) // ESC quits; Tab releases the pointer
	if opts.TargetFPS > 0 {
		rl.SetTargetFPS(int32(opts.TargetFPS))
	}
	rl.DisableCursor()
	w.captured = true
	w.last = rl.GetMousePosition()

	w.log.Info("window open",
		zap.Int("width", rl.GetRenderWidth()),
		zap.Int("height", rl.GetRenderHeight()),
		zap.Int("target_fps", opts.TargetFPS),
	)
	return w, nil
}

// PollEvents reports the input gathered by the last Present.
func (w *Window) PollEvents() []input.Event {
	var events []input.Event
	if rl.WindowShouldClose() {
		events = append(events, input.Event{Kind: input.Quit})
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		if w.captured {
			rl.EnableCursor()
			events = append(events, input.Event{Kind: input.PointerReleased})
		} else {
			rl.DisableCursor()
			events = append(events, input.Event{Kind: input.PointerCaptured})
		}
		w.captured = !w.captured
		w.last = rl.GetMousePosition()
	}

	if pos := rl.GetMousePosition(); pos != w.last {
		w.last = pos
		events = append(events, input.Event{Kind: input.PointerMoved, X: pos.X, Y: pos.Y})
	}

	for _, k := range movementKeys {
		if rl.IsKeyDown(k.raylib) {
			events = append(events, input.Event{Kind: input.KeyPressed, Key: k.key})
		}
	}
	return events
}

// Size is the framebuffer size in pixels, which differs from the window size on HiDPI displays.
func (w *Window) Size() (int, int) { return rl.GetRenderWidth(), rl.GetRenderHeight() }

func (w *Window) BeginFrame() { rl.BeginDrawing() }

// Present flushes raylib's batch, swaps buffers and polls input for the next frame.
func (w *Window) Present() { rl.EndDrawing() }

func (w *Window) SetTitle(title string) { rl.SetWindowTitle(title) }

// Captured reports whether the pointer is in relative mode.
func (w *Window) Captured() bool { return w.captured }

// Close destroys the window and GL context. Safe to call more than once.
func (w *Window) Close() {
	if !w.open {
		return
	}
	w.open = false
	rl.CloseWindow()
	w.log.Info("window closed")
}

// traceLogger forwards raylib trace lines to zap at the matching level.
func traceLogger(log *zap.Logger) rl.TraceLogCallbackFun {
	return func(level int, msg string) {
		switch rl.TraceLogLevel(level) {
		case rl.LogAll, rl.LogTrace, rl.LogDebug:
			log.Debug(msg)
		case rl.LogInfo:
			log.Info(msg)
		case rl.LogWarning:
			log.Warn(msg)
		case rl.LogError, rl.LogFatal:
			log.Error(msg)
		}
	}
}
