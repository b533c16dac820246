// Package input turns platform events into camera commands.
package input

import (
	"cube-demo/internal/camera"
)

// Kind identifies an event.
type Kind int

const (
	// Quit asks the application to stop after the current frame.
	Quit Kind = iota
	// PointerMoved carries the absolute pointer position in X, Y.
	PointerMoved
	// KeyPressed is reported once per frame for every held key.
	KeyPressed
	// PointerCaptured and PointerReleased bracket relative mouse mode.
	PointerCaptured
	PointerReleased
)

func (k Kind) String() string {
	switch k {
	case Quit:
		return "quit"
	case PointerMoved:
		return "pointer-moved"
	case KeyPressed:
		return "key-pressed"
	case PointerCaptured:
		return "pointer-captured"
	case PointerReleased:
		return "pointer-released"
	}
	return "unknown"
}

// Key is a platform-neutral key code.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftControl
	KeyTab
	KeyEscape
)

// Event is one platform input sample.
type Event struct {
	Kind Kind
	X, Y float32
	Key  Key
}

// Camera is the part of the camera the handler drives.
type Camera interface {
	ApplyPointerDelta(dx, dy float32)
	Recapture()
	Move(dir camera.Direction, speed float32)
}

var bindings = map[Key]camera.Direction{
	KeyW:           camera.Forward,
	KeyS:           camera.Backward,
	KeyA:           camera.StrafeLeft,
	KeyD:           camera.StrafeRight,
	KeySpace:       camera.Up,
	KeyLeftControl: camera.Down,
}

// Binding reports the move bound to k.
func Binding(k Key) (camera.Direction, bool) {
	d, ok := bindings[k]
	return d, ok
}

// Handler dispatches events to a camera. The pointer starts captured.
type Handler struct {
	cam   Camera
	speed float32

	released bool
	havePos  bool
	lastX    float32
	lastY    float32
}

// NewHandler moves cam by speed world units per held key per frame.
func NewHandler(cam Camera, speed float32) *Handler {
	return &Handler{cam: cam, speed: speed}
}

// Handle applies one event. It reports false when the event asks to quit.
func (h *Handler) Handle(ev Event) bool {
	switch ev.Kind {
	case Quit:
		return false
	case PointerMoved:
		h.pointerMoved(ev.X, ev.Y)
	case KeyPressed:
		if dir, ok := bindings[ev.Key]; ok {
			h.cam.Move(dir, h.speed)
		}
	case PointerCaptured:
		h.released = false
		h.havePos = false
		h.cam.Recapture()
	case PointerReleased:
		h.released = true
	}
	return true
}

// HandleAll applies events in order and stops at the first quit.
func (h *Handler) HandleAll(events []Event) bool {
	for _, ev := range events {
		if !h.Handle(ev) {
			return false
		}
	}
	return true
}

// Captured reports whether pointer motion currently turns the camera.
func (h *Handler) Captured() bool { return !h.released }

func (h *Handler) pointerMoved(x, y float32) {
	if h.released {
		return
	}
	dx, dy := x-h.lastX, y-h.lastY
	if !h.havePos {
		dx, dy = 0, 0
		h.havePos = true
	}
	h.lastX, h.lastY = x, y
	h.cam.ApplyPointerDelta(dx, dy)
}
