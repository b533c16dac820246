// Package camera implements the free-fly camera: yaw/pitch look driven by pointer
// deltas and six-way movement, producing a look-at view matrix.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultPitchLimit keeps the view away from the poles, where look-at degenerates.
const DefaultPitchLimit = 89

// Direction is a discrete move command.
type Direction int

const (
	Forward Direction = iota
	Backward
	StrafeLeft
	StrafeRight
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case StrafeLeft:
		return "strafe-left"
	case StrafeRight:
		return "strafe-right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// Options configure a Controller. Angles are in degrees.
type Options struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Sensitivity float32
	// PitchLimit bounds pitch to [-PitchLimit, PitchLimit]; values outside (0, 90) use DefaultPitchLimit.
	PitchLimit float32
}

// DefaultOptions looks down -Z from (0, 0, 3).
func DefaultOptions() Options {
	return Options{
		Position:    mgl32.Vec3{0, 0, 3},
		Yaw:         -90,
		Pitch:       0,
		Sensitivity: 0.1,
		PitchLimit:  DefaultPitchLimit,
	}
}

// Controller holds the camera state. Only pointer and move handling mutate it.
type Controller struct {
	position mgl32.Vec3
	forward  mgl32.Vec3
	up       mgl32.Vec3

	yaw, pitch  float32
	sensitivity float32
	pitchLimit  float32

	// primed is false until the first pointer sample after (re)capture has been seen.
	primed bool
}

// New returns a controller at opts.Position with forward derived from yaw and pitch.
func New(opts Options) *Controller {
	limit := opts.PitchLimit
	if limit <= 0 || limit >= 90 {
		limit = DefaultPitchLimit
	}
	c := &Controller{
		position:    opts.Position,
		up:          mgl32.Vec3{0, 1, 0},
		yaw:         opts.Yaw,
		sensitivity: opts.Sensitivity,
		pitchLimit:  limit,
	}
	c.pitch = mgl32.Clamp(opts.Pitch, -limit, limit)
	c.updateForward()
	return c
}

// ApplyPointerDelta turns the camera by a raw pixel displacement. The first delta after
// construction or Recapture is dropped: there was no previous sample to diff against.
// Screen y grows downwards, so dy is negated to pitch up when the pointer moves up.
func (c *Controller) ApplyPointerDelta(dx, dy float32) {
	if !c.primed {
		c.primed = true
		return
	}
	c.yaw += dx * c.sensitivity
	c.pitch += -dy * c.sensitivity
	c.pitch = mgl32.Clamp(c.pitch, -c.pitchLimit, c.pitchLimit)
	c.updateForward()
}

// Recapture marks pointer capture as (re)established; the next delta is ignored.
func (c *Controller) Recapture() { c.primed = false }

// Move translates the eye by speed along the direction's axis.
func (c *Controller) Move(dir Direction, speed float32) {
	var v mgl32.Vec3
	switch dir {
	case Forward:
		v = c.forward
	case Backward:
		v = c.forward.Mul(-1)
	case StrafeRight:
		v = c.right()
	case StrafeLeft:
		v = c.right().Mul(-1)
	case Up:
		v = c.up
	case Down:
		v = c.up.Mul(-1)
	default:
		return
	}
	c.position = c.position.Add(v.Mul(speed))
}

// ViewMatrix is rebuilt on every call from the current eye and forward.
func (c *Controller) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.forward), c.up)
}

func (c *Controller) Position() mgl32.Vec3 { return c.position }
func (c *Controller) Forward() mgl32.Vec3  { return c.forward }
func (c *Controller) Up() mgl32.Vec3       { return c.up }
func (c *Controller) Yaw() float32         { return c.yaw }
func (c *Controller) Pitch() float32       { return c.pitch }
func (c *Controller) PitchLimit() float32  { return c.pitchLimit }

func (c *Controller) right() mgl32.Vec3 {
	return c.forward.Cross(c.up).Normalize()
}

func (c *Controller) updateForward() {
	c.forward = Front(c.yaw, c.pitch)
}

// Front converts yaw and pitch in degrees to a unit direction.
func Front(yaw, pitch float32) mgl32.Vec3 {
	y := mgl32.DegToRad(yaw)
	p := mgl32.DegToRad(pitch)
	return mgl32.Vec3{
		math32.Cos(y) * math32.Cos(p),
		math32.Sin(p),
		math32.Sin(y) * math32.Cos(p),
	}.Normalize()
}
