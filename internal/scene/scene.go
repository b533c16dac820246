// Package scene holds the cubes drawn each frame.
package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"cube-demo/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoMesh is returned when an object would be built without live GPU geometry.
var ErrNoMesh = errors.New("scene: object needs a live mesh")

// ObjectInstance is the placement of one object, as produced by the grid generator.
// Rotation is Euler angles in degrees; a zero Scale means unit scale.
type ObjectInstance struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// Object is one renderable cube: a transform, a flat color and a shared mesh.
type Object struct {
	id       int
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
	// Color channels start in [0,1]; Tint does not clamp them.
	Color mgl32.Vec3
	mesh  *mesh.Mesh
}

// NewObject places an object. The mesh must be live: an object cannot exist without geometry.
func NewObject(id int, inst ObjectInstance, color mgl32.Vec3, m *mesh.Mesh) (*Object, error) {
	if !m.Live() {
		return nil, ErrNoMesh
	}
	scale := inst.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return &Object{
		id:       id,
		Position: inst.Position,
		Rotation: inst.Rotation,
		Scale:    scale,
		Color:    color,
		mesh:     m,
	}, nil
}

// ID is unique within a scene and fixed at creation.
func (o *Object) ID() int { return o.id }

// ModelMatrix is T · Rx · Ry · Rz · S, rotating about X first, then Y, then Z.
func (o *Object) ModelMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(o.Position.X(), o.Position.Y(), o.Position.Z())
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(o.Rotation.X())))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(o.Rotation.Y())))
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(o.Rotation.Z())))
	return m.Mul4(mgl32.Scale3D(o.Scale.X(), o.Scale.Y(), o.Scale.Z()))
}

// Draw issues the shared mesh's draw call; uniforms must already be set.
func (o *Object) Draw() error {
	if err := o.mesh.Draw(); err != nil {
		return fmt.Errorf("scene: object %d: %w", o.id, err)
	}
	return nil
}

func (o *Object) Translate(d mgl32.Vec3) { o.Position = o.Position.Add(d) }
func (o *Object) Rotate(d mgl32.Vec3)    { o.Rotation = o.Rotation.Add(d) }
func (o *Object) Rescale(d mgl32.Vec3)   { o.Scale = o.Scale.Add(d) }
func (o *Object) Tint(d mgl32.Vec3)      { o.Color = o.Color.Add(d) }

// Scene is the fixed list of objects created at startup, kept in creation order.
type Scene struct {
	objects []*Object
}

// New creates one object per instance, ids 0..n-1 in instance order, each with a
// color drawn from rng (red, green, blue). All objects share m.
func New(instances []ObjectInstance, m *mesh.Mesh, rng *rand.Rand) (*Scene, error) {
	if rng == nil {
		return nil, errors.New("scene: nil random source")
	}
	s := &Scene{objects: make([]*Object, 0, len(instances))}
	for i, inst := range instances {
		color := mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
		o, err := NewObject(i, inst, color, m)
		if err != nil {
			return nil, err
		}
		s.objects = append(s.objects, o)
	}
	return s, nil
}

// Objects returns the objects in creation order. The slice must not be modified.
func (s *Scene) Objects() []*Object { return s.objects }

// Len is the object count.
func (s *Scene) Len() int { return len(s.objects) }

// Each calls fn for every object in creation order and stops at the first error.
func (s *Scene) Each(fn func(*Object) error) error {
	for _, o := range s.objects {
		if err := fn(o); err != nil {
			return err
		}
	}
	return nil
}
