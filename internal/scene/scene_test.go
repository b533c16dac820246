package scene

import (
	"errors"
	"math/rand/v2"
	"testing"

	"cube-demo/internal/gpu/gputest"
	"cube-demo/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMesh(t *testing.T) (*mesh.Mesh, *gputest.Device) {
	t.Helper()
	dev := &gputest.Device{}
	m, err := mesh.NewCuboid(dev)
	require.NoError(t, err)
	return m, dev
}

func transform(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

func requireNear(t *testing.T, want, have mgl32.Vec3) {
	t.Helper()
	for i := range want {
		require.InDelta(t, want[i], have[i], 1e-5, "want %v have %v", want, have)
	}
}

func TestModelMatrixIdentity(t *testing.T) {
	m, _ := newMesh(t)
	o, err := NewObject(0, ObjectInstance{}, mgl32.Vec3{}, m)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, o.Scale)
	assert.Equal(t, mgl32.Ident4(), o.ModelMatrix())
}

func TestModelMatrixRotateY(t *testing.T) {
	m, _ := newMesh(t)
	o, err := NewObject(0, ObjectInstance{Rotation: mgl32.Vec3{0, 90, 0}}, mgl32.Vec3{}, m)
	require.NoError(t, err)
	requireNear(t, mgl32.Vec3{0, 0, -1}, transform(o.ModelMatrix(), mgl32.Vec3{1, 0, 0}))
}

func TestModelMatrixOrder(t *testing.T) {
	m, _ := newMesh(t)
	o, err := NewObject(0, ObjectInstance{
		Position: mgl32.Vec3{10, 0, 0},
		Rotation: mgl32.Vec3{90, 90, 0},
		Scale:    mgl32.Vec3{2, 2, 2},
	}, mgl32.Vec3{}, m)
	require.NoError(t, err)

	// Scale first: (1,0,0) -> (2,0,0). Ry(90): -> (0,0,-2). Rx(90): -> (0,2,0). Translate: (10,2,0).
	requireNear(t, mgl32.Vec3{10, 2, 0}, transform(o.ModelMatrix(), mgl32.Vec3{1, 0, 0}))

	// Applying X last instead would give a different point.
	swapped := mgl32.Translate3D(10, 0, 0).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(90))).
		Mul4(mgl32.Scale3D(2, 2, 2))
	assert.False(t, swapped.ApproxEqual(o.ModelMatrix()))
}

func TestMutatorsAreAdditive(t *testing.T) {
	m, _ := newMesh(t)
	o, err := NewObject(3, ObjectInstance{}, mgl32.Vec3{0.9, 0.5, 0}, m)
	require.NoError(t, err)

	o.Translate(mgl32.Vec3{1, 2, 3})
	o.Rotate(mgl32.Vec3{0, 45, 0})
	o.Rescale(mgl32.Vec3{1, 0, 0})
	o.Tint(mgl32.Vec3{0.5, 0, -0.5})

	assert.Equal(t, 3, o.ID())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, o.Position)
	assert.Equal(t, mgl32.Vec3{0, 45, 0}, o.Rotation)
	assert.Equal(t, mgl32.Vec3{2, 1, 1}, o.Scale)
	requireNear(t, mgl32.Vec3{1.4, 0.5, -0.5}, o.Color)
}

func TestNewObjectNeedsLiveMesh(t *testing.T) {
	_, err := NewObject(0, ObjectInstance{}, mgl32.Vec3{}, nil)
	require.ErrorIs(t, err, ErrNoMesh)

	m, _ := newMesh(t)
	m.Release()
	_, err = NewObject(0, ObjectInstance{}, mgl32.Vec3{}, m)
	require.ErrorIs(t, err, ErrNoMesh)
}

func TestNewSceneIDsAndColors(t *testing.T) {
	m, dev := newMesh(t)
	instances := make([]ObjectInstance, 16)
	for i := range instances {
		instances[i].Position = mgl32.Vec3{float32(i), 0, 0}
	}

	s, err := New(instances, m, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)
	require.Equal(t, 16, s.Len())

	seen := map[int]bool{}
	for i, o := range s.Objects() {
		assert.Equal(t, i, o.ID())
		assert.False(t, seen[o.ID()])
		seen[o.ID()] = true
		assert.Equal(t, float32(i), o.Position.X())
		for _, c := range o.Color {
			assert.GreaterOrEqual(t, c, float32(0))
			assert.Less(t, c, float32(1))
		}
	}
	// Geometry is shared, not duplicated.
	assert.Equal(t, 3, dev.Live())

	// Same seed, same colors.
	again, err := New(instances, m, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)
	for i := range instances {
		assert.Equal(t, s.Objects()[i].Color, again.Objects()[i].Color)
	}
}

func TestNewSceneErrors(t *testing.T) {
	m, _ := newMesh(t)
	_, err := New([]ObjectInstance{{}}, m, nil)
	require.Error(t, err)

	m.Release()
	_, err = New([]ObjectInstance{{}}, m, rand.New(rand.NewPCG(1, 1)))
	require.ErrorIs(t, err, ErrNoMesh)
}

func TestEachOrderAndStop(t *testing.T) {
	m, dev := newMesh(t)
	s, err := New(make([]ObjectInstance, 4), m, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)

	var order []int
	stop := errors.New("stop")
	err = s.Each(func(o *Object) error {
		order = append(order, o.ID())
		if o.ID() == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, []int{0, 1, 2}, order)

	dev.Reset()
	require.NoError(t, s.Each((*Object).Draw))
	assert.Len(t, dev.Draws(), 4)
}
