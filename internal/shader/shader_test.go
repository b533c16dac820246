package shader

import (
	"testing"

	"cube-demo/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileResolvesUniforms(t *testing.T) {
	dev := &gputest.Device{}
	p, err := Compile(dev, VertexSource, FragmentSource)
	require.NoError(t, err)
	require.NotZero(t, p.ID())

	for _, name := range []string{UniformView, UniformProjection, UniformModel, UniformColor} {
		assert.GreaterOrEqual(t, dev.Location(name), int32(0), name)
	}

	p.SetColor(mgl32.Vec3{0.25, 0.5, 1})
	assert.Equal(t, mgl32.Vec3{0.25, 0.5, 1}, dev.UniformAt(dev.Location(UniformColor)).Vec3)
	p.SetModel(mgl32.Translate3D(1, 2, 3))
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), dev.UniformAt(dev.Location(UniformModel)).Mat4)
}

func TestCompileFailure(t *testing.T) {
	dev := &gputest.Device{FailCompile: true}
	p, err := Compile(dev, VertexSource, FragmentSource)
	require.ErrorIs(t, err, gputest.ErrInjected)
	assert.Nil(t, p)
}

func TestCompileMissingUniform(t *testing.T) {
	dev := &gputest.Device{MissingUniforms: map[string]bool{UniformColor: true}}
	p, err := Compile(dev, VertexSource, FragmentSource)
	require.ErrorIs(t, err, ErrUniformNotFound)
	assert.Contains(t, err.Error(), `"color"`)
	assert.Nil(t, p)
	assert.Zero(t, dev.Live(), "program must be deleted")
}

func TestReleaseIdempotent(t *testing.T) {
	dev := &gputest.Device{}
	p, err := Compile(dev, VertexSource, FragmentSource)
	require.NoError(t, err)
	id := p.ID()

	p.Release()
	p.Release()
	assert.Zero(t, p.ID())
	assert.Equal(t, 1, dev.Deletes(id))
}
