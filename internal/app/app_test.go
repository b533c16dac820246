package app

import (
	"errors"
	"testing"
	"time"

	"cube-demo/internal/camera"
	"cube-demo/internal/gpu/gputest"
	"cube-demo/internal/input"
	"cube-demo/internal/mapgen"
	"cube-demo/internal/render"
	"cube-demo/internal/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakePlatform replays one batch of events per poll, then reports nothing.
type fakePlatform struct {
	script   [][]input.Event
	polls    int
	begins   int
	presents int
	titles   []string
}

func (p *fakePlatform) Size() (int, int) { return 640, 480 }
func (p *fakePlatform) BeginFrame()      { p.begins++ }
func (p *fakePlatform) Present()         { p.presents++ }
func (p *fakePlatform) SetTitle(s string) {
	p.titles = append(p.titles, s)
}
func (p *fakePlatform) PollEvents() []input.Event {
	defer func() { p.polls++ }()
	if p.polls < len(p.script) {
		return p.script[p.polls]
	}
	return nil
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(20 * time.Millisecond)
	return c.now
}

func newApp(t *testing.T, dev *gputest.Device, p *fakePlatform) (*App, *camera.Controller) {
	t.Helper()
	cam := camera.New(camera.DefaultOptions())
	r := render.New(dev, render.DefaultOptions(), zaptest.NewLogger(t))
	clock := &fakeClock{now: time.Unix(0, 0)}
	a := New(p, r, cam, nil, zaptest.NewLogger(t), Options{Name: "Cubes", Speed: 0.05, Clock: clock.Now})
	return a, cam
}

func quitAfter(frames int) [][]input.Event {
	script := make([][]input.Event, frames)
	script[frames-1] = []input.Event{{Kind: input.Quit}}
	return script
}

func TestStepBeforeInit(t *testing.T) {
	a, _ := newApp(t, &gputest.Device{}, &fakePlatform{})
	require.ErrorIs(t, a.Step(), ErrNotInitialized)
	require.ErrorIs(t, a.Run(), ErrNotInitialized)
	assert.False(t, a.Running())
}

func TestInitFailure(t *testing.T) {
	p := &fakePlatform{}
	a, _ := newApp(t, &gputest.Device{FailCompile: true}, p)
	err := a.Init(mapgen.Grid(mapgen.DefaultGridOptions()), mapgen.NewRand(1))
	require.ErrorIs(t, err, gputest.ErrInjected)
	assert.False(t, a.Running())
	require.ErrorIs(t, a.Step(), ErrNotInitialized)
	assert.Zero(t, p.begins)
}

func TestRunUntilQuit(t *testing.T) {
	dev := &gputest.Device{}
	p := &fakePlatform{script: quitAfter(3)}
	a, _ := newApp(t, dev, p)
	require.NoError(t, a.Init(mapgen.Grid(mapgen.DefaultGridOptions()), mapgen.NewRand(42)))
	require.True(t, a.Running())

	require.NoError(t, a.Run())
	assert.False(t, a.Running())
	// The frame in which quit arrived is still rendered.
	assert.Equal(t, uint64(3), a.Frames())
	assert.Equal(t, 3, p.presents)
	assert.Len(t, dev.Draws(), 3*16)

	a.Close()
	assert.Zero(t, dev.Live())
}

func TestKeysMoveCamera(t *testing.T) {
	script := make([][]input.Event, 10)
	for i := range script {
		script[i] = []input.Event{{Kind: input.KeyPressed, Key: input.KeyW}}
	}
	script = append(script, []input.Event{{Kind: input.Quit}})

	a, cam := newApp(t, &gputest.Device{}, &fakePlatform{script: script})
	start, dir := cam.Position(), cam.Forward()
	require.NoError(t, a.Init(mapgen.Grid(mapgen.DefaultGridOptions()), mapgen.NewRand(42)))
	require.NoError(t, a.Run())

	want := start.Add(dir.Mul(0.05 * 10))
	for i := range want {
		assert.InDelta(t, want[i], cam.Position()[i], 1e-5)
	}
}

func TestFrameErrorStopsLoop(t *testing.T) {
	dev := &gputest.Device{}
	p := &fakePlatform{}
	a, _ := newApp(t, dev, p)
	require.NoError(t, a.Init(mapgen.Grid(mapgen.DefaultGridOptions()), mapgen.NewRand(42)))

	require.NoError(t, a.Step())
	gl := errors.New("GL_OUT_OF_MEMORY")
	dev.PendingErr = gl

	err := a.Run()
	require.ErrorIs(t, err, render.ErrFrame)
	require.ErrorIs(t, err, gl)
	assert.False(t, a.Running())
	assert.Equal(t, uint64(1), a.Frames())
	assert.Equal(t, 2, p.begins)
	assert.Equal(t, 1, p.presents)

	// The aborted frame stays open; nothing else is drawn into it.
	a.Close()
	require.ErrorIs(t, a.Step(), ErrNotInitialized)
	assert.Equal(t, 2, p.begins)
}

func TestTitleShowsFPS(t *testing.T) {
	p := &fakePlatform{script: quitAfter(120)}
	a, _ := newApp(t, &gputest.Device{}, p)
	require.NoError(t, a.Init(mapgen.Grid(mapgen.DefaultGridOptions()), mapgen.NewRand(42)))
	require.NoError(t, a.Run())

	// 20ms per frame: one refresh every 50 frames.
	require.Len(t, p.titles, 3)
	assert.Equal(t, version.Title("Cubes", 0), p.titles[0])
	assert.Equal(t, version.Title("Cubes", 50), p.titles[1])
	assert.Equal(t, 50, a.FPS())
}

func TestStop(t *testing.T) {
	a, _ := newApp(t, &gputest.Device{}, &fakePlatform{})
	require.NoError(t, a.Init(nil, mapgen.NewRand(1)))
	a.Stop()
	require.NoError(t, a.Run())
	assert.Zero(t, a.Frames())
}
