// Package debug draws the text overlay with camera stats over the 3D scene.
package debug

import (
	"fmt"
	"runtime"

	"cube-demo/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	panelPadding = 12
	lineSpacing  = 4
	logTail      = 5
	// updateInterval: only refresh Mem text every N frames to reduce allocations.
	updateInterval = 30
)

// Options select what the panel shows beyond the camera lines.
type Options struct {
	ShowFPS      bool
	ShowMemAlloc bool
	// LogLines, when set, supplies recent log output shown at the bottom of the panel.
	LogLines func() []string
	FontSize int
}

// Panel draws the debug text over the scene. It implements render.Overlay.
type Panel struct {
	opts Options
	font rl.Font // optional; when set, Render uses DrawTextEx instead of default font

	lines        []string
	frameCount   uint32
	lastMemText  string
	lastMemStats runtime.MemStats
}

var _ render.Overlay = (*Panel)(nil)

// New returns a panel using raylib's default font.
func New(opts Options) *Panel {
	if opts.FontSize <= 0 {
		opts.FontSize = 20
	}
	return &Panel{opts: opts}
}

// LoadFont loads a TTF/OTF file at the panel's font size. On failure the default font stays.
func (p *Panel) LoadFont(path string) error {
	f := rl.LoadFontEx(path, int32(p.opts.FontSize), nil)
	if !rl.IsFontValid(f) {
		return fmt.Errorf("debug: cannot load font %q", path)
	}
	p.UnloadFont()
	p.font = f
	return nil
}

// UnloadFont releases a font set by LoadFont.
func (p *Panel) UnloadFont() {
	if p.font.Texture.ID != 0 {
		rl.UnloadFont(p.font)
		p.font = rl.Font{}
	}
}

// Begin flushes raylib's pending 2D batch and turns depth testing off so text
// is never hidden behind cubes.
func (p *Panel) Begin() {
	rl.DrawRenderBatchActive()
	rl.DisableDepthTest()
}

// Submit stores the text for this frame.
func (p *Panel) Submit(s render.Stats) {
	p.frameCount++
	if p.opts.ShowMemAlloc && (p.lastMemText == "" || p.frameCount%updateInterval == 0) {
		runtime.ReadMemStats(&p.lastMemStats)
		p.lastMemText = memText(p.lastMemStats.Alloc)
	}
	var logs []string
	if p.opts.LogLines != nil {
		logs = p.opts.LogLines()
	}
	p.lines = compose(p.lines[:0], s, p.opts, p.lastMemText, logs)
}

// Render draws the stored lines in a translucent box at the top-left corner.
func (p *Panel) Render() {
	if len(p.lines) == 0 {
		return
	}
	size := float32(p.opts.FontSize)
	lineHeight := int32(p.opts.FontSize + lineSpacing)

	var width int32
	for _, l := range p.lines {
		if w := p.measure(l, size); w > width {
			width = w
		}
	}
	height := lineHeight * int32(len(p.lines))
	rl.DrawRectangle(panelPadding/2, panelPadding/2, width+panelPadding, height+panelPadding/2, rl.Fade(rl.Black, 0.6))

	y := int32(panelPadding)
	for _, l := range p.lines {
		if p.font.Texture.ID != 0 {
			rl.DrawTextEx(p.font, l, rl.NewVector2(panelPadding, float32(y)), size, 1, rl.RayWhite)
		} else {
			rl.DrawText(l, panelPadding, y, int32(p.opts.FontSize), rl.RayWhite)
		}
		y += lineHeight
	}
}

// Lines returns the text submitted for the current frame.
func (p *Panel) Lines() []string { return p.lines }

func (p *Panel) measure(text string, size float32) int32 {
	if p.font.Texture.ID != 0 {
		return int32(rl.MeasureTextEx(p.font, text, size, 1).X)
	}
	return rl.MeasureText(text, int32(p.opts.FontSize))
}

// compose builds the panel text: camera position and angles first, then the optional lines.
func compose(dst []string, s render.Stats, opts Options, mem string, logs []string) []string {
	all := s.Lines()
	dst = append(dst, all[0], all[1], all[2])
	if opts.ShowFPS {
		dst = append(dst, all[3])
	}
	if opts.ShowMemAlloc && mem != "" {
		dst = append(dst, mem)
	}
	if n := len(logs); n > 0 {
		if n > logTail {
			logs = logs[n-logTail:]
		}
		dst = append(dst, "")
		dst = append(dst, logs...)
	}
	return dst
}

func memText(alloc uint64) string {
	return fmt.Sprintf("Mem: %.2f MiB", float64(alloc)/(1024*1024))
}
