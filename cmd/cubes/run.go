package main

import (
	"fmt"

	"cube-demo/internal/app"
	"cube-demo/internal/camera"
	"cube-demo/internal/debug"
	"cube-demo/internal/engineconfig"
	"cube-demo/internal/fonts"
	"cube-demo/internal/gpu/glgpu"
	"cube-demo/internal/graphics"
	"cube-demo/internal/logger"
	"cube-demo/internal/mapgen"
	"cube-demo/internal/render"
	"cube-demo/internal/version"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// run loads the config, opens the window and blocks in the frame loop until quit.
func run(configPath string) error {
	cfg, err := engineconfig.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Path: cfg.Log.Path})
	if err != nil {
		return err
	}
	defer log.Close()
	log.Info("starting",
		zap.String("version", version.String()),
		zap.String("config", configPath),
	)

	win, err := graphics.Open(graphics.Options{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		TargetFPS: cfg.Window.TargetFPS,
		VSync:     cfg.Window.VSync,
		MSAA:      cfg.Window.MSAA,
	}, log.Logger)
	if err != nil {
		log.Error("open window", zap.Error(err))
		return err
	}
	defer win.Close()

	dev, err := glgpu.New()
	if err != nil {
		log.Error("load gl", zap.Error(err))
		return err
	}
	log.Info("gl ready", zap.String("gl_version", dev.Version()))

	cam := camera.New(camera.Options{
		Position:    mgl32.Vec3(cfg.Camera.Position),
		Yaw:         cfg.Camera.Yaw,
		Pitch:       cfg.Camera.Pitch,
		Sensitivity: cfg.Camera.Sensitivity,
		PitchLimit:  cfg.Camera.PitchLimit,
	})

	ropts := render.DefaultOptions()
	ropts.FOV = cfg.Camera.FOV
	ropts.Near = cfg.Camera.Near
	ropts.Far = cfg.Camera.Far
	renderer := render.New(dev, ropts, log.Logger)

	var overlay render.Overlay
	if cfg.Debug.ShowPanel {
		opts := debug.Options{
			ShowFPS:      cfg.Debug.ShowFPS,
			ShowMemAlloc: cfg.Debug.ShowMemAlloc,
			FontSize:     cfg.Debug.FontSize,
		}
		if cfg.Debug.ShowLog {
			opts.LogLines = log.Lines
		}
		panel := debug.New(opts)
		loadPanelFont(panel, cfg.Debug.Font, log.Logger)
		defer panel.UnloadFont()
		overlay = panel
	}

	a := app.New(win, renderer, cam, overlay, log.Logger, app.Options{
		Name:  cfg.Window.Title,
		Speed: cfg.Camera.Speed,
	})

	grid := mapgen.DefaultGridOptions()
	grid.Rows = cfg.Grid.Rows
	grid.Cols = cfg.Grid.Cols
	grid.Spacing = cfg.Grid.Spacing
	grid.Relief = cfg.Grid.Relief
	grid.Seed = cfg.Grid.Seed
	grid.Seed = grid.ResolveSeed()
	log.Info("grid", zap.Int("rows", grid.Rows), zap.Int("cols", grid.Cols), zap.Int64("seed", grid.Seed))

	if err := a.Init(mapgen.Grid(grid), mapgen.NewRand(grid.Seed)); err != nil {
		log.Error("init", zap.Error(err))
		return err
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		return fmt.Errorf("cubes: %w", err)
	}
	return nil
}

// loadPanelFont is best effort: the panel falls back to raylib's built-in font.
func loadPanelFont(panel *debug.Panel, search string, log *zap.Logger) {
	path, err := fonts.Find(search)
	if err != nil {
		if search != "" {
			log.Warn("overlay font not found", zap.String("font", search), zap.Error(err))
		}
		return
	}
	if err := panel.LoadFont(path); err != nil {
		log.Warn("overlay font", zap.Error(err))
		return
	}
	log.Debug("overlay font", zap.String("path", path))
}
