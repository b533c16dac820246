// Package engineconfig loads, validates and saves the YAML startup config.
package engineconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EngineConfigPath is the default config file, relative to the process working directory.
const EngineConfigPath = "config/cubes.yaml"

// Environment overrides applied by ApplyEnv.
const (
	EnvLogLevel = "CUBES_LOG_LEVEL"
	EnvSeed     = "CUBES_SEED"
	EnvConfig   = "CUBES_CONFIG"
)

// Window is the display setup.
type Window struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int    `yaml:"target_fps"`
	VSync     bool   `yaml:"vsync"`
	MSAA      bool   `yaml:"msaa"`
}

// Camera holds the initial eye, look angles and control tuning.
type Camera struct {
	Position    [3]float32 `yaml:"position,flow"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Sensitivity float32    `yaml:"sensitivity"`
	Speed       float32    `yaml:"speed"`
	PitchLimit  float32    `yaml:"pitch_limit"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

// Grid is the startup cube layout. Seed 0 picks a time-based seed.
type Grid struct {
	Rows    int     `yaml:"rows"`
	Cols    int     `yaml:"cols"`
	Spacing float32 `yaml:"spacing"`
	Relief  float32 `yaml:"relief"`
	Seed    int64   `yaml:"seed"`
}

// Debug toggles the overlay panel and its optional lines.
type Debug struct {
	ShowPanel    bool   `yaml:"show_panel"`
	ShowFPS      bool   `yaml:"show_fps"`
	ShowMemAlloc bool   `yaml:"show_memalloc"`
	ShowLog      bool   `yaml:"show_log"`
	Font         string `yaml:"font,omitempty"`
	FontSize     int    `yaml:"font_size"`
}

// Log configures the zap logger.
type Log struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Config is everything the demo reads at startup. Persisted as YAML.
type Config struct {
	Window Window `yaml:"window"`
	Camera Camera `yaml:"camera"`
	Grid   Grid   `yaml:"grid"`
	Debug  Debug  `yaml:"debug"`
	Log    Log    `yaml:"log"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     "C23 Engine",
			TargetFPS: 60,
			VSync:     true,
			MSAA:      true,
		},
		Camera: Camera{
			Position:    [3]float32{0, 2, 10},
			Yaw:         -90,
			Pitch:       0,
			Sensitivity: 0.1,
			Speed:       0.05,
			PitchLimit:  89,
			FOV:         45,
			Near:        0.1,
			Far:         100,
		},
		Grid: Grid{
			Rows:    4,
			Cols:    4,
			Spacing: 2,
			Seed:    42,
		},
		Debug: Debug{
			ShowPanel: true,
			ShowFPS:   true,
			FontSize:  20,
		},
		Log: Log{
			Level: "info",
			Path:  "logs/cubes.log",
		},
	}
}

// Load reads path over the defaults, so keys absent from the file keep their default.
// A missing file yields Default() and no error; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("engineconfig: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("engineconfig: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}
	check(c.Window.Width > 0 && c.Window.Height > 0, "window: size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.TargetFPS >= 0, "window: target_fps must not be negative, got %d", c.Window.TargetFPS)
	check(c.Camera.PitchLimit > 0 && c.Camera.PitchLimit < 90, "camera: pitch_limit must be inside (0, 90), got %v", c.Camera.PitchLimit)
	check(c.Camera.Sensitivity > 0, "camera: sensitivity must be positive, got %v", c.Camera.Sensitivity)
	check(c.Camera.Speed > 0, "camera: speed must be positive, got %v", c.Camera.Speed)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera: fov must be inside (0, 180), got %v", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera: need 0 < near < far, got near=%v far=%v", c.Camera.Near, c.Camera.Far)
	check(c.Grid.Rows > 0 && c.Grid.Cols > 0, "grid: rows and cols must be positive, got %dx%d", c.Grid.Rows, c.Grid.Cols)
	check(c.Grid.Spacing > 0, "grid: spacing must be positive, got %v", c.Grid.Spacing)
	check(c.Grid.Relief >= 0, "grid: relief must not be negative, got %v", c.Grid.Relief)
	check(c.Debug.FontSize > 0, "debug: font_size must be positive, got %d", c.Debug.FontSize)
	if err != nil {
		return fmt.Errorf("engineconfig: invalid config: %w", err)
	}
	return nil
}

// ApplyEnv overrides the log level and grid seed from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("engineconfig: %s: %w", EnvSeed, err)
		}
		c.Grid.Seed = seed
	}
	return nil
}

// Path returns CUBES_CONFIG when set, otherwise fallback.
func Path(getenv func(string) string, fallback string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvConfig); v != "" {
		return v
	}
	return fallback
}
