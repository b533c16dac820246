package engineconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  width: 800
camera:
  position: [1, 2, 3]
grid:
  seed: 0
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, float32(89), cfg.Camera.PitchLimit)
	assert.Zero(t, cfg.Grid.Seed)
	assert.Equal(t, 4, cfg.Grid.Rows)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubes.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"syntax":  "window: [unterminated",
		"unknown": "window:\n  colour: red\n",
		"type":    "grid:\n  rows: many\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			cfg, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cubes.yaml")
	cfg := Default()
	cfg.Grid.Rows = 8
	cfg.Debug.Font = "assets/fonts/mono.ttf"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidateCollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Camera.PitchLimit = 90
	cfg.Camera.Near = 200
	cfg.Grid.Spacing = -1

	err := cfg.Validate()
	require.Error(t, err)
	errs := multierr.Errors(errors.Unwrap(err))
	assert.Len(t, errs, 4)
	assert.Contains(t, err.Error(), "pitch_limit")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(env(map[string]string{EnvLogLevel: "debug", EnvSeed: "7"})))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, int64(7), cfg.Grid.Seed)

	cfg = Default()
	require.NoError(t, cfg.ApplyEnv(env(nil)))
	assert.Equal(t, Default(), cfg)

	require.Error(t, cfg.ApplyEnv(env(map[string]string{EnvSeed: "forty-two"})))
}

func TestPath(t *testing.T) {
	assert.Equal(t, EngineConfigPath, Path(env(nil), EngineConfigPath))
	assert.Equal(t, "/tmp/x.yaml", Path(env(map[string]string{EnvConfig: "/tmp/x.yaml"}), EngineConfigPath))
}
