package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	n, err := Load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
# comment
CUBES_TEST_PLAIN=info
export CUBES_TEST_EXPORTED = 7
CUBES_TEST_QUOTED="a b"
CUBES_TEST_SINGLE='c'
CUBES_TEST_KEEP=from-file
=novalue
garbage
`), 0644))

	for _, k := range []string{"CUBES_TEST_PLAIN", "CUBES_TEST_EXPORTED", "CUBES_TEST_QUOTED", "CUBES_TEST_SINGLE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("CUBES_TEST_KEEP", "from-shell")

	n, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "info", os.Getenv("CUBES_TEST_PLAIN"))
	assert.Equal(t, "7", os.Getenv("CUBES_TEST_EXPORTED"))
	assert.Equal(t, "a b", os.Getenv("CUBES_TEST_QUOTED"))
	assert.Equal(t, "c", os.Getenv("CUBES_TEST_SINGLE"))
	assert.Equal(t, "from-shell", os.Getenv("CUBES_TEST_KEEP"))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line, key, value string
		ok               bool
	}{
		{"A=1", "A", "1", true},
		{"  export B=2  ", "B", "2", true},
		{`C="x=y"`, "C", "x=y", true},
		{"D=", "D", "", true},
		{"# E=1", "", "", false},
		{"F", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		key, value, ok := parseLine(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.key, key, tt.line)
		assert.Equal(t, tt.value, value, tt.line)
	}
}
