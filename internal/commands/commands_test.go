package commands

import (
	"bytes"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(out *bytes.Buffer) (*Registry, *string, *int) {
	r := NewRegistry("cubes", out)
	path := new(string)
	runs := new(int)

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(path, "config", "config/cubes.yaml", "config file")
	r.Register("run", "open the window", fs, func() error { *runs++; return nil })
	r.Register("version", "print the version", flag.NewFlagSet("version", flag.ContinueOnError), func() error {
		return errors.New("boom")
	})
	r.Default("run")
	return r, path, runs
}

func TestExecuteDefault(t *testing.T) {
	var out bytes.Buffer
	r, path, runs := newRegistry(&out)

	require.NoError(t, r.Execute(nil))
	assert.Equal(t, 1, *runs)
	assert.Equal(t, "config/cubes.yaml", *path)

	require.NoError(t, r.Execute([]string{"-config", "other.yaml"}))
	assert.Equal(t, 2, *runs)
	assert.Equal(t, "other.yaml", *path)
}

func TestExecuteNamed(t *testing.T) {
	var out bytes.Buffer
	r, path, _ := newRegistry(&out)
	require.NoError(t, r.Execute([]string{"run", "-config=x.yaml"}))
	assert.Equal(t, "x.yaml", *path)

	require.EqualError(t, r.Execute([]string{"version"}), "boom")
}

func TestExecuteErrors(t *testing.T) {
	var out bytes.Buffer
	r, _, runs := newRegistry(&out)

	err := r.Execute([]string{"dance"})
	require.ErrorIs(t, err, ErrUnknown)
	assert.Contains(t, out.String(), "usage: cubes")

	err = r.Execute([]string{"run", "-bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run:")
	assert.Zero(t, *runs)
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	r, _, _ := newRegistry(&out)
	require.NoError(t, r.Execute([]string{"help"}))
	assert.Equal(t, []string{"run", "version"}, r.Names())
	assert.Contains(t, out.String(), "run        open the window")
	assert.Contains(t, out.String(), "version    print the version")
}

func TestNoDefault(t *testing.T) {
	r := NewRegistry("cubes", &bytes.Buffer{})
	require.Error(t, r.Execute(nil))
}
