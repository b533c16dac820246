// Package version carries the build version shown in the window title and by the CLI.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is overridden at link time with -ldflags "-X cube-demo/internal/version.Version=...".
var Version = "0.28.0-minimal"

// Parse returns the current version, falling back to 0.0.0-dev when Version is not semver.
func Parse() *semver.Version {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return semver.MustParse("0.0.0-dev")
	}
	return v
}

// String is the canonical "v"-prefixed form.
func String() string { return "v" + Parse().String() }

// Title formats the window title: name, version and the last measured frame rate.
func Title(name string, fps int) string {
	return fmt.Sprintf("%s %s | FPS: %d", name, String(), fps)
}
