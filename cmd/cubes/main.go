// Command cubes renders a grid of colored cubes with a free-fly camera.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"cube-demo/internal/commands"
	"cube-demo/internal/engineconfig"
	"cube-demo/internal/env"
	"cube-demo/internal/version"
)

// GL and the window system must stay on the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if _, err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "cubes:", err)
	}

	reg := commands.NewRegistry("cubes", os.Stderr)

	runFlags := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := runFlags.String("config", engineconfig.Path(nil, engineconfig.EngineConfigPath), "config file (YAML)")
	reg.Register("run", "open the window and render the cube grid", runFlags, func() error {
		return run(*configPath)
	})

	configFlags := flag.NewFlagSet("config", flag.ContinueOnError)
	out := configFlags.String("o", engineconfig.EngineConfigPath, "where to write the default config")
	reg.Register("config", "write the default config file", configFlags, func() error {
		if err := engineconfig.Save(*out, engineconfig.Default()); err != nil {
			return err
		}
		fmt.Println("wrote", *out)
		return nil
	})

	reg.Register("version", "print the version", flag.NewFlagSet("version", flag.ContinueOnError), func() error {
		fmt.Println(version.String())
		return nil
	})

	reg.Default("run")
	if err := reg.Execute(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "cubes:", err)
		os.Exit(1)
	}
}
