// Package commands dispatches CLI subcommands, each with its own flag set.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
)

// ErrUnknown is returned for a subcommand that was never registered.
var ErrUnknown = errors.New("unknown command")

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse and can read flag state.
type Command struct {
	Name    string
	Summary string
	FlagSet *flag.FlagSet
	Run     func() error
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	program  string
	fallback string
	cmds     map[string]*Command
	out      io.Writer
}

// NewRegistry returns an empty registry. Usage text goes to out.
func NewRegistry(program string, out io.Writer) *Registry {
	return &Registry{program: program, cmds: make(map[string]*Command), out: out}
}

// Register adds a subcommand. fs is that command's FlagSet; run is called after
// fs.Parse(args[1:]) succeeds. fs output is redirected to the registry's writer.
func (r *Registry) Register(name, summary string, fs *flag.FlagSet, run func() error) {
	fs.SetOutput(r.out)
	r.cmds[name] = &Command{Name: name, Summary: summary, FlagSet: fs, Run: run}
}

// Default names the command run when args are empty or start with a flag.
func (r *Registry) Default(name string) { r.fallback = name }

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from Run().
func (r *Registry) Execute(args []string) error {
	if r.fallback != "" && (len(args) == 0 || len(args[0]) > 0 && args[0][0] == '-') {
		args = append([]string{r.fallback}, args...)
	}
	if len(args) == 0 {
		r.Usage()
		return fmt.Errorf("missing subcommand")
	}
	name := args[0]
	if name == "help" {
		r.Usage()
		return nil
	}
	cmd, ok := r.cmds[name]
	if !ok {
		r.Usage()
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return cmd.Run()
}

// Names lists registered subcommands, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Usage prints every subcommand with its summary.
func (r *Registry) Usage() {
	fmt.Fprintf(r.out, "usage: %s <command> [flags]\n\ncommands:\n", r.program)
	for _, n := range r.Names() {
		fmt.Fprintf(r.out, "  %-10s %s\n", n, r.cmds[n].Summary)
	}
}
