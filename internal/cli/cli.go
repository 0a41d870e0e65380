// Package cli is the CLI wrapper around the compiler/VM core: argument
// parsing, the REPL loop, and file execution (§6 "CLI" — an external
// collaborator the spec names but does not itself specify). It is built on
// github.com/mna/mainer exactly as mna-nenuphar's internal/maincmd wraps
// its own compiler pipeline.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mna/mainer"

	"github.com/kristofer/lumen/pkg/chunk"
	"github.com/kristofer/lumen/pkg/compiler"
	"github.com/kristofer/lumen/pkg/vm"
)

const binName = "lumen"

// Exit codes, matching spec.md §6 verbatim: usage error 64, I/O error 74,
// compile error 65, runtime error 70 (the sysexits convention nenuphar's
// mainer-based CLI already follows for its own InvalidArgs code).
const (
	exitUsage   mainer.ExitCode = 64
	exitCompile mainer.ExitCode = 65
	exitRuntime mainer.ExitCode = 70
	exitIO      mainer.ExitCode = 74
)

var usage = fmt.Sprintf(`usage: %s [<path>]
       %[1]s disassemble <path>
       %[1]s -h|--help
       %[1]s -v|--version

With no <path>, runs an interactive REPL reading one line at a time.
With <path>, compiles and runs that source file once.
'disassemble' compiles <path> and prints its bytecode listing instead of
running it (carried over from smog's cmd/smog disassemble subcommand).
`, binName)

// Cmd is the CLI entry point's flag target. mainer.Parser populates it by
// reflecting over the `flag` struct tags, the same mechanism nenuphar's
// maincmd.Cmd uses.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	// GCLog mirrors the reference VM's DEBUG_LOG_GC toggle as a runtime
	// dial: it only has an observable effect in a binary built with
	// -tags lumen_gclog (see pkg/gc/log_on.go); in a release build,
	// setting it is harmless but silent.
	GCLog bool `flag:"gc-log"`
	// InitialHeap overrides the heap's initial collection threshold in
	// bytes (§4.2 heap growth policy), mainly useful for shrinking it in
	// tests that want to observe a collection without allocating megabytes
	// of script first.
	InitialHeap string `flag:"initial-heap"`

	args []string
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 0 && c.args[0] == "disassemble" {
		if len(c.args) != 2 {
			return fmt.Errorf("usage error: disassemble requires exactly one path, got %d arguments", len(c.args)-1)
		}
		return nil
	}
	if len(c.args) > 1 {
		return fmt.Errorf("usage error: at most one script path, got %d arguments", len(c.args))
	}
	return nil
}

// Main is the whole CLI: parse flags, dispatch to the REPL or a single
// file run, and map the result to one of §6's exit codes.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: "LUMEN_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, usage)
		return exitUsage
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, usage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	machine := vm.New(stdio.Stdout, stdio.Stderr)
	if c.GCLog {
		machine.Heap().Log = stdio.Stderr
	}
	if c.InitialHeap != "" {
		if n, err := strconv.ParseUint(c.InitialHeap, 10, 64); err == nil {
			machine.Heap().SetNextGC(uintptr(n))
		}
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	switch {
	case len(c.args) == 0:
		return runREPL(ctx, machine, stdio)
	case c.args[0] == "disassemble":
		return runDisassemble(machine, stdio, c.args[1])
	default:
		return runFile(machine, stdio, c.args[0])
	}
}

// runDisassemble compiles path without running it and prints its bytecode
// listing, the CLI-level home for pkg/chunk's disassembler (§9 supplemented
// feature 5, carried over from smog's cmd/smog disassemble subcommand).
func runDisassemble(machine *vm.VM, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
		return exitIO
	}
	fn, cerr := compiler.Compile(string(src), machine.Heap())
	if cerr != nil {
		fmt.Fprintln(stdio.Stderr, cerr)
		return exitCompile
	}
	chunk.Disassemble(stdio.Stdout, fn.Chunk, path)
	return mainer.Success
}

// runFile reads path and interprets it once (§6 "prog path").
func runFile(machine *vm.VM, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
		return exitIO
	}
	return interpret(machine, stdio, string(src))
}

// runREPL reads stdin line by line, each line a standalone `interpret` call
// (§6 "prog with no args"): a REPL line with a runtime error reports it and
// continues reading rather than exiting, since only the whole process's
// final exit code carries the 65/70 distinction when driven from a file.
// ctx is cancelled on SIGINT so a future streaming read (stdin piped from a
// long-lived producer) has somewhere to hook in; the line-buffered scanner
// below already returns on EOF/interrupt without needing it today.
func runREPL(ctx context.Context, machine *vm.VM, stdio mainer.Stdio) mainer.ExitCode {
	scanner := bufio.NewScanner(stdio.Stdin)
	fmt.Fprint(stdio.Stdout, "> ")
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			fmt.Fprintln(stdio.Stdout)
			return mainer.Success
		default:
		}
		line := scanner.Text()
		if err := machine.Interpret(line); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
		fmt.Fprint(stdio.Stdout, "> ")
	}
	fmt.Fprintln(stdio.Stdout)
	return mainer.Success
}

func interpret(machine *vm.VM, stdio mainer.Stdio, source string) mainer.ExitCode {
	err := machine.Interpret(source)
	if err == nil {
		return mainer.Success
	}
	if _, ok := err.(*compiler.CompileError); ok {
		fmt.Fprintln(stdio.Stderr, err)
		return exitCompile
	}
	if _, ok := err.(*vm.RuntimeError); ok {
		fmt.Fprintln(stdio.Stderr, err)
		return exitRuntime
	}
	// Compile produced an aggregate error whose message lists several
	// CompileErrors (see compiler.Parser.compileError); it neither is nor
	// wraps a *CompileError but is still a compile-time fault.
	fmt.Fprintln(stdio.Stderr, err)
	return exitCompile
}
