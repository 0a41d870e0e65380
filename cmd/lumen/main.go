// Command lumen is the CLI binary: a REPL/file-runner/disassembler over
// the pkg/compiler + pkg/vm core, wired through internal/cli exactly as
// smog's cmd/smog wraps its own compiler+VM (§6).
package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/kristofer/lumen/internal/cli"
)

// placeholder values, replaced on build.
var (
	version   = "0.1.0"
	buildDate = "unreleased"
)

func main() {
	c := &cli.Cmd{BuildVersion: version, BuildDate: buildDate}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
