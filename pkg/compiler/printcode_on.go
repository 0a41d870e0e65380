//go:build lumen_printcode

package compiler

import (
	"os"

	"github.com/kristofer/lumen/pkg/chunk"
)

// printChunk disassembles a freshly compiled function's chunk to stderr,
// matching the reference compiler's DEBUG_PRINT_CODE toggle (§4.4, §9).
// Compiled out entirely without -tags lumen_printcode.
func printChunk(name string, c *chunk.Chunk) {
	chunk.Disassemble(os.Stderr, c, name)
}
