//go:build !lumen_printcode

package compiler

import "github.com/kristofer/lumen/pkg/chunk"

// printChunk is a no-op without -tags lumen_printcode: release builds never
// touch the disassembler after compiling a function (§4.4).
func printChunk(name string, c *chunk.Chunk) {}
