package chunk

import (
	"bytes"
	"flag"
	"testing"

	"github.com/kristofer/lumen/internal/filetest"
)

var update = flag.Bool("update", false, "update golden disassembly files")

// TestDisassembleGolden builds a small hand-constructed chunk (no compiler
// involved) and checks its disassembly against a checked-in golden file,
// exercising the godebug/diff-backed filetest helper the same way
// mna-nenuphar's AST-dump tests exercise it, just for bytecode listings.
func TestDisassembleGolden(t *testing.T) {
	for _, fi := range filetest.SourceFiles(t, "testdata", ".chunk") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			c := New()
			c.WriteOp(OpNil, 1)
			c.WriteOp(OpReturn, 1)

			var buf bytes.Buffer
			Disassemble(&buf, c, "demo")

			filetest.DiffDisassembly(t, fi, buf.String(), "testdata", update)
		})
	}
}
