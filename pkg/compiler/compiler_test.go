package compiler_test

import (
	"testing"

	"github.com/kristofer/lumen/pkg/compiler"
	"github.com/kristofer/lumen/pkg/gc"
	"github.com/stretchr/testify/require"
)

func TestCompileValidSourceProducesScriptFunction(t *testing.T) {
	fn, err := compiler.Compile(`print "hi";`, gc.New())
	require.NoError(t, err)
	require.NotNil(t, fn)
	require.Equal(t, 0, fn.Arity)
}

func TestCompileAccumulatesMultipleErrors(t *testing.T) {
	_, err := compiler.Compile(`
		var = 1;
		print ;
	`, gc.New())
	require.Error(t, err)
	require.Contains(t, err.Error(), "compile errors:")
}

func TestCompileSingleErrorReportsLineAndMessage(t *testing.T) {
	_, err := compiler.Compile("print;", gc.New())
	require.Error(t, err)
	var cerr *compiler.CompileError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, 1, cerr.Line)
	require.Contains(t, cerr.Message, "expected expression")
}

func TestSynchronizeStopsCascadingErrorsAtStatementBoundary(t *testing.T) {
	// One malformed statement followed by two well-formed ones should
	// produce exactly one error, not three, since synchronize() should
	// resume parsing cleanly at the next statement boundary (§4.4).
	_, err := compiler.Compile(`
		var x = ;
		print 1;
		print 2;
	`, gc.New())
	require.Error(t, err)
	var cerr *compiler.CompileError
	require.ErrorAs(t, err, &cerr)
}

func TestUndefinedBreakOutsideLoopIsCompileError(t *testing.T) {
	_, err := compiler.Compile(`break;`, gc.New())
	require.Error(t, err)
}
