package vm_test

import (
	"bytes"
	"testing"

	"github.com/kristofer/lumen/pkg/vm"
	"github.com/stretchr/testify/require"
)

// run compiles and interprets source, returning everything written to
// stdout. Grounded on smog's VM integration tests, which drive the VM
// end-to-end and assert on its observable output rather than internal
// state.
func run(t *testing.T, source string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	machine := vm.New(&stdout, &stderr)
	err := machine.Interpret(source)
	return stdout.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	require.Equal(t, "7\n", out)
}

func TestModuloTruncatesOperands(t *testing.T) {
	out, err := run(t, `print 7.5 % 2;`)
	require.NoError(t, err)
	require.Equal(t, "1\n", out)
}

func TestGlobalAndLocalVariables(t *testing.T) {
	out, err := run(t, `
		var x = 1;
		{
			var x = 2;
			print x;
		}
		print x;
	`)
	require.NoError(t, err)
	require.Equal(t, "2\n1\n", out)
}

func TestClosureCapturesUpvalue(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestClassesInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class Animal {
			speak() {
				print "...";
			}
		}
		class Dog < Animal {
			speak() {
				super.speak();
				print "Woof";
			}
		}
		var d = Dog();
		d.speak();
	`)
	require.NoError(t, err)
	require.Equal(t, "...\nWoof\n", out)
}

func TestRuntimeErrorOnUndefinedVariable(t *testing.T) {
	_, err := run(t, `print undefined;`)
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestCompileErrorOnSyntaxMistake(t *testing.T) {
	_, err := run(t, `print ;`)
	require.Error(t, err)
}

func TestModuloByZeroIsRuntimeErrorButDivisionIsNot(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	require.NoError(t, err) // division by zero yields +Inf, not an error (§4.5)

	_, err = run(t, `print 1 % 0;`)
	require.Error(t, err)
}

// TestOrShortCircuitsOnTruthyLHS exercises §4.4's `or` encoding directly:
// the LHS value itself (not a coerced `true`) is the expression's result
// when it's already truthy, since OP_JUMP_IF_TRUE peeks rather than pops.
func TestOrShortCircuitsOnTruthyLHS(t *testing.T) {
	out, err := run(t, `print "left" or "right";`)
	require.NoError(t, err)
	require.Equal(t, "left\n", out)

	out, err = run(t, `print false or "right";`)
	require.NoError(t, err)
	require.Equal(t, "right\n", out)
}

// TestContinueInsideSwitchTargetsEnclosingLoop exercises the switch/continue
// interaction: `continue` lexically inside a `switch` must resume the
// enclosing loop, not loop back to the switch's own start.
func TestContinueInsideSwitchTargetsEnclosingLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			i = i + 1;
			switch (i) {
				case 2:
					continue;
				default:
					print i;
			}
			print "after";
		}
	`)
	require.NoError(t, err)
	require.Equal(t, "1\nafter\n3\nafter\n", out)
}
