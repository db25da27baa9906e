package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rune/pkg/diagnostics"
	"rune/pkg/parser"
	"rune/pkg/resolver"
	"rune/pkg/scanner"
)

// run executes source through the full scan→parse→resolve→evaluate
// pipeline and returns everything printed to stdout plus any error the
// evaluator returned.
func run(t *testing.T, source string) (string, error) {
	t.Helper()
	diags := diagnostics.NewBag()

	tokens := scanner.New(source, diags).ScanTokens()
	require.False(t, diags.HasErrors(), "scan errors: %v", diags.All())

	stmts := parser.New(tokens, diags).Parse()
	require.False(t, diags.HasErrors(), "parse errors: %v", diags.All())

	depths := resolver.New(diags).Resolve(stmts)
	require.False(t, diags.HasErrors(), "resolve errors: %v", diags.All())

	var out bytes.Buffer
	interp := New(&out, depths, 0)
	err := interp.Interpret(stmts)
	return out.String(), err
}

func TestArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenationViaPlus(t *testing.T) {
	out, err := run(t, `print "a" + "b" + 1;`)
	require.NoError(t, err)
	assert.Equal(t, "ab1\n", out)
}

func TestClosureCapturesDeclarationEnvironmentAcrossCalls(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun counter() {
				count = count + 1;
				return count;
			}
			return counter;
		}
		var c = makeCounter();
		print c();
		print c();
		print c();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestClassInitFieldsAndMethodDispatch(t *testing.T) {
	out, err := run(t, `
		class Point {
			init(x, y) {
				this.x = x;
				this.y = y;
			}
			sum() {
				return this.x + this.y;
			}
		}
		var p = Point(3, 4);
		print p.sum();
	`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestSingleInheritanceMethodLookup(t *testing.T) {
	out, err := run(t, `
		class Animal {
			speak() { print "..."; }
		}
		class Dog < Animal {
			bark() { print "woof"; }
		}
		var d = Dog();
		d.speak();
		d.bark();
	`)
	require.NoError(t, err)
	assert.Equal(t, "...\nwoof\n", out)
}

func TestClassMethodInheritedThroughSuperclassChain(t *testing.T) {
	out, err := run(t, `
		class Base {
			class make() { print "made"; }
		}
		class Derived < Base {}
		Derived.make();
	`)
	require.NoError(t, err)
	assert.Equal(t, "made\n", out)
}

func TestClassMethodBindsThisToTheClassItself(t *testing.T) {
	out, err := run(t, `
		class Registry {
			class name() { return "Registry"; }
			class describe() { print this.name(); }
		}
		Registry.describe();
	`)
	require.NoError(t, err)
	assert.Equal(t, "Registry\n", out)
}

func TestShortCircuitOrSkipsRightOperand(t *testing.T) {
	out, err := run(t, `
		fun boom() {
			print "evaluated";
			return true;
		}
		print true or boom();
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestShortCircuitAndSkipsRightOperand(t *testing.T) {
	out, err := run(t, `
		fun boom() {
			print "evaluated";
			return true;
		}
		print false and boom();
	`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestWhileReevaluatesConditionEachIteration(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestBreakExitsInnermostLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (true) {
			if (i >= 2) { break; }
			print i;
			i = i + 1;
		}
		print "done";
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\ndone\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print nope;`)
	require.Error(t, err)
	rtErr, ok := err.(*diagnostics.RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "Undefined variable 'nope'.")
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	require.Error(t, err)
	rtErr, ok := err.(*diagnostics.RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "Cannot divide by zero.")
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x();`)
	require.Error(t, err)
	rtErr, ok := err.(*diagnostics.RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "Can only call functions and classes.")
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun f(a, b) { return a + b; } f(1);`)
	require.Error(t, err)
	rtErr, ok := err.(*diagnostics.RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "Expected 2 arguments but got 1.")
}

func TestUnknownPropertyIsRuntimeError(t *testing.T) {
	_, err := run(t, `class A {} var a = A(); print a.missing;`)
	require.Error(t, err)
	rtErr, ok := err.(*diagnostics.RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "No such property found")
}

func TestUnknownClassMethodIsRuntimeError(t *testing.T) {
	_, err := run(t, `class A {} A.missing();`)
	require.Error(t, err)
	rtErr, ok := err.(*diagnostics.RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "No such static method found")
}

func TestSettingFieldOnNonInstanceIsRuntimeError(t *testing.T) {
	_, err := run(t, `var x = 1; x.y = 2;`)
	require.Error(t, err)
	rtErr, ok := err.(*diagnostics.RuntimeError)
	require.True(t, ok)
	assert.Contains(t, rtErr.Message, "Only instances have fields.")
}

func TestLambdaCapturesOnlyGlobalNotEnclosingLocal(t *testing.T) {
	out, err := run(t, `
		var x = "global";
		fun wrap() {
			var x = "local";
			var f = lambda () { print x; };
			return f;
		}
		wrap()();
	`)
	require.NoError(t, err)
	assert.Equal(t, "global\n", out)
}

func TestTernaryEvaluatesOnlyChosenBranch(t *testing.T) {
	out, err := run(t, `
		fun boom() {
			print "evaluated";
			return "no";
		}
		print true ? "yes" : boom();
	`)
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)
}

func TestNumberStringifyHasNoTrailingZero(t *testing.T) {
	out, err := run(t, `print 4 / 2;`)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestClockNativeReturnsNumber(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "true"))
}
