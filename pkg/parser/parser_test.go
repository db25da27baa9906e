package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rune/pkg/ast"
	"rune/pkg/diagnostics"
	"rune/pkg/scanner"
)

func parseSource(t *testing.T, source string) ([]ast.Stmt, *diagnostics.Bag) {
	t.Helper()
	diags := diagnostics.NewBag()
	tokens := scanner.New(source, diags).ScanTokens()
	stmts := New(tokens, diags).Parse()
	return stmts, diags
}

func TestParseVarDeclaration(t *testing.T) {
	stmts, diags := parseSource(t, "var x = 1 + 2;")
	require.False(t, diags.HasErrors())
	require.Len(t, stmts, 1)
	v, ok := stmts[0].(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name.Lexeme)
	bin, ok := v.Initializer.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Operator.Lexeme)
}

func TestParseOperatorPrecedenceAndAssociativity(t *testing.T) {
	// 1 + 2 * 3 should group as 1 + (2 * 3), left-associative on each level.
	stmts, diags := parseSource(t, "1 + 2 * 3;")
	require.False(t, diags.HasErrors())
	expr := stmts[0].(*ast.Expression).Expression
	add, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "+", add.Operator.Lexeme)
	mul, ok := add.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Operator.Lexeme)
}

func TestParseLeftAssociativeSubtraction(t *testing.T) {
	// 10 - 3 - 2 should group as (10 - 3) - 2, not 10 - (3 - 2).
	stmts, diags := parseSource(t, "10 - 3 - 2;")
	require.False(t, diags.HasErrors())
	expr := stmts[0].(*ast.Expression).Expression
	outer, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, "-", outer.Operator.Lexeme)
	_, leftIsBinary := outer.Left.(*ast.Binary)
	assert.True(t, leftIsBinary)
	_, rightIsLiteral := outer.Right.(*ast.Literal)
	assert.True(t, rightIsLiteral)
}

func TestParseTernaryPrecedence(t *testing.T) {
	stmts, diags := parseSource(t, "true ? 1 : 2;")
	require.False(t, diags.HasErrors())
	ternary, ok := stmts[0].(*ast.Expression).Expression.(*ast.Ternary)
	require.True(t, ok)
	assert.Equal(t, true, ternary.Condition.(*ast.Literal).Value)
}

func TestParseLeadingBinaryDiagnostic(t *testing.T) {
	_, diags := parseSource(t, "+ 1;")
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.All()[0].Message, "Expected a left operand.")
}

func TestParseErrorRecoverySynchronizesAtNextStatement(t *testing.T) {
	stmts, diags := parseSource(t, "var ; var y = 1;")
	require.True(t, diags.HasErrors())
	// despite the first declaration's broken name, the second var survives.
	found := false
	for _, s := range stmts {
		if v, ok := s.(*ast.Var); ok && v.Name.Lexeme == "y" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseClassWithMethodsAndClassMethods(t *testing.T) {
	src := `class Greeter {
		init(name) { this.name = name; }
		greet() { print this.name; }
		class hello() { print "hello"; }
	}`
	stmts, diags := parseSource(t, src)
	require.False(t, diags.HasErrors())
	class, ok := stmts[0].(*ast.Class)
	require.True(t, ok)
	require.Len(t, class.Methods, 2)
	require.Len(t, class.ClassMethods, 1)
	assert.Equal(t, "hello", class.ClassMethods[0].Name.Lexeme)
}

func TestParseSuperIsStaticError(t *testing.T) {
	_, diags := parseSource(t, "class B < A { m() { super.m(); } }")
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.All()[0].Message, "'super' is not a valid expression.")
}

func TestParseForDesugarsIntoWhile(t *testing.T) {
	stmts, diags := parseSource(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, diags.HasErrors())
	outerBlock, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, outerBlock.Statements, 2)
	_, initIsVar := outerBlock.Statements[0].(*ast.Var)
	assert.True(t, initIsVar)
	whileStmt, ok := outerBlock.Statements[1].(*ast.While)
	require.True(t, ok)
	innerBlock, ok := whileStmt.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, innerBlock.Statements, 2)
}

func TestParseLambdaExpression(t *testing.T) {
	stmts, diags := parseSource(t, "var f = lambda (a, b) { return a + b; };")
	require.False(t, diags.HasErrors())
	v := stmts[0].(*ast.Var)
	lambda, ok := v.Initializer.(*ast.Lambda)
	require.True(t, ok)
	assert.Len(t, lambda.Params, 2)
}

func TestParseMaxParametersDiagnostic(t *testing.T) {
	var b []byte
	b = append(b, []byte("fun f(")...)
	for i := 0; i < 33; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, byte('a'+i%26))
	}
	b = append(b, []byte(") {}")...)
	_, diags := parseSource(t, string(b))
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.All()[0].Message, "Can't have more than 32 parameters.")
}

func TestParseCallAndGetChain(t *testing.T) {
	stmts, diags := parseSource(t, "a.b.c(1, 2);")
	require.False(t, diags.HasErrors())
	call, ok := stmts[0].(*ast.Expression).Expression.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Arguments, 2)
	get, ok := call.Callee.(*ast.Get)
	require.True(t, ok)
	assert.Equal(t, "c", get.Name.Lexeme)
}
