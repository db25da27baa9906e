package interpreter

import (
	"strconv"

	"rune/pkg/ast"
	"rune/pkg/diagnostics"
	"rune/pkg/runtime"
	"rune/pkg/token"
)

// evaluateUnary implements unary "-" (numeric negation, requires a number)
// and unary "!" (returns the negation of the operand's truthiness,
// accepting any value).
func (i *Interpreter) evaluateUnary(e *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Kind {
	case token.Minus:
		num, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, diagnostics.NewRuntimeError(e.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	case token.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(right)}, nil
	default:
		return nil, diagnostics.NewRuntimeError(e.Operator, "Unknown unary operator.")
	}
}

// evaluateBinary implements arithmetic, comparison, equality, and the
// string-concatenation special case of "+".
func (i *Interpreter) evaluateBinary(e *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Kind {
	case token.Comma:
		return right, nil
	case token.Plus:
		return i.evaluatePlus(e.Operator, left, right)
	case token.Minus:
		return i.numericBinary(e.Operator, left, right, func(a, b float64) float64 { return a - b })
	case token.Star:
		return i.numericBinary(e.Operator, left, right, func(a, b float64) float64 { return a * b })
	case token.Slash:
		return i.evaluateDivide(e.Operator, left, right)
	case token.Greater:
		return i.comparisonBinary(e.Operator, left, right, func(a, b float64) bool { return a > b })
	case token.GreaterEqual:
		return i.comparisonBinary(e.Operator, left, right, func(a, b float64) bool { return a >= b })
	case token.Less:
		return i.comparisonBinary(e.Operator, left, right, func(a, b float64) bool { return a < b })
	case token.LessEqual:
		return i.comparisonBinary(e.Operator, left, right, func(a, b float64) bool { return a <= b })
	case token.EqualEqual:
		return runtime.BoolValue{Val: runtime.Equals(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !runtime.Equals(left, right)}, nil
	default:
		return nil, diagnostics.NewRuntimeError(e.Operator, "Unknown binary operator.")
	}
}

func (i *Interpreter) evaluatePlus(op token.Token, left, right runtime.Value) (runtime.Value, error) {
	lNum, lIsNum := left.(runtime.NumberValue)
	rNum, rIsNum := right.(runtime.NumberValue)
	if lIsNum && rIsNum {
		return runtime.NumberValue{Val: lNum.Val + rNum.Val}, nil
	}

	_, lIsStr := left.(runtime.StringValue)
	_, rIsStr := right.(runtime.StringValue)
	if lIsStr || rIsStr {
		leftStr, err := i.stringify(left)
		if err != nil {
			return nil, err
		}
		rightStr, err := i.stringify(right)
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: leftStr + rightStr}, nil
	}

	return nil, diagnostics.NewRuntimeError(op, "Operands must both be numbers or one of them a string.")
}

func (i *Interpreter) evaluateDivide(op token.Token, left, right runtime.Value) (runtime.Value, error) {
	lNum, rNum, err := requireNumbers(op, left, right)
	if err != nil {
		return nil, err
	}
	if rNum == 0 {
		return nil, diagnostics.NewRuntimeError(op, "Cannot divide by zero.")
	}
	return runtime.NumberValue{Val: lNum / rNum}, nil
}

func (i *Interpreter) numericBinary(op token.Token, left, right runtime.Value, f func(a, b float64) float64) (runtime.Value, error) {
	lNum, rNum, err := requireNumbers(op, left, right)
	if err != nil {
		return nil, err
	}
	return runtime.NumberValue{Val: f(lNum, rNum)}, nil
}

func (i *Interpreter) comparisonBinary(op token.Token, left, right runtime.Value, f func(a, b float64) bool) (runtime.Value, error) {
	lNum, rNum, err := requireNumbers(op, left, right)
	if err != nil {
		return nil, err
	}
	return runtime.BoolValue{Val: f(lNum, rNum)}, nil
}

func requireNumbers(op token.Token, left, right runtime.Value) (float64, float64, error) {
	lNum, lOk := left.(runtime.NumberValue)
	rNum, rOk := right.(runtime.NumberValue)
	if !lOk || !rOk {
		return 0, 0, diagnostics.NewRuntimeError(op, "Operands must be numbers.")
	}
	return lNum.Val, rNum.Val, nil
}

// formatNumber renders a float64 without a trailing ".0" when it is
// mathematically an integer.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
