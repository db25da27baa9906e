package interpreter

import (
	"fmt"

	"rune/pkg/ast"
	"rune/pkg/runtime"
	"rune/pkg/token"
)

func (i *Interpreter) evaluate(expr ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Value), nil
	case *ast.Grouping:
		return i.evaluate(e.Expression, env)
	case *ast.Variable:
		return i.lookupVariable(e, e.Name, env)
	case *ast.This:
		return i.lookupVariable(e, e.Keyword, env)
	case *ast.Assign:
		return i.evaluateAssign(e, env)
	case *ast.Unary:
		return i.evaluateUnary(e, env)
	case *ast.Binary:
		return i.evaluateBinary(e, env)
	case *ast.Logical:
		return i.evaluateLogical(e, env)
	case *ast.Ternary:
		return i.evaluateTernary(e, env)
	case *ast.Call:
		return i.evaluateCall(e, env)
	case *ast.Get:
		return i.evaluateGet(e, env)
	case *ast.Set:
		return i.evaluateSet(e, env)
	case *ast.Lambda:
		return &runtime.LambdaValue{Declaration: e, Closure: i.globals}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported expression type %T", e)
	}
}

func literalValue(v interface{}) runtime.Value {
	switch val := v.(type) {
	case nil:
		return runtime.NilValue{}
	case bool:
		return runtime.BoolValue{Val: val}
	case float64:
		return runtime.NumberValue{Val: val}
	case string:
		return runtime.StringValue{Val: val}
	default:
		return runtime.NilValue{}
	}
}

func (i *Interpreter) evaluateAssign(e *ast.Assign, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluate(e.Value, env)
	if err != nil {
		return nil, err
	}
	if err := i.assignVariable(e, e.Name, value, env); err != nil {
		return nil, err
	}
	return value, nil
}

// evaluateTernary evaluates the condition, then evaluates and returns
// exactly one of the two branches.
func (i *Interpreter) evaluateTernary(e *ast.Ternary, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluate(e.Condition, env)
	if err != nil {
		return nil, err
	}
	if runtime.IsTruthy(cond) {
		return i.evaluate(e.Then, env)
	}
	return i.evaluate(e.Else, env)
}

// evaluateLogical short-circuits: for "or", a truthy left is returned
// unconverted without evaluating right; for "and", a falsey left is
// returned unconverted without evaluating right.
func (i *Interpreter) evaluateLogical(e *ast.Logical, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}

	if e.Operator.Kind == token.Or {
		if runtime.IsTruthy(left) {
			return left, nil
		}
	} else {
		if !runtime.IsTruthy(left) {
			return left, nil
		}
	}
	return i.evaluate(e.Right, env)
}
