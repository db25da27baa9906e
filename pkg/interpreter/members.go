package interpreter

import (
	"rune/pkg/ast"
	"rune/pkg/diagnostics"
	"rune/pkg/runtime"
)

// evaluateGet resolves a "." access. An instance checks its own fields
// first, then its class's (and superclasses') instance methods, bound to
// the instance. A class value exposes only its class-level methods.
func (i *Interpreter) evaluateGet(e *ast.Get, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(e.Object, env)
	if err != nil {
		return nil, err
	}

	switch obj := object.(type) {
	case *runtime.InstanceValue:
		if field, ok := obj.Fields[e.Name.Lexeme]; ok {
			return field, nil
		}
		if method, ok := obj.Class.FindMethod(e.Name.Lexeme); ok {
			return bindMethod(method, obj), nil
		}
		return nil, diagnostics.NewRuntimeError(e.Name, "No such property found: '"+e.Name.Lexeme+"'.")
	case *runtime.ClassValue:
		if method, ok := obj.FindClassMethod(e.Name.Lexeme); ok {
			return bindMethod(method, obj), nil
		}
		return nil, diagnostics.NewRuntimeError(e.Name, "No such static method found: "+e.Name.Lexeme+".")
	default:
		return nil, diagnostics.NewRuntimeError(e.Name, "Only instances and classes have properties.")
	}
}

// evaluateSet assigns a field on an instance, creating it if absent.
// Fields are untyped and unconstrained; setting never fails for a valid
// instance receiver.
func (i *Interpreter) evaluateSet(e *ast.Set, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(e.Object, env)
	if err != nil {
		return nil, err
	}

	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, diagnostics.NewRuntimeError(e.Name, "Only instances have fields.")
	}

	value, err := i.evaluate(e.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Fields[e.Name.Lexeme] = value
	return value, nil
}
