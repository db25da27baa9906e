package interpreter

import (
	"fmt"

	"rune/pkg/ast"
	"rune/pkg/diagnostics"
	"rune/pkg/runtime"
)

func (i *Interpreter) evaluateCall(e *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluate(e.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]runtime.Value, 0, len(e.Arguments))
	for _, argExpr := range e.Arguments {
		val, err := i.evaluate(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	callable, ok := callee.(runtime.Callable)
	if !ok {
		return nil, diagnostics.NewRuntimeError(e.ClosingParen, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, diagnostics.NewRuntimeError(e.ClosingParen,
			fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}

	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(fn, args)
	case *runtime.LambdaValue:
		return i.callLambda(fn, args)
	case *runtime.NativeFunctionValue:
		return fn.Fn(args)
	case *runtime.ClassValue:
		return i.instantiate(fn, args)
	default:
		return nil, diagnostics.NewRuntimeError(e.ClosingParen, "Can only call functions and classes.")
	}
}

// callFunction pushes a new environment enclosing the function's captured
// environment, binds parameters, executes the body, and returns the
// return-signal's value (nil if the body falls off the end). An init
// method ignores whatever the body returns and always yields the instance
// bound as "this" at depth 0 of its own closure.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	callEnv := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		callEnv.Define(param.Lexeme, args[idx])
	}

	err := i.executeBlock(fn.Declaration.Body, callEnv)
	if fn.IsInitializer {
		this, getErr := fn.Closure.GetAt(0, "this")
		if getErr != nil {
			return nil, getErr
		}
		if err != nil {
			if _, ok := err.(returnSignal); ok {
				return this, nil
			}
			return nil, err
		}
		return this, nil
	}

	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.NilValue{}, nil
}

// callLambda mirrors callFunction but a lambda is never an initializer.
func (i *Interpreter) callLambda(l *runtime.LambdaValue, args []runtime.Value) (runtime.Value, error) {
	callEnv := runtime.NewEnvironment(l.Closure)
	for idx, param := range l.Declaration.Params {
		callEnv.Define(param.Lexeme, args[idx])
	}

	if err := i.executeBlock(l.Declaration.Body, callEnv); err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.NilValue{}, nil
}

// instantiate allocates a new instance and, if the class declares an
// "init" method, binds and calls it with args before returning the
// instance.
func (i *Interpreter) instantiate(class *runtime.ClassValue, args []runtime.Value) (runtime.Value, error) {
	instance := runtime.NewInstance(class)
	if init, ok := class.FindMethod("init"); ok {
		bound := bindMethod(init, instance)
		if _, err := i.callFunction(bound, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// bindMethod produces the callable bound to receiver: a fresh single-entry
// environment defining "this", enclosing the method's own captured
// environment, carrying the method's isInitializer flag. receiver is an
// *InstanceValue for instance methods or the *ClassValue itself for class
// methods — the resolver puts "this" in the same shared scope for both
// (pkg/resolver/resolver.go's resolveClass), so both need the same binding.
func bindMethod(method *runtime.FunctionValue, receiver runtime.Value) *runtime.FunctionValue {
	env := runtime.NewEnvironment(method.Closure)
	env.Define("this", receiver)
	return &runtime.FunctionValue{
		Declaration:   method.Declaration,
		Closure:       env,
		IsInitializer: method.IsInitializer,
	}
}
