// Package interpreter evaluates a resolved Rune AST by recursive descent
// against a chain of lexical environments, following the control-flow and
// error-handling shape of pkg/interpreter/eval_statements.go /
// eval_expressions.go in the teacher this was adapted from: non-local
// control flow (return, break) and runtime failures both travel as the
// standard `error` return value, distinguished by type switch at the
// construct that must catch them.
package interpreter

import (
	"fmt"
	"io"
	"time"

	"rune/pkg/ast"
	"rune/pkg/diagnostics"
	"rune/pkg/runtime"
	"rune/pkg/token"
)

// Interpreter walks a resolved statement list, producing side effects
// (printing) until it finishes or a runtime error unwinds execution.
type Interpreter struct {
	globals     *runtime.Environment
	environment *runtime.Environment
	depths      map[ast.Expr]int
	out         io.Writer
	clockOffset float64
}

// New returns an Interpreter that prints to out and resolves variable
// references using the given resolver depth table. clockOffset is added to
// every clock() reading (0 for normal wall-clock behavior).
func New(out io.Writer, depths map[ast.Expr]int, clockOffset float64) *Interpreter {
	if depths == nil {
		depths = make(map[ast.Expr]int)
	}
	globals := runtime.NewEnvironment(nil)
	i := &Interpreter{globals: globals, environment: globals, depths: depths, out: out, clockOffset: clockOffset}
	i.defineNatives()
	return i
}

// MergeDepths adds every entry of other into the interpreter's depth
// table. Used by the REPL, which resolves each line independently but
// shares one Interpreter (and so one depth table) across the whole
// session: a function declared on an earlier line keeps working when
// called from a later one because its body's resolved depths are never
// discarded.
func (i *Interpreter) MergeDepths(other map[ast.Expr]int) {
	for node, depth := range other {
		i.depths[node] = depth
	}
}

func (i *Interpreter) defineNatives() {
	i.globals.Define("clock", &runtime.NativeFunctionValue{
		NativeName: "clock",
		ArityVal:   0,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: float64(time.Now().UnixNano())/1e9 + i.clockOffset}, nil
		},
	})
}

// Interpret executes a statement list to completion, or returns the
// *diagnostics.RuntimeError that aborted it. A return/break signal
// escaping to the top level indicates a resolver bug, never a user error.
func (i *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := i.execute(stmt, i.environment); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execute(stmt ast.Stmt, env *runtime.Environment) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return i.executeBlock(s.Statements, runtime.NewEnvironment(env))
	case *ast.Class:
		return i.executeClass(s, env)
	case *ast.Expression:
		_, err := i.evaluate(s.Expression, env)
		return err
	case *ast.Function:
		fn := &runtime.FunctionValue{Declaration: s, Closure: env}
		env.Define(s.Name.Lexeme, fn)
		return nil
	case *ast.If:
		return i.executeIf(s, env)
	case *ast.Print:
		val, err := i.evaluate(s.Expression, env)
		if err != nil {
			return err
		}
		str, err := i.stringify(val)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.out, str)
		return nil
	case *ast.Return:
		return i.executeReturn(s, env)
	case *ast.Break:
		return breakSignal{}
	case *ast.Var:
		return i.executeVar(s, env)
	case *ast.While:
		return i.executeWhile(s, env)
	default:
		return fmt.Errorf("interpreter: unsupported statement type %T", s)
	}
}

// executeBlock pushes env, runs each statement, and guarantees the caller's
// own environment pointer is unaffected on every exit path — normal,
// return-signal, break-signal, or runtime error — because the pushed
// environment only ever lives in this call's local `env` parameter.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *runtime.Environment) error {
	for _, stmt := range stmts {
		if err := i.execute(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeIf(s *ast.If, env *runtime.Environment) error {
	cond, err := i.evaluate(s.Condition, env)
	if err != nil {
		return err
	}
	if runtime.IsTruthy(cond) {
		return i.execute(s.ThenBranch, env)
	}
	if s.ElseBranch != nil {
		return i.execute(s.ElseBranch, env)
	}
	return nil
}

func (i *Interpreter) executeReturn(s *ast.Return, env *runtime.Environment) error {
	var result runtime.Value = runtime.NilValue{}
	if s.Value != nil {
		val, err := i.evaluate(s.Value, env)
		if err != nil {
			return err
		}
		result = val
	}
	return returnSignal{value: result}
}

func (i *Interpreter) executeVar(s *ast.Var, env *runtime.Environment) error {
	var value runtime.Value = runtime.NilValue{}
	if s.Initializer != nil {
		v, err := i.evaluate(s.Initializer, env)
		if err != nil {
			return err
		}
		value = v
	}
	env.Define(s.Name.Lexeme, value)
	return nil
}

// executeWhile evaluates the condition expression fresh on every iteration
// and tests the truthiness of that evaluated value — not the truthiness of
// the condition node itself, which a prior implementation confused.
func (i *Interpreter) executeWhile(s *ast.While, env *runtime.Environment) error {
	for {
		cond, err := i.evaluate(s.Condition, env)
		if err != nil {
			return err
		}
		if !runtime.IsTruthy(cond) {
			return nil
		}
		if err := i.execute(s.Body, env); err != nil {
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			return err
		}
	}
}

func (i *Interpreter) executeClass(s *ast.Class, env *runtime.Environment) error {
	var superclass *runtime.ClassValue
	if s.Superclass != nil {
		superVal, err := i.evaluate(s.Superclass, env)
		if err != nil {
			return err
		}
		sc, ok := superVal.(*runtime.ClassValue)
		if !ok {
			return diagnostics.NewRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	env.Define(s.Name.Lexeme, runtime.NilValue{})

	class := runtime.NewClass(s.Name.Lexeme, superclass)
	for _, method := range s.Methods {
		fn := &runtime.FunctionValue{
			Declaration:   method,
			Closure:       env,
			IsInitializer: method.Name.Lexeme == "init",
		}
		class.Methods[method.Name.Lexeme] = fn
	}
	for _, method := range s.ClassMethods {
		fn := &runtime.FunctionValue{Declaration: method, Closure: env}
		class.ClassMethods[method.Name.Lexeme] = fn
	}

	return env.Assign(s.Name.Lexeme, class)
}

// depthOf returns the resolver-recorded scope depth for node, and whether
// one was recorded at all (absence means "global").
func (i *Interpreter) depthOf(node ast.Expr) (int, bool) {
	d, ok := i.depths[node]
	return d, ok
}

// lookupVariable reads name using the resolver's recorded depth for node,
// falling back to the global environment when no depth was recorded.
func (i *Interpreter) lookupVariable(node ast.Expr, name token.Token, env *runtime.Environment) (runtime.Value, error) {
	var (
		val runtime.Value
		err error
	)
	if depth, ok := i.depthOf(node); ok {
		val, err = env.GetAt(depth, name.Lexeme)
	} else {
		val, err = i.globals.Get(name.Lexeme)
	}
	if err != nil {
		return nil, diagnostics.NewRuntimeError(name, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
	}
	return val, nil
}

// assignVariable writes name using the resolver's recorded depth for node,
// falling back to the global environment when no depth was recorded.
func (i *Interpreter) assignVariable(node ast.Expr, name token.Token, value runtime.Value, env *runtime.Environment) error {
	if depth, ok := i.depthOf(node); ok {
		env.AssignAt(depth, name.Lexeme, value)
		return nil
	}
	if err := i.globals.Assign(name.Lexeme, value); err != nil {
		return diagnostics.NewRuntimeError(name, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
	}
	return nil
}
