// Package runtime holds the evaluator's runtime value representations and
// lexical environments. Calling conventions for Callable values live in
// pkg/interpreter, which is the only package that needs to drive evaluation;
// this package stays a plain data model so it has no dependency on it.
package runtime

import (
	"rune/pkg/ast"
)

// Kind identifies a runtime value's category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindLambda
	KindNativeFunction
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindLambda:
		return "lambda"
	case KindNativeFunction:
		return "native_function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Value is the shared behavior for every runtime value.
type Value interface {
	Kind() Kind
}

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct{ Val bool }

func (BoolValue) Kind() Kind { return KindBool }

type NumberValue struct{ Val float64 }

func (NumberValue) Kind() Kind { return KindNumber }

type StringValue struct{ Val string }

func (StringValue) Kind() Kind { return KindString }

// FunctionValue is a user-declared function or method: a declaration plus
// the environment captured at the point of declaration. Bound methods are
// represented as a FunctionValue whose Closure is a fresh single-entry
// environment defining "this", enclosing the method's own captured
// environment — see bindMethod in the interpreter package.
type FunctionValue struct {
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (*FunctionValue) Kind() Kind { return KindFunction }

func (f *FunctionValue) Arity() int { return len(f.Declaration.Params) }

func (f *FunctionValue) Name() string { return f.Declaration.Name.Lexeme }

// LambdaValue is a lambda expression's runtime representation. Per spec its
// captured environment is the interpreter's global environment at creation
// time, not the surrounding lexical scope — lambdas do not close over
// locals the way named functions do.
type LambdaValue struct {
	Declaration *ast.Lambda
	Closure     *Environment
}

func (*LambdaValue) Kind() Kind { return KindLambda }

func (l *LambdaValue) Arity() int { return len(l.Declaration.Params) }

// NativeFunctionValue wraps a Go function exposed to Rune code, e.g. clock().
type NativeFunctionValue struct {
	NativeName string
	ArityVal   int
	Fn         func(args []Value) (Value, error)
}

func (*NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (n *NativeFunctionValue) Arity() int { return n.ArityVal }

// ClassValue is a class declaration's runtime representation: a method
// table, a class-method table, and an optional superclass reference.
// Class-level methods are looked up directly on this table rather than via
// a metaclass instance, per the simpler of the two designs available.
type ClassValue struct {
	ClassName    string
	Superclass   *ClassValue
	Methods      map[string]*FunctionValue
	ClassMethods map[string]*FunctionValue
}

func NewClass(name string, superclass *ClassValue) *ClassValue {
	return &ClassValue{
		ClassName:    name,
		Superclass:   superclass,
		Methods:      make(map[string]*FunctionValue),
		ClassMethods: make(map[string]*FunctionValue),
	}
}

func (*ClassValue) Kind() Kind { return KindClass }

// FindMethod searches this class then its superclass chain for an instance
// method.
func (c *ClassValue) FindMethod(name string) (*FunctionValue, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		if m, ok := cls.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// FindClassMethod searches this class then its superclass chain for a
// class-level (static) method.
func (c *ClassValue) FindClassMethod(name string) (*FunctionValue, bool) {
	for cls := c; cls != nil; cls = cls.Superclass {
		if m, ok := cls.ClassMethods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Arity is the arity of the class's "init" method, or 0 if it has none.
func (c *ClassValue) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// InstanceValue is an instance of a ClassValue with its own mutable field
// map. Fields shadow methods on lookup.
type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

func (*InstanceValue) Kind() Kind { return KindInstance }

// Callable is implemented by every value that can appear as a call's
// callee: FunctionValue, LambdaValue, NativeFunctionValue, and ClassValue
// (construction).
type Callable interface {
	Value
	Arity() int
}

var (
	_ Callable = (*FunctionValue)(nil)
	_ Callable = (*LambdaValue)(nil)
	_ Callable = (*NativeFunctionValue)(nil)
	_ Callable = (*ClassValue)(nil)
)

// IsTruthy implements Rune's truthiness rule: nil and false are falsey,
// everything else — including 0 and "" — is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Equals implements Rune's equality rule: nil equals only nil; numbers,
// bools, and strings compare by value; everything else (callables,
// instances) compares by identity.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	default:
		return a == b
	}
}
