// Package resolver performs the single static pass that fixes each
// variable/this reference to a lexical scope depth, and enforces Rune's
// static semantic rules (self-reference in initializer, duplicate local,
// return/break/this out of context, class self-inheritance, value return
// from an initializer).
package resolver

import (
	"rune/pkg/ast"
	"rune/pkg/diagnostics"
	"rune/pkg/token"
)

type functionKind int

const (
	functionNone functionKind = iota
	functionFunction
	functionInit
	functionMethod
	functionClassMethod
)

type classKind int

const (
	classNone classKind = iota
	classClass
)

// scope maps a local name to whether it has finished its initializer
// (declare sets false, define sets true).
type scope map[string]bool

// Resolver walks a statement list once, recording each Variable/This/Assign
// target's depth into a side-table keyed by node identity.
type Resolver struct {
	scopes          []scope
	depths          map[ast.Expr]int
	diags           *diagnostics.Bag
	currentFunction functionKind
	currentClass    classKind
	inALoop         bool
}

// New returns a Resolver reporting static errors into diags.
func New(diags *diagnostics.Bag) *Resolver {
	return &Resolver{depths: make(map[ast.Expr]int), diags: diags}
}

// Resolve walks the given statement list and returns the depth side-table.
// Absence of an entry for a node means "global".
func (r *Resolver) Resolve(stmts []ast.Stmt) map[ast.Expr]int {
	r.resolveStmts(stmts)
	return r.depths
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Expression:
		r.resolveExpr(s.Expression)
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionFunction)
	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case *ast.Print:
		r.resolveExpr(s.Expression)
	case *ast.Return:
		r.resolveReturn(s)
	case *ast.Break:
		if !r.inALoop {
			r.diags.ReportAt(s.Keyword, "Cannot use break when not in a loop.")
		}
	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.While:
		r.resolveExpr(s.Condition)
		enclosingLoop := r.inALoop
		r.inALoop = true
		r.resolveStmt(s.Body)
		r.inALoop = enclosingLoop
	}
}

func (r *Resolver) resolveReturn(s *ast.Return) {
	if r.currentFunction == functionNone {
		r.diags.ReportAt(s.Keyword, "Cannot return from top-level code.")
	}
	if s.Value != nil {
		if r.currentFunction == functionInit {
			r.diags.ReportAt(s.Keyword, "Cannot return a value from an instance initializer.")
		}
		r.resolveExpr(s.Value)
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	r.declare(s.Name)
	r.define(s.Name)

	enclosingClass := r.currentClass
	r.currentClass = classClass

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.diags.ReportAt(s.Superclass.Name, "A class cannot inherit from itself.")
		}
		r.resolveExpr(s.Superclass)
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInit
		}
		r.resolveFunction(method, kind)
	}
	for _, method := range s.ClassMethods {
		r.resolveFunction(method, functionClassMethod)
	}

	r.endScope()
	r.currentClass = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Ternary:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *ast.Grouping:
		r.resolveExpr(e.Expression)
	case *ast.Literal:
		// no identifiers to resolve
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.diags.ReportAt(e.Name, "Cannot read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.This:
		if r.currentClass == classNone {
			r.diags.ReportAt(e.Keyword, "Cannot use 'this' outside a class.")
			return
		}
		r.resolveLocalName(e, e.Keyword)
	case *ast.Lambda:
		r.resolveLambda(e)
	}
}

// resolveLambda resolves a lambda body against an isolated scope stack
// containing only the lambda's own parameters — not the enclosing lexical
// scopes a named function's body would see. This mirrors the runtime
// evaluator, which (per spec) creates every lambda call's environment as a
// direct child of the global environment rather than of the lambda's
// declaration site: a name unresolved within the lambda's own parameters
// falls through to "global" at both resolve time and call time, so the
// depth invariant (a recorded depth d always finds its name d links out)
// still holds despite the lambda's non-lexical capture.
func (r *Resolver) resolveLambda(l *ast.Lambda) {
	enclosingFunction := r.currentFunction
	r.currentFunction = functionFunction

	enclosingScopes := r.scopes
	r.scopes = nil

	r.beginScope()
	for _, param := range l.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(l.Body)
	r.endScope()

	r.scopes = enclosingScopes
	r.currentFunction = enclosingFunction
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }

func (r *Resolver) endScope() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	innermost := r.scopes[len(r.scopes)-1]
	if _, ok := innermost[name.Lexeme]; ok {
		r.diags.ReportAt(name, "Already a variable with this name in this scope.")
	}
	innermost[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal records depth = scopes.size()-1-i for the first scope
// (searching from innermost outward) that binds name. No match leaves the
// node absent from the table, meaning "global".
func (r *Resolver) resolveLocal(node ast.Expr, name token.Token) {
	r.resolveLocalName(node, name)
}

func (r *Resolver) resolveLocalName(node ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.depths[node] = len(r.scopes) - 1 - i
			return
		}
	}
}
