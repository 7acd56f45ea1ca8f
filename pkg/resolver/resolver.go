// Package resolver performs the static pass between parsing and evaluation.
// For every local variable reference it records how many scopes separate the
// use from its declaration; references that reach no local scope are globals
// and get no entry.
package resolver

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/token"
)

// Locals receives scope distances. The interpreter implements it.
type Locals interface {
	Resolve(expr ast.Expression, depth int)
}

// Resolver walks statements once. A Resolver can be reused across
// successive inputs (the REPL does this); global declarations persist.
type Resolver struct {
	locals   Locals
	reporter diagnostics.Reporter

	globals map[string]bool
	scopes  []map[string]bool

	function FunctionKind
	class    ClassKind
	loop     LoopKind
	inStatic bool

	errs ErrorList
}

func New(locals Locals, reporter diagnostics.Reporter) *Resolver {
	if reporter == nil {
		reporter = diagnostics.Discard
	}
	return &Resolver{
		locals:   locals,
		reporter: reporter,
		globals:  make(map[string]bool),
	}
}

// Resolve resolves a program (or one REPL entry). It returns an ErrorList
// when anything was reported; distances for correct parts are still recorded.
func (r *Resolver) Resolve(stmts []ast.Statement) error {
	r.errs = nil
	r.scopes = r.scopes[:0]
	r.function, r.class, r.loop, r.inStatic = FunctionNone, ClassNone, LoopNone, false
	r.resolveStatements(stmts)
	if len(r.errs) > 0 {
		return r.errs
	}
	return nil
}

func (r *Resolver) error(tok token.Token, message string) {
	where := diagnostics.Where(tok)
	r.errs = append(r.errs, &ResolveError{Line: tok.Line, Where: where, Message: message})
	r.reporter.Report(tok.Line, where, message)
}

func (r *Resolver) resolveStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case nil:
	case *ast.BlockStatement:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *ast.VarStatement:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer)
		}
		r.define(s.Name)
	case *ast.FunctionDeclaration:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, FunctionPlain)
	case *ast.ClassDeclaration:
		r.resolveClass(s)
	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)
	case *ast.PrintStatement:
		r.resolveExpression(s.Expression)
	case *ast.IfStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *ast.WhileStatement:
		r.resolveExpression(s.Condition)
		enclosing := r.loop
		r.loop = LoopWhile
		r.resolveStatement(s.Body)
		r.loop = enclosing
	case *ast.BreakStatement:
		if r.loop == LoopNone {
			r.error(s.Keyword, "Can't break from outside a loop.")
		}
	case *ast.ReturnStatement:
		if r.function == FunctionNone {
			r.error(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.function == FunctionInitializer {
				r.error(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpression(s.Value)
		}
	}
}

func (r *Resolver) resolveClass(s *ast.ClassDeclaration) {
	enclosingClass, enclosingStatic := r.class, r.inStatic
	r.class, r.inStatic = ClassPlain, false
	defer func() { r.class, r.inStatic = enclosingClass, enclosingStatic }()

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.error(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.class = ClassSubclass
		r.resolveExpression(s.Superclass)
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	// Static methods bind neither this nor super.
	r.inStatic = true
	for _, method := range s.StaticMethods {
		r.resolveFunction(method.Params, method.Body, FunctionStaticMethod)
	}
	r.inStatic = false

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, method := range s.Methods {
		kind := FunctionMethod
		if method.Name.Lexeme == "init" {
			kind = FunctionInitializer
		}
		r.resolveFunction(method.Params, method.Body, kind)
	}
	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}
}

func (r *Resolver) resolveFunction(params []token.Token, body []ast.Statement, kind FunctionKind) {
	enclosingFunction, enclosingLoop := r.function, r.loop
	r.function, r.loop = kind, LoopNone

	r.beginScope()
	for _, param := range params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(body)
	r.endScope()

	r.function, r.loop = enclosingFunction, enclosingLoop
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case nil:
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.resolveEnclosing(e, e.Name)
				return
			}
		} else if defined, ok := r.globals[e.Name.Lexeme]; ok && !defined {
			r.error(e.Name, "Can't read local variable in its own initializer.")
		}
		r.resolveLocal(e, e.Name)
	case *ast.Assign:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.Logical:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.Unary:
		r.resolveExpression(e.Right)
	case *ast.Ternary:
		r.resolveExpression(e.Condition)
		r.resolveExpression(e.Then)
		r.resolveExpression(e.Else)
	case *ast.Grouping:
		r.resolveExpression(e.Expression)
	case *ast.Literal:
	case *ast.Call:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.Get:
		r.resolveExpression(e.Object)
	case *ast.Set:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Object)
	case *ast.This:
		switch {
		case r.class == ClassNone:
			r.error(e.Keyword, "Can't use 'this' outside of a class.")
			return
		case r.inStatic:
			r.error(e.Keyword, "Can't use 'this' in a static method.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Super:
		switch r.class {
		case ClassNone:
			r.error(e.Keyword, "Can't use 'super' outside of a class.")
			return
		case ClassPlain:
			r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		if r.inStatic {
			r.error(e.Keyword, "Can't use 'super' in a static method.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Lambda:
		r.resolveFunction(e.Params, e.Body, FunctionPlain)
	}
}

// resolveLocal records the distance to the innermost scope declaring name.
// The search stops at the first match.
func (r *Resolver) resolveLocal(expr ast.Expression, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			if r.locals != nil {
				r.locals.Resolve(expr, len(r.scopes)-1-i)
			}
			return
		}
	}
}

// resolveEnclosing handles a read of a name whose innermost declaration is
// still being initialized. The read binds to the nearest enclosing frame (or
// global) that already defines the name; without one it is an error.
func (r *Resolver) resolveEnclosing(expr ast.Expression, name token.Token) {
	for i := len(r.scopes) - 2; i >= 0; i-- {
		if r.scopes[i][name.Lexeme] {
			if r.locals != nil {
				r.locals.Resolve(expr, len(r.scopes)-1-i)
			}
			return
		}
	}
	if r.globals[name.Lexeme] {
		return
	}
	r.error(name, "Can't read local variable in its own initializer.")
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		// Redeclaring a global may still read the earlier binding.
		if !r.globals[name.Lexeme] {
			r.globals[name.Lexeme] = false
		}
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.error(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		r.globals[name.Lexeme] = true
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
