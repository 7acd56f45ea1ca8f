package ast

import (
	"fmt"
	"strconv"
	"strings"

	"lox/interpreter-go/pkg/token"
)

// Printer renders nodes as parenthesised prefix text. It has no runtime
// behaviour and exists for debugging and tests.
type Printer struct{}

// PrintStatements renders each statement on its own line.
func (p Printer) PrintStatements(stmts []Statement) string {
	lines := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		lines = append(lines, p.Statement(stmt))
	}
	return strings.Join(lines, "\n")
}

func (p Printer) Statement(stmt Statement) string {
	switch s := stmt.(type) {
	case nil:
		return "<nil>"
	case *ExpressionStatement:
		return p.parenthesize(";", s.Expression)
	case *PrintStatement:
		return p.parenthesize("print", s.Expression)
	case *VarStatement:
		if s.Initializer == nil {
			return fmt.Sprintf("(var %s)", s.Name.Lexeme)
		}
		return p.parenthesize("var "+s.Name.Lexeme, s.Initializer)
	case *BlockStatement:
		return "(block" + p.statementList(s.Statements) + ")"
	case *IfStatement:
		if s.Else == nil {
			return fmt.Sprintf("(if %s %s)", p.Expression(s.Condition), p.Statement(s.Then))
		}
		return fmt.Sprintf("(if %s %s %s)", p.Expression(s.Condition), p.Statement(s.Then), p.Statement(s.Else))
	case *WhileStatement:
		return fmt.Sprintf("(while %s %s)", p.Expression(s.Condition), p.Statement(s.Body))
	case *BreakStatement:
		return "(break)"
	case *FunctionDeclaration:
		return p.function("fun "+s.Name.Lexeme, s)
	case *ReturnStatement:
		if s.Value == nil {
			return "(return)"
		}
		return p.parenthesize("return", s.Value)
	case *ClassDeclaration:
		var b strings.Builder
		b.WriteString("(class ")
		b.WriteString(s.Name.Lexeme)
		if s.Superclass != nil {
			b.WriteString(" < ")
			b.WriteString(s.Superclass.Name.Lexeme)
		}
		for _, m := range s.Methods {
			b.WriteString(" ")
			b.WriteString(p.function("method "+m.Name.Lexeme, m))
		}
		for _, m := range s.StaticMethods {
			b.WriteString(" ")
			b.WriteString(p.function("static "+m.Name.Lexeme, m))
		}
		b.WriteString(")")
		return b.String()
	default:
		return fmt.Sprintf("(unknown %s)", stmt.NodeType())
	}
}

func (p Printer) Expression(expr Expression) string {
	switch e := expr.(type) {
	case nil:
		return "<nil>"
	case *Literal:
		return literalText(e.Value)
	case *Variable:
		return e.Name.Lexeme
	case *Assign:
		return p.parenthesize("= "+e.Name.Lexeme, e.Value)
	case *Binary:
		return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *Logical:
		return p.parenthesize(e.Operator.Lexeme, e.Left, e.Right)
	case *Unary:
		return p.parenthesize(e.Operator.Lexeme, e.Right)
	case *Ternary:
		return p.parenthesize("?:", e.Condition, e.Then, e.Else)
	case *Grouping:
		return p.parenthesize("group", e.Expression)
	case *Call:
		return p.parenthesize("call", append([]Expression{e.Callee}, e.Arguments...)...)
	case *Get:
		return p.parenthesize("."+e.Name.Lexeme, e.Object)
	case *Set:
		return p.parenthesize("=."+e.Name.Lexeme, e.Object, e.Value)
	case *Super:
		return "(super " + e.Method.Lexeme + ")"
	case *This:
		return "this"
	case *Lambda:
		return "(lambda (" + joinParams(e.Params) + ")" + p.statementList(e.Body) + ")"
	default:
		return fmt.Sprintf("(unknown %s)", expr.NodeType())
	}
}

func (p Printer) function(label string, fn *FunctionDeclaration) string {
	return "(" + label + " (" + joinParams(fn.Params) + ")" + p.statementList(fn.Body) + ")"
}

func (p Printer) statementList(stmts []Statement) string {
	var b strings.Builder
	for _, stmt := range stmts {
		b.WriteString(" ")
		b.WriteString(p.Statement(stmt))
	}
	return b.String()
}

func (p Printer) parenthesize(name string, exprs ...Expression) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteString(" ")
		b.WriteString(p.Expression(expr))
	}
	b.WriteString(")")
	return b.String()
}

func joinParams(params []token.Token) string {
	names := make([]string, 0, len(params))
	for _, param := range params {
		names = append(names, param.Lexeme)
	}
	return strings.Join(names, " ")
}

func literalText(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
