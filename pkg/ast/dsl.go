package ast

import "lox/interpreter-go/pkg/token"

// Builders for hand-constructed trees in tests. Tokens carry line 1.

var operatorKinds = map[string]token.Kind{
	"+":   token.Plus,
	"-":   token.Minus,
	"*":   token.Star,
	"/":   token.Slash,
	"<":   token.Less,
	"<=":  token.LessEqual,
	">":   token.Greater,
	">=":  token.GreaterEqual,
	"==":  token.EqualEqual,
	"!=":  token.BangEqual,
	"!":   token.Bang,
	",":   token.Comma,
	"and": token.And,
	"or":  token.Or,
}

// Op builds an operator token from its lexeme.
func Op(lexeme string) token.Token {
	kind, ok := operatorKinds[lexeme]
	if !ok {
		panic("ast: unknown operator " + lexeme)
	}
	return token.New(kind, lexeme, nil, 1)
}

func Name(name string) token.Token { return token.Ident(name, 1) }

func Num(v float64) *Literal { return NewLiteral(v) }
func Str(v string) *Literal { return NewLiteral(v) }
func Bool(v bool) *Literal { return NewLiteral(v) }
func NilLit() *Literal { return NewLiteral(nil) }
func Var(name string) *Variable { return NewVariable(Name(name)) }

func Bin(op string, left, right Expression) *Binary {
	return NewBinary(left, Op(op), right)
}

func Logic(op string, left, right Expression) *Logical {
	return NewLogical(left, Op(op), right)
}

func Neg(right Expression) *Unary { return NewUnary(Op("-"), right) }
func Not(right Expression) *Unary { return NewUnary(Op("!"), right) }

func AssignTo(name string, value Expression) *Assign {
	return NewAssign(Name(name), value)
}

func CallOf(callee Expression, args ...Expression) *Call {
	return NewCall(callee, token.New(token.RightParen, ")", nil, 1), args)
}

func Expr(e Expression) *ExpressionStatement { return NewExpressionStatement(e) }
func Print(e Expression) *PrintStatement { return NewPrintStatement(e) }

func Let(name string, init Expression) *VarStatement {
	return NewVarStatement(Name(name), init)
}

func Block(stmts ...Statement) *BlockStatement { return NewBlockStatement(stmts) }

func Fun(name string, params []string, body ...Statement) *FunctionDeclaration {
	toks := make([]token.Token, 0, len(params))
	for _, p := range params {
		toks = append(toks, Name(p))
	}
	return NewFunctionDeclaration(Name(name), toks, body)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(token.New(token.Return, "return", nil, 1), value)
}

func Brk() *BreakStatement {
	return NewBreakStatement(token.New(token.Break, "break", nil, 1))
}
