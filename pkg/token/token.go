package token

import "fmt"

// Kind identifies the lexical category of a token.
type Kind int

const (
	// Single-character tokens.
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	Colon
	Question

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
	Break
	Static

	EOF
)

var kindNames = [...]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftBrace:    "LEFT_BRACE",
	RightBrace:   "RIGHT_BRACE",
	LeftBracket:  "LEFT_BRACKET",
	RightBracket: "RIGHT_BRACKET",
	Comma:        "COMMA",
	Dot:          "DOT",
	Minus:        "MINUS",
	Plus:         "PLUS",
	Semicolon:    "SEMICOLON",
	Slash:        "SLASH",
	Star:         "STAR",
	Colon:        "COLON",
	Question:     "QUESTION",
	Bang:         "BANG",
	BangEqual:    "BANG_EQUAL",
	Equal:        "EQUAL",
	EqualEqual:   "EQUAL_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "AND",
	Class:        "CLASS",
	Else:         "ELSE",
	False:        "FALSE",
	Fun:          "FUN",
	For:          "FOR",
	If:           "IF",
	Nil:          "NIL",
	Or:           "OR",
	Print:        "PRINT",
	Return:       "RETURN",
	Super:        "SUPER",
	This:         "THIS",
	True:         "TRUE",
	Var:          "VAR",
	While:        "WHILE",
	Break:        "BREAK",
	Static:       "STATIC",
	EOF:          "EOF",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// Keywords maps reserved words to their token kinds.
var Keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
	"break":  Break,
	"static": Static,
}

// Token is an immutable lexeme produced by the scanner. Literal holds a
// float64 for numbers, a string for strings and nil otherwise.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
}

// New builds a token; mostly useful for synthesising identifiers in tests.
func New(kind Kind, lexeme string, literal any, line int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Literal: literal, Line: line}
}

// Ident is shorthand for an identifier token.
func Ident(name string, line int) Token {
	return Token{Kind: Identifier, Lexeme: name, Line: line}
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %s %v", t.Kind, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%s %s", t.Kind, t.Lexeme)
}
