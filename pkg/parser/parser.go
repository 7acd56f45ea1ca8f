// Package parser builds the Lox syntax tree from scanner tokens. Parsing is
// best effort: a malformed statement is reported, skipped via panic-mode
// recovery, and parsing continues with the next statement.
package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/token"
)

// Parser is a recursive-descent parser over a token slice that ends in EOF.
type Parser struct {
	tokens   []token.Token
	current  int
	reporter diagnostics.Reporter
	errs     ErrorList
}

// New constructs a parser. A nil reporter discards diagnostics; they are
// still returned from Parse.
func New(tokens []token.Token, reporter diagnostics.Reporter) *Parser {
	if reporter == nil {
		reporter = diagnostics.Discard
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, token.New(token.EOF, "", nil, line))
	}
	return &Parser{tokens: tokens, reporter: reporter}
}

// Parse is shorthand for New(tokens, reporter).Parse().
func Parse(tokens []token.Token, reporter diagnostics.Reporter) ([]ast.Statement, error) {
	return New(tokens, reporter).Parse()
}

// Parse consumes every token. Statements that failed to parse are omitted
// and the returned error is an ErrorList describing them.
func (p *Parser) Parse() ([]ast.Statement, error) {
	statements := make([]ast.Statement, 0)
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}
	if len(p.errs) > 0 {
		return statements, p.errs
	}
	return statements, nil
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.For, token.Fun, token.If, token.Print, token.Return, token.Var, token.While:
			return
		}
		p.advance()
	}
}

// synchronizeBlock is synchronize for block bodies: it never consumes the
// closing brace, so the block still ends where the source says it does.
func (p *Parser) synchronizeBlock() {
	if p.check(token.RightBrace) {
		return
	}
	p.advance()
	for !p.isAtEnd() && !p.check(token.RightBrace) {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.For, token.Fun, token.If, token.Print, token.Return, token.Var, token.While:
			return
		}
		p.advance()
	}
}

func (p *Parser) error(tok token.Token, message string) *ParseError {
	err := &ParseError{
		Line:    tok.Line,
		Where:   diagnostics.Where(tok),
		Message: message,
		AtEnd:   tok.Kind == token.EOF,
	}
	p.errs = append(p.errs, err)
	p.reporter.Report(err.Line, err.Where, err.Message)
	return err
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.error(p.peek(), message)
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) checkNext(kind token.Kind) bool {
	if p.isAtEnd() || p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}
