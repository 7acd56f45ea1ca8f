package scanner

import (
	"strconv"

	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/token"
)

// Scanner turns Lox source text into tokens.
type Scanner struct {
	source   string
	tokens   []token.Token
	reporter diagnostics.Reporter

	start   int
	current int
	line    int
}

// New returns a scanner over source. A nil reporter discards diagnostics.
func New(source string, reporter diagnostics.Reporter) *Scanner {
	if reporter == nil {
		reporter = diagnostics.Discard
	}
	return &Scanner{source: source, reporter: reporter, line: 1}
}

// Scan is a convenience wrapper around New(...).ScanTokens().
func Scan(source string, reporter diagnostics.Reporter) []token.Token {
	return New(source, reporter).ScanTokens()
}

// ScanTokens consumes the whole source. The result always ends with EOF.
func (s *Scanner) ScanTokens() []token.Token {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))
	return s.tokens
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case '[':
		s.addToken(token.LeftBracket)
	case ']':
		s.addToken(token.RightBracket)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case ':':
		s.addToken(token.Colon)
	case '?':
		s.addToken(token.Question)
	case '!':
		s.addToken(s.pick('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.pick('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.pick('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.pick('=', token.GreaterEqual, token.Greater))
	case '/':
		switch {
		case s.match('/'):
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		case s.match('*'):
			s.blockComment()
		default:
			s.addToken(token.Slash)
		}
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.string()
	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			s.reporter.Report(s.line, "", "Unexpected character.")
		}
	}
}

func (s *Scanner) blockComment() {
	for !s.isAtEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.current += 2
			return
		}
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	s.reporter.Report(s.line, "", "Unterminated block comment.")
}

func (s *Scanner) string() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.reporter.Report(s.line, "", "Unterminated string.")
		return
	}
	s.advance()
	s.addLiteral(token.String, s.source[s.start+1:s.current-1])
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, err := strconv.ParseFloat(s.source[s.start:s.current], 64)
	if err != nil {
		s.reporter.Report(s.line, "", "Invalid number literal.")
		return
	}
	s.addLiteral(token.Number, value)
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.source[s.start:s.current]
	kind, ok := token.Keywords[text]
	if !ok {
		kind = token.Identifier
	}
	s.addToken(kind)
}

func (s *Scanner) pick(expected byte, matched, otherwise token.Kind) token.Kind {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) addToken(kind token.Kind) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Kind, literal any) {
	s.tokens = append(s.tokens, token.New(kind, s.source[s.start:s.current], literal, s.line))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
