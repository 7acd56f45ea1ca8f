package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/token"
)

// Precedence, loosest first: comma, assignment, ternary, or, and, equality,
// comparison, term, factor, unary, call, primary.

func (p *Parser) expression() (ast.Expression, error) {
	expr, err := p.assignment()
	if err != nil {
		return nil, err
	}
	for p.match(token.Comma) {
		operator := p.previous()
		right, err := p.assignment()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

// assignment reports an invalid target but keeps going: the left-hand side
// is returned and the right-hand side is dropped from the tree.
func (p *Parser) assignment() (ast.Expression, error) {
	expr, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if p.match(token.Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value), nil
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value), nil
		}
		p.error(equals, "Invalid assignment target.")
	}
	return expr, nil
}

// ternary parses both branches at the `or` level, so an unparenthesised
// ternary cannot appear directly inside a branch.
func (p *Parser) ternary() (ast.Expression, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(token.Question) {
		question := p.previous()
		thenBranch, err := p.or()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Colon, "Expect ':' after then branch of ternary expression."); err != nil {
			return nil, err
		}
		elseBranch, err := p.or()
		if err != nil {
			return nil, err
		}
		expr = ast.NewTernary(expr, question, thenBranch, elseBranch)
	}
	return expr, nil
}

func (p *Parser) or() (ast.Expression, error) {
	return p.logical(p.and, token.Or)
}

func (p *Parser) and() (ast.Expression, error) {
	return p.logical(p.equality, token.And)
}

func (p *Parser) equality() (ast.Expression, error) {
	return p.binary(p.comparison, token.BangEqual, token.EqualEqual)
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.binary(p.term, token.Greater, token.GreaterEqual, token.Less, token.LessEqual)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.binary(p.factor, token.Minus, token.Plus)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.binary(p.unary, token.Slash, token.Star)
}

// binary parses a left-associative chain of operators sharing one level.
func (p *Parser) binary(operand func() (ast.Expression, error), operators ...token.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		operator := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) logical(operand func() (ast.Expression, error), operator token.Kind) (ast.Expression, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(operator) {
		op := p.previous()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(expr, op, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(operator, right), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(token.LeftParen):
			if expr, err = p.finishCall(expr); err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name, err := p.consume(token.Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = ast.NewGet(expr, name)
		default:
			return expr, nil
		}
	}
}

// finishCall parses arguments at the assignment level so the comma
// separates arguments instead of acting as the sequencing operator.
func (p *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	arguments := make([]ast.Expression, 0)
	if !p.check(token.RightParen) {
		for {
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.NewCall(callee, paren, arguments), nil
}

func (p *Parser) primary() (ast.Expression, error) {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(false), nil
	case p.match(token.True):
		return ast.NewLiteral(true), nil
	case p.match(token.Nil):
		return ast.NewLiteral(nil), nil
	case p.match(token.Number, token.String):
		return ast.NewLiteral(p.previous().Literal), nil
	case p.match(token.Super):
		keyword := p.previous()
		if _, err := p.consume(token.Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(token.Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return ast.NewSuper(keyword, method), nil
	case p.match(token.This):
		return ast.NewThis(p.previous()), nil
	case p.match(token.Identifier):
		return ast.NewVariable(p.previous()), nil
	case p.match(token.Fun):
		return p.lambda()
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGrouping(expr), nil
	}
	return nil, p.error(p.peek(), "Expect expression.")
}

func (p *Parser) lambda() (ast.Expression, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'fun'."); err != nil {
		return nil, err
	}
	params, err := p.parameters()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, "Expect '{' before lambda body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.NewLambda(keyword, params, body), nil
}
