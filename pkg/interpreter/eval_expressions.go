package interpreter

import (
	"errors"
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluate(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return runtime.FromLiteral(e.Value), nil
	case *ast.Grouping:
		return i.evaluate(e.Expression, env)
	case *ast.Variable:
		return i.lookupVariable(e.Name, e, env)
	case *ast.Assign:
		return i.evaluateAssign(e, env)
	case *ast.Unary:
		return i.evaluateUnary(e, env)
	case *ast.Binary:
		return i.evaluateBinary(e, env)
	case *ast.Logical:
		return i.evaluateLogical(e, env)
	case *ast.Ternary:
		cond, err := i.evaluate(e.Condition, env)
		if err != nil {
			return nil, err
		}
		if runtime.IsTruthy(cond) {
			return i.evaluate(e.Then, env)
		}
		return i.evaluate(e.Else, env)
	case *ast.Call:
		return i.evaluateCall(e, env)
	case *ast.Get:
		return i.evaluateGet(e, env)
	case *ast.Set:
		return i.evaluateSet(e, env)
	case *ast.This:
		return i.lookupVariable(e.Keyword, e, env)
	case *ast.Super:
		return i.evaluateSuper(e, env)
	case *ast.Lambda:
		return &runtime.FunctionValue{Declaration: e, Closure: env}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported expression %T", expr)
	}
}

func (i *Interpreter) lookupVariable(name token.Token, expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	var (
		val runtime.Value
		err error
	)
	if distance, ok := i.locals[expr.ID()]; ok {
		val, err = env.GetAt(distance, name.Lexeme)
	} else {
		val, err = i.globals.Get(name.Lexeme)
	}
	if err != nil {
		return nil, undefinedVariable(name, err)
	}
	return val, nil
}

func (i *Interpreter) evaluateAssign(e *ast.Assign, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluate(e.Value, env)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[e.ID()]; ok {
		err = env.AssignAt(distance, e.Name.Lexeme, val)
	} else {
		err = i.globals.Assign(e.Name.Lexeme, val)
	}
	if err != nil {
		return nil, undefinedVariable(e.Name, err)
	}
	return val, nil
}

func undefinedVariable(name token.Token, err error) error {
	if errors.Is(err, runtime.ErrUndefinedVariable) {
		return newRuntimeError(UndefinedVariable, name, "Undefined variable '%s'.", name.Lexeme)
	}
	return err
}

func (i *Interpreter) evaluateUnary(e *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Kind {
	case token.Minus:
		n, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, newRuntimeError(TypeError, e.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -n.Val}, nil
	case token.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(right)}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported unary operator %s", e.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinary(e *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Kind {
	case token.Comma:
		return right, nil
	case token.EqualEqual:
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case token.Plus:
		switch l := left.(type) {
		case runtime.NumberValue:
			if r, ok := right.(runtime.NumberValue); ok {
				return runtime.NumberValue{Val: l.Val + r.Val}, nil
			}
		case runtime.StringValue:
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		}
		return nil, newRuntimeError(TypeError, e.Operator, "Operands must be two numbers or two strings.")
	}

	l, r, err := numberOperands(e.Operator, left, right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Kind {
	case token.Minus:
		return runtime.NumberValue{Val: l - r}, nil
	case token.Star:
		return runtime.NumberValue{Val: l * r}, nil
	case token.Slash:
		if r == 0 {
			return nil, newRuntimeError(DivisionByZero, e.Operator, "Division by zero.")
		}
		return runtime.NumberValue{Val: l / r}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l > r}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l >= r}, nil
	case token.Less:
		return runtime.BoolValue{Val: l < r}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l <= r}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported binary operator %s", e.Operator.Lexeme)
	}
}

func numberOperands(op token.Token, left, right runtime.Value) (float64, float64, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, newRuntimeError(TypeError, op, "Operands must be numbers.")
	}
	return l.Val, r.Val, nil
}

func (i *Interpreter) evaluateLogical(e *ast.Logical, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}
	if e.Operator.Kind == token.Or {
		if runtime.IsTruthy(left) {
			return left, nil
		}
	} else if !runtime.IsTruthy(left) {
		return left, nil
	}
	return i.evaluate(e.Right, env)
}
