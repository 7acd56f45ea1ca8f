package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) execute(stmt ast.Statement, env *runtime.Environment) (outcome, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluate(s.Expression, env)
		return normal, err
	case *ast.PrintStatement:
		val, err := i.evaluate(s.Expression, env)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(i.stdout, Stringify(val))
		return normal, nil
	case *ast.VarStatement:
		var val runtime.Value = runtime.NilValue{}
		if s.Initializer != nil {
			v, err := i.evaluate(s.Initializer, env)
			if err != nil {
				return normal, err
			}
			val = v
		}
		env.Define(s.Name.Lexeme, val)
		return normal, nil
	case *ast.BlockStatement:
		return i.executeBlock(s.Statements, runtime.NewEnvironment(env))
	case *ast.IfStatement:
		cond, err := i.evaluate(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if runtime.IsTruthy(cond) {
			return i.execute(s.Then, env)
		}
		if s.Else != nil {
			return i.execute(s.Else, env)
		}
		return normal, nil
	case *ast.WhileStatement:
		return i.executeWhile(s, env)
	case *ast.BreakStatement:
		return outcome{kind: outcomeBreak, keyword: s.Keyword}, nil
	case *ast.ReturnStatement:
		var val runtime.Value = runtime.NilValue{}
		if s.Value != nil {
			v, err := i.evaluate(s.Value, env)
			if err != nil {
				return normal, err
			}
			val = v
		}
		return outcome{kind: outcomeReturn, value: val, keyword: s.Keyword}, nil
	case *ast.FunctionDeclaration:
		env.Define(s.Name.Lexeme, &runtime.FunctionValue{Declaration: s, Closure: env})
		return normal, nil
	case *ast.ClassDeclaration:
		return normal, i.executeClass(s, env)
	default:
		return normal, fmt.Errorf("interpreter: unsupported statement %T", stmt)
	}
}

// executeBlock runs statements in env, which the caller has already created.
func (i *Interpreter) executeBlock(stmts []ast.Statement, env *runtime.Environment) (outcome, error) {
	for _, stmt := range stmts {
		out, err := i.execute(stmt, env)
		if err != nil || out.kind != outcomeNormal {
			return out, err
		}
	}
	return normal, nil
}

func (i *Interpreter) executeWhile(s *ast.WhileStatement, env *runtime.Environment) (outcome, error) {
	for {
		cond, err := i.evaluate(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if !runtime.IsTruthy(cond) {
			return normal, nil
		}
		out, err := i.execute(s.Body, env)
		if err != nil {
			return normal, err
		}
		switch out.kind {
		case outcomeBreak:
			return normal, nil
		case outcomeReturn:
			return out, nil
		}
	}
}

func (i *Interpreter) executeClass(s *ast.ClassDeclaration, env *runtime.Environment) error {
	env.Define(s.Name.Lexeme, runtime.NilValue{})

	var superclass *runtime.ClassValue
	methodEnv := env
	if s.Superclass != nil {
		val, err := i.evaluate(s.Superclass, env)
		if err != nil {
			return err
		}
		class, ok := val.(*runtime.ClassValue)
		if !ok {
			return newRuntimeError(InvalidSuperclass, s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
		methodEnv = runtime.NewEnvironment(env)
		methodEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &runtime.FunctionValue{
			Declaration:   m,
			Closure:       methodEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}
	statics := make(map[string]*runtime.FunctionValue, len(s.StaticMethods))
	for _, m := range s.StaticMethods {
		statics[m.Name.Lexeme] = &runtime.FunctionValue{Declaration: m, Closure: methodEnv}
	}

	class := runtime.NewClass(s.Name.Lexeme, superclass, methods, statics)
	return env.Assign(s.Name.Lexeme, class)
}
