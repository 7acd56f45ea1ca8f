package interpreter

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluateCall(e *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluate(e.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(e.Arguments))
	for _, argExpr := range e.Arguments {
		arg, err := i.evaluate(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return i.CallValue(callee, args, e.Paren)
}

// CallValue invokes any callable with already-evaluated arguments. paren
// locates errors.
func (i *Interpreter) CallValue(callee runtime.Value, args []runtime.Value, paren token.Token) (runtime.Value, error) {
	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, newRuntimeError(NotCallable, paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(ArityMismatch, paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	if i.callDepth >= i.maxCallDepth {
		return nil, newRuntimeError(StackOverflow, paren, "Stack overflow.")
	}
	i.callDepth++
	defer func() { i.callDepth-- }()

	switch target := fn.(type) {
	case *runtime.NativeFunctionValue:
		return target.Impl(&runtime.NativeCallContext{Env: i.globals}, args)
	case *runtime.FunctionValue:
		return i.callFunction(target, args)
	case *runtime.ClassValue:
		instance := runtime.NewInstance(target)
		if init, ok := target.FindMethod("init"); ok {
			if _, err := i.callFunction(init.Bind(instance), args); err != nil {
				return nil, err
			}
		}
		return instance, nil
	default:
		return nil, newRuntimeError(NotCallable, paren, "Can only call functions and classes.")
	}
}

// callFunction binds parameters in a frame whose parent is the closure, not
// the caller's environment.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	env := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Params() {
		env.Define(param.Lexeme, args[idx])
	}
	out, err := i.executeBlock(fn.Body(), env)
	if err != nil {
		return nil, err
	}
	if out.kind == outcomeBreak {
		return nil, newRuntimeError(InvalidControlFlow, out.keyword, "'break' must be used inside a loop.")
	}
	if fn.IsInitializer {
		return fn.Closure.GetAt(0, "this")
	}
	if out.kind == outcomeReturn {
		return out.value, nil
	}
	return runtime.NilValue{}, nil
}
