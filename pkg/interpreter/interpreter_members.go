package interpreter

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

// evaluateGet dispatches on the target kind: instances expose fields and
// bound methods, classes expose their static methods.
func (i *Interpreter) evaluateGet(e *ast.Get, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(e.Object, env)
	if err != nil {
		return nil, err
	}
	switch target := object.(type) {
	case *runtime.InstanceValue:
		val, err := target.Get(e.Name.Lexeme)
		if err != nil {
			return nil, undefinedProperty(e.Name)
		}
		return val, nil
	case *runtime.ClassValue:
		method, err := target.GetStatic(e.Name.Lexeme)
		if err != nil {
			return nil, undefinedProperty(e.Name)
		}
		return method, nil
	default:
		return nil, newRuntimeError(InvalidAccess, e.Name, "Only instances and classes have properties.")
	}
}

func undefinedProperty(name token.Token) error {
	return newRuntimeError(UndefinedProperty, name, "Undefined property '%s'.", name.Lexeme)
}

func (i *Interpreter) evaluateSet(e *ast.Set, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluate(e.Object, env)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*runtime.InstanceValue)
	if !ok {
		return nil, newRuntimeError(InvalidAccess, e.Name, "Only instances have fields.")
	}
	val, err := i.evaluate(e.Value, env)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name.Lexeme, val)
	return val, nil
}

// evaluateSuper finds the superclass `distance` frames out and the bound
// instance one frame closer.
func (i *Interpreter) evaluateSuper(e *ast.Super, env *runtime.Environment) (runtime.Value, error) {
	distance, ok := i.locals[e.ID()]
	if !ok {
		return nil, newRuntimeError(InvalidAccess, e.Keyword, "Can't use 'super' outside of a class.")
	}
	superVal, err := env.GetAt(distance, "super")
	if err != nil {
		return nil, undefinedVariable(e.Keyword, err)
	}
	thisVal, err := env.GetAt(distance-1, "this")
	if err != nil {
		return nil, newRuntimeError(InvalidAccess, e.Keyword, "Can't use 'super' without an instance.")
	}
	superclass, ok := superVal.(*runtime.ClassValue)
	if !ok {
		return nil, newRuntimeError(InvalidSuperclass, e.Keyword, "Superclass must be a class.")
	}
	instance, ok := thisVal.(*runtime.InstanceValue)
	if !ok {
		return nil, newRuntimeError(InvalidAccess, e.Keyword, "Can't use 'super' without an instance.")
	}
	method, found := superclass.FindMethod(e.Method.Lexeme)
	if !found {
		return nil, undefinedProperty(e.Method)
	}
	return method.Bind(instance), nil
}
