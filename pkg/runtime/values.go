package runtime

import (
	"errors"
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/token"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindNativeFunction
	KindFunction
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindNativeFunction:
		return "native_function"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// Callable is implemented by native functions, user functions and classes.
type Callable interface {
	Value
	Arity() int
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// FromLiteral converts a scanner literal (nil, bool, float64, string).
func FromLiteral(v any) Value {
	switch val := v.(type) {
	case bool:
		return BoolValue{Val: val}
	case float64:
		return NumberValue{Val: val}
	case string:
		return StringValue{Val: val}
	default:
		return NilValue{}
	}
}

// IsTruthy: nil and false are falsy, everything else is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Equal implements `==`: nil equals only nil, scalars compare by value and
// callables and instances compare by identity.
func Equal(a, b Value) bool {
	if a == nil {
		a = NilValue{}
	}
	if b == nil {
		b = NilValue{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NilValue:
		return true
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	default:
		return a == b
	}
}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// NativeCallContext is handed to native implementations.
type NativeCallContext struct {
	Env *Environment
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

type NativeFunctionValue struct {
	Name       string
	ParamCount int
	Impl       NativeFunc
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }
func (v *NativeFunctionValue) Arity() int { return v.ParamCount }

// FunctionValue pairs a declaration with the frame it was created in.
// Values are never mutated after construction; Bind returns a new one.
type FunctionValue struct {
	Declaration   ast.Node // *ast.FunctionDeclaration or *ast.Lambda
	Closure       *Environment
	IsInitializer bool
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Name is the declared name, or "" for lambdas.
func (v *FunctionValue) Name() string {
	if fn, ok := v.Declaration.(*ast.FunctionDeclaration); ok {
		return fn.Name.Lexeme
	}
	return ""
}

func (v *FunctionValue) Params() []token.Token {
	switch decl := v.Declaration.(type) {
	case *ast.FunctionDeclaration:
		return decl.Params
	case *ast.Lambda:
		return decl.Params
	default:
		return nil
	}
}

func (v *FunctionValue) Body() []ast.Statement {
	switch decl := v.Declaration.(type) {
	case *ast.FunctionDeclaration:
		return decl.Body
	case *ast.Lambda:
		return decl.Body
	default:
		return nil
	}
}

func (v *FunctionValue) Arity() int { return len(v.Params()) }

// Bind returns a copy whose closure is a fresh frame binding `this`.
func (v *FunctionValue) Bind(instance *InstanceValue) *FunctionValue {
	env := NewEnvironment(v.Closure)
	env.Define("this", instance)
	return &FunctionValue{Declaration: v.Declaration, Closure: env, IsInitializer: v.IsInitializer}
}

//-----------------------------------------------------------------------------
// Classes & instances
//-----------------------------------------------------------------------------

// ErrUndefinedProperty is wrapped when a field or method lookup fails.
var ErrUndefinedProperty = errors.New("undefined property")

type ClassValue struct {
	Name          string
	Methods       map[string]*FunctionValue
	StaticMethods map[string]*FunctionValue
	Superclass    *ClassValue
}

func NewClass(name string, superclass *ClassValue, methods, staticMethods map[string]*FunctionValue) *ClassValue {
	if methods == nil {
		methods = make(map[string]*FunctionValue)
	}
	if staticMethods == nil {
		staticMethods = make(map[string]*FunctionValue)
	}
	return &ClassValue{Name: name, Methods: methods, StaticMethods: staticMethods, Superclass: superclass}
}

func (v *ClassValue) Kind() Kind { return KindClass }

// FindMethod searches this class, then the superclass chain.
func (v *ClassValue) FindMethod(name string) (*FunctionValue, bool) {
	for class := v; class != nil; class = class.Superclass {
		if m, ok := class.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// FindStaticMethod is FindMethod for the static table.
func (v *ClassValue) FindStaticMethod(name string) (*FunctionValue, bool) {
	for class := v; class != nil; class = class.Superclass {
		if m, ok := class.StaticMethods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Arity is the initializer's arity, or 0 without one.
func (v *ClassValue) Arity() int {
	if init, ok := v.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// GetStatic resolves ClassName.name against the static table.
func (v *ClassValue) GetStatic(name string) (*FunctionValue, error) {
	if m, ok := v.FindStaticMethod(name); ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUndefinedProperty, name)
}

type InstanceValue struct {
	Class  *ClassValue
	Fields map[string]Value
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Fields: make(map[string]Value)}
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

// Get checks fields first, then methods (bound to this instance).
func (v *InstanceValue) Get(name string) (Value, error) {
	if field, ok := v.Fields[name]; ok {
		return field, nil
	}
	if method, ok := v.Class.FindMethod(name); ok {
		return method.Bind(v), nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUndefinedProperty, name)
}

// Set always writes the field table, possibly shadowing a method.
func (v *InstanceValue) Set(name string, value Value) {
	v.Fields[name] = value
}
