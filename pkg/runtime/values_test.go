package runtime

import (
	"errors"
	"math"
	"testing"

	"lox/interpreter-go/pkg/ast"
)

func TestTruthiness(t *testing.T) {
	cases := []struct {
		value Value
		want  bool
	}{
		{NilValue{}, false},
		{nil, false},
		{BoolValue{Val: false}, false},
		{BoolValue{Val: true}, true},
		{NumberValue{Val: 0}, true},
		{StringValue{Val: ""}, true},
		{NewInstance(NewClass("A", nil, nil, nil)), true},
	}
	for _, tc := range cases {
		if got := IsTruthy(tc.value); got != tc.want {
			t.Errorf("IsTruthy(%#v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	class := NewClass("A", nil, nil, nil)
	a := NewInstance(class)
	b := NewInstance(class)
	nan := NumberValue{Val: math.NaN()}

	if !Equal(NilValue{}, NilValue{}) {
		t.Errorf("nil should equal nil")
	}
	if Equal(NilValue{}, BoolValue{Val: false}) {
		t.Errorf("nil should not equal false")
	}
	if !Equal(StringValue{Val: "x"}, StringValue{Val: "x"}) {
		t.Errorf("strings compare by value")
	}
	if Equal(NumberValue{Val: 1}, StringValue{Val: "1"}) {
		t.Errorf("different kinds are never equal")
	}
	if Equal(nan, nan) {
		t.Errorf("NaN is not equal to itself")
	}
	if !Equal(a, a) || Equal(a, b) {
		t.Errorf("instances compare by identity")
	}
}

func TestFromLiteral(t *testing.T) {
	if FromLiteral(nil).Kind() != KindNil {
		t.Fatalf("expected nil kind")
	}
	if v := FromLiteral(2.5); v.(NumberValue).Val != 2.5 {
		t.Fatalf("unexpected number %v", v)
	}
	if v := FromLiteral("s"); v.(StringValue).Val != "s" {
		t.Fatalf("unexpected string %v", v)
	}
	if v := FromLiteral(true); !v.(BoolValue).Val {
		t.Fatalf("unexpected bool %v", v)
	}
}

func TestClassMethodLookupWalksSuperclass(t *testing.T) {
	decl := ast.Fun("speak", nil)
	speak := &FunctionValue{Declaration: decl, Closure: NewEnvironment(nil)}
	base := NewClass("Animal", nil, map[string]*FunctionValue{"speak": speak}, nil)
	derived := NewClass("Dog", base, nil, nil)

	m, ok := derived.FindMethod("speak")
	if !ok || m != speak {
		t.Fatalf("expected inherited method, got %v %v", m, ok)
	}
	if _, ok := derived.FindMethod("fly"); ok {
		t.Fatalf("unexpected method fly")
	}
}

func TestClassArityFollowsInitializer(t *testing.T) {
	plain := NewClass("Plain", nil, nil, nil)
	if plain.Arity() != 0 {
		t.Fatalf("expected 0, got %d", plain.Arity())
	}
	initFn := &FunctionValue{Declaration: ast.Fun("init", []string{"a", "b"}), Closure: NewEnvironment(nil), IsInitializer: true}
	withInit := NewClass("Point", nil, map[string]*FunctionValue{"init": initFn}, nil)
	if withInit.Arity() != 2 {
		t.Fatalf("expected 2, got %d", withInit.Arity())
	}
	sub := NewClass("Point3", withInit, nil, nil)
	if sub.Arity() != 2 {
		t.Fatalf("expected inherited arity 2, got %d", sub.Arity())
	}
}

func TestInstanceFieldsShadowMethods(t *testing.T) {
	method := &FunctionValue{Declaration: ast.Fun("name", nil), Closure: NewEnvironment(nil)}
	class := NewClass("A", nil, map[string]*FunctionValue{"name": method}, nil)
	inst := NewInstance(class)

	got, err := inst.Get("name")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	bound, ok := got.(*FunctionValue)
	if !ok {
		t.Fatalf("expected bound function, got %T", got)
	}
	this, err := bound.Closure.Get("this")
	if err != nil || this != inst {
		t.Fatalf("bound method should see this=instance, got %v (%v)", this, err)
	}
	if bound == method || bound.Closure == method.Closure {
		t.Fatalf("bind must create a new function value")
	}

	inst.Set("name", StringValue{Val: "field"})
	got, _ = inst.Get("name")
	if got.(StringValue).Val != "field" {
		t.Fatalf("field should shadow method, got %v", got)
	}

	if _, err := inst.Get("missing"); !errors.Is(err, ErrUndefinedProperty) {
		t.Fatalf("expected ErrUndefinedProperty, got %v", err)
	}
}

func TestStaticMethodsAreSeparate(t *testing.T) {
	static := &FunctionValue{Declaration: ast.Fun("make", nil), Closure: NewEnvironment(nil)}
	class := NewClass("Factory", nil, nil, map[string]*FunctionValue{"make": static})
	if m, err := class.GetStatic("make"); err != nil || m != static {
		t.Fatalf("expected static make, got %v %v", m, err)
	}
	if _, err := NewInstance(class).Get("make"); !errors.Is(err, ErrUndefinedProperty) {
		t.Fatalf("static method must not be visible on instances, got %v", err)
	}
	sub := NewClass("Sub", class, nil, nil)
	if _, err := sub.GetStatic("make"); err != nil {
		t.Fatalf("static methods are inherited: %v", err)
	}
}

func TestFunctionValueLambdaShape(t *testing.T) {
	fn := &FunctionValue{Declaration: ast.NewLambda(ast.Name("fun"), nil, nil), Closure: NewEnvironment(nil)}
	if fn.Name() != "" || fn.Arity() != 0 {
		t.Fatalf("unexpected lambda shape name=%q arity=%d", fn.Name(), fn.Arity())
	}
}
