package resolver

import (
	"errors"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/scanner"
)

type recordedLocal struct {
	name  string
	depth int
}

type recorder struct {
	locals []recordedLocal
}

func (r *recorder) Resolve(expr ast.Expression, depth int) {
	name := ""
	switch e := expr.(type) {
	case *ast.Variable:
		name = e.Name.Lexeme
	case *ast.Assign:
		name = "=" + e.Name.Lexeme
	case *ast.This:
		name = "this"
	case *ast.Super:
		name = "super"
	}
	r.locals = append(r.locals, recordedLocal{name: name, depth: depth})
}

func resolveSource(t *testing.T, source string) (*recorder, *diagnostics.Collector, error) {
	t.Helper()
	stmts, err := parser.Parse(scanner.Scan(source, nil), nil)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	rec := &recorder{}
	collector := &diagnostics.Collector{}
	err = New(rec, collector).Resolve(stmts)
	return rec, collector, err
}

func expectError(t *testing.T, source, message string) {
	t.Helper()
	_, collector, err := resolveSource(t, source)
	if err == nil {
		t.Fatalf("expected error %q for %q", message, source)
	}
	var list ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected ErrorList, got %T", err)
	}
	for _, e := range list {
		if e.Message == message {
			if !collector.HadError() {
				t.Fatalf("error not forwarded to reporter")
			}
			return
		}
	}
	t.Fatalf("expected %q, got %v", message, err)
}

func TestResolveDistances(t *testing.T) {
	source := `
var g = 1;
{
  var a = 1;
  {
    var b = a;
    a = b;
    print g;
  }
}`
	rec, _, err := resolveSource(t, source)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []recordedLocal{{"a", 1}, {"b", 0}, {"=a", 1}}
	if len(rec.locals) != len(want) {
		t.Fatalf("locals = %v, want %v", rec.locals, want)
	}
	for i := range want {
		if rec.locals[i] != want[i] {
			t.Fatalf("locals[%d] = %v, want %v", i, rec.locals[i], want[i])
		}
	}
}

func TestResolveInnermostDeclarationWins(t *testing.T) {
	source := `{ var x = 1; { var x = 2; { print x; } } }`
	rec, _, err := resolveSource(t, source)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(rec.locals) != 1 || rec.locals[0] != (recordedLocal{"x", 1}) {
		t.Fatalf("unexpected locals %v", rec.locals)
	}
}

func TestResolveClosureCapturesDeclarationScope(t *testing.T) {
	source := `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}`
	rec, _, err := resolveSource(t, source)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []recordedLocal{{"i", 1}, {"=i", 1}, {"i", 1}, {"count", 0}}
	if len(rec.locals) != len(want) {
		t.Fatalf("locals = %v, want %v", rec.locals, want)
	}
	for i := range want {
		if rec.locals[i] != want[i] {
			t.Fatalf("locals[%d] = %v, want %v", i, rec.locals[i], want[i])
		}
	}
}

func TestResolveThisAndSuperDistances(t *testing.T) {
	source := `
class A { m() {} }
class B < A {
  m() { super.m(); return this; }
}`
	rec, _, err := resolveSource(t, source)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	got := map[string]int{}
	for _, l := range rec.locals {
		got[l.name] = l.depth
	}
	if got["super"] != 2 || got["this"] != 1 {
		t.Fatalf("unexpected distances %v", rec.locals)
	}
}

func TestResolveErrors(t *testing.T) {
	cases := []struct {
		source  string
		message string
	}{
		{"{ var a = a; }", "Can't read local variable in its own initializer."},
		{"var a = a;", "Can't read local variable in its own initializer."},
		{"{ var a = 1; var a = 2; }", "Already a variable with this name in this scope."},
		{"fun f(a, a) {}", "Already a variable with this name in this scope."},
		{"return 1;", "Can't return from top-level code."},
		{"class A { init() { return 1; } }", "Can't return a value from an initializer."},
		{"print this;", "Can't use 'this' outside of a class."},
		{"fun f() { return this; }", "Can't use 'this' outside of a class."},
		{"print super.x;", "Can't use 'super' outside of a class."},
		{"class A { m() { super.m(); } }", "Can't use 'super' in a class with no superclass."},
		{"class A < A {}", "A class can't inherit from itself."},
		{"break;", "Can't break from outside a loop."},
		{"while (true) { fun f() { break; } }", "Can't break from outside a loop."},
		{"class A { static m() { return this; } }", "Can't use 'this' in a static method."},
		{"class A {} class B < A { static m() { return super.m; } }", "Can't use 'super' in a static method."},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			expectError(t, tc.source, tc.message)
		})
	}
}

func TestResolveAcceptsValidPrograms(t *testing.T) {
	sources := []string{
		"var a = 1; var a = 2;",
		"var a = 1; var a = a;",
		"var a = 1; { var a = a + 1; }",
		"class A { init() { return; } }",
		"while (true) { if (true) break; }",
		"for (var i = 0; i < 1; i = i + 1) { { break; } }",
		"var f = fun (x) { return x; };",
		"class A { m() { var f = fun () { return this; }; } }",
		"class A { static m() { class B { n() { return this; } } } }",
	}
	for _, source := range sources {
		if _, _, err := resolveSource(t, source); err != nil {
			t.Errorf("resolve %q: %v", source, err)
		}
	}
}

func TestResolveShadowingInitializerReadsEnclosingFrame(t *testing.T) {
	rec, _, err := resolveSource(t, "{ var a = 1; { var a = a + 1; print a; } }")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []recordedLocal{{name: "a", depth: 1}, {name: "a", depth: 0}}
	if len(rec.locals) != len(want) {
		t.Fatalf("locals = %v, want %v", rec.locals, want)
	}
	for i := range want {
		if rec.locals[i] != want[i] {
			t.Fatalf("locals = %v, want %v", rec.locals, want)
		}
	}

	rec, _, err = resolveSource(t, "var a = 1; { var a = a + 1; }")
	if err != nil {
		t.Fatalf("resolve global shadow: %v", err)
	}
	if len(rec.locals) != 0 {
		t.Fatalf("global read must not get a distance, got %v", rec.locals)
	}
}

func TestResolveReportsAllErrors(t *testing.T) {
	_, collector, err := resolveSource(t, "return 1;\nbreak;")
	if err == nil {
		t.Fatalf("expected errors")
	}
	msgs := collector.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", msgs)
	}
	if !strings.Contains(err.Error(), "[line 2] Error at 'break'") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestResolverKeepsGlobalsAcrossCalls(t *testing.T) {
	r := New(nil, nil)
	first, _ := parser.Parse(scanner.Scan("var a = 1;", nil), nil)
	if err := r.Resolve(first); err != nil {
		t.Fatalf("first: %v", err)
	}
	second, _ := parser.Parse(scanner.Scan("var a = a + 1;", nil), nil)
	if err := r.Resolve(second); err != nil {
		t.Fatalf("second: %v", err)
	}
}
