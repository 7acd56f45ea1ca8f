package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

type runResult struct {
	stdout    string
	value     runtime.Value
	err       error
	collector *diagnostics.Collector
}

func runSource(t *testing.T, source string, opts ...Option) runResult {
	t.Helper()
	collector := &diagnostics.Collector{}
	stmts, err := parser.Parse(scanner.Scan(source, collector), collector)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	var out bytes.Buffer
	opts = append([]Option{WithStdout(&out), WithReporter(collector)}, opts...)
	interp := New(opts...)
	if err := resolver.New(interp, collector).Resolve(stmts); err != nil {
		t.Fatalf("resolve %q: %v", source, err)
	}
	val, err := interp.Interpret(stmts)
	return runResult{stdout: out.String(), value: val, err: err, collector: collector}
}

func expectOutput(t *testing.T, source, want string) {
	t.Helper()
	res := runSource(t, source)
	if res.err != nil {
		t.Fatalf("run %q: %v", source, res.err)
	}
	if res.stdout != want {
		t.Fatalf("output = %q, want %q", res.stdout, want)
	}
}

func expectRuntimeError(t *testing.T, source string, kind ErrorKind) *RuntimeError {
	t.Helper()
	res := runSource(t, source)
	var rtErr *RuntimeError
	if !errors.As(res.err, &rtErr) {
		t.Fatalf("expected runtime error for %q, got %v", source, res.err)
	}
	if rtErr.Kind != kind {
		t.Fatalf("kind = %s, want %s (%s)", rtErr.Kind, kind, rtErr.Message)
	}
	if !res.collector.HadRuntimeError() {
		t.Fatalf("runtime error was not reported")
	}
	return rtErr
}

func TestClosureCounter(t *testing.T) {
	source := `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}
var counter = makeCounter();
print counter();
print counter();
var other = makeCounter();
print other();`
	expectOutput(t, source, "1\n2\n1\n")
}

func TestShadowingLeavesOuterUnchanged(t *testing.T) {
	expectOutput(t, "var a = 1; { var a = 99; print a; } print a;", "99\n1\n")
}

func TestShadowingInitializerReadsOuterBinding(t *testing.T) {
	expectOutput(t, "var a = 1; { var a = a + 1; print a; } print a;", "2\n1\n")
	expectOutput(t, "fun f() { var b = 10; { var b = b * 2; print b; } } f();", "20\n")
}

func TestClosureSeesDefiningScope(t *testing.T) {
	source := `
var a = "global";
{
  fun show() { print a; }
  show();
  var a = "block";
  show();
}`
	expectOutput(t, source, "global\nglobal\n")
}

func TestArithmeticAndStrings(t *testing.T) {
	expectOutput(t, `print "a" + "b"; print 1 + 2 * 3; print (1 + 2) * 3; print 7 / 2; print -4;`, "ab\n7\n9\n3.5\n-4\n")
}

func TestDivisionByZero(t *testing.T) {
	res := runSource(t, "print 10 / 0;")
	var rtErr *RuntimeError
	if !errors.As(res.err, &rtErr) || rtErr.Kind != DivisionByZero {
		t.Fatalf("expected DivisionByZero, got %v", res.err)
	}
	if res.stdout != "" {
		t.Fatalf("nothing should be printed, got %q", res.stdout)
	}
	if rtErr.Token.Lexeme != "/" || rtErr.Token.Line != 1 {
		t.Fatalf("unexpected token %+v", rtErr.Token)
	}
}

func TestTypeErrors(t *testing.T) {
	cases := map[string]string{
		`print 1 + "a";`: "Operands must be two numbers or two strings.",
		`print -"a";`:    "Operand must be a number.",
		`print 1 < "a";`: "Operands must be numbers.",
		`print nil * 2;`: "Operands must be numbers.",
	}
	for source, msg := range cases {
		rtErr := expectRuntimeError(t, source, TypeError)
		if rtErr.Message != msg {
			t.Errorf("%q: message = %q, want %q", source, rtErr.Message, msg)
		}
	}
}

func TestRuntimeErrorStopsRemainingStatements(t *testing.T) {
	res := runSource(t, `print "before"; print 1 + nil; print "after";`)
	if res.err == nil {
		t.Fatalf("expected error")
	}
	if res.stdout != "before\n" {
		t.Fatalf("output = %q", res.stdout)
	}
	if got := res.collector.String(); got != "Operands must be two numbers or two strings.\n[line 1]" {
		t.Fatalf("diagnostic = %q", got)
	}
}

func TestTernaryEvaluatesOneBranch(t *testing.T) {
	expectOutput(t, "print true ? 1 : 2; print false ? 1 : 2;", "1\n2\n")
	expectOutput(t, `var hits = 0; fun hit() { hits = hits + 1; return hits; } var r = true ? 1 : hit(); print hits;`, "0\n")
}

func TestLogicalReturnsOperand(t *testing.T) {
	expectOutput(t, `print nil or "yes"; print 0 and "zero is truthy"; print false and boom; print "" or 1;`, "yes\nzero is truthy\nfalse\n\n")
}

func TestEqualityAndComma(t *testing.T) {
	expectOutput(t, `print nil == nil; print nil == false; print "a" == "a"; print 1 != 2; print (1, 2);`, "true\nfalse\ntrue\ntrue\n2\n")
}

func TestWhileAndBreak(t *testing.T) {
	source := `
var i = 0;
while (true) {
  i = i + 1;
  if (i == 3) break;
}
print i;
for (var j = 0; j < 10; j = j + 1) {
  if (j == 2) { break; }
  print j;
}`
	expectOutput(t, source, "3\n0\n1\n")
}

func TestReturnInsideLoop(t *testing.T) {
	expectOutput(t, `fun find() { var i = 0; while (true) { if (i == 4) return i; i = i + 1; } } print find();`, "4\n")
}

func TestFunctionWithoutReturnYieldsNil(t *testing.T) {
	expectOutput(t, `fun f() {} print f();`, "nil\n")
}

func TestClassesAndInheritance(t *testing.T) {
	source := `
class A {
  m() { return "A.m"; }
  describe() { return this.m(); }
}
class B < A {
  m() { return "B.m"; }
  viaSuper() { return super.m(); }
}
class C < B {
  m() { return "C.m"; }
}
var c = C();
print c.describe();
print c.viaSuper();
print B().viaSuper();`
	expectOutput(t, source, "C.m\nA.m\nA.m\n")
}

func TestInitializer(t *testing.T) {
	source := `
class Point {
  init(x, y) { this.x = x; this.y = y; return; }
  sum() { return this.x + this.y; }
}
var p = Point(1, 2);
print p.sum();
print p.init(3, 4) == p;
print p.x;
print Point;
print p;`
	expectOutput(t, source, "3\ntrue\n3\n<class Point>\nPoint instance\n")
}

func TestFieldShadowsMethod(t *testing.T) {
	expectOutput(t, `class A { m() { return 1; } } var a = A(); a.m = "field"; print a.m;`, "field\n")
}

func TestStaticMethods(t *testing.T) {
	source := `
class Math {
  static square(n) { return n * n; }
}
class More < Math {}
print Math.square(3);
print More.square(4);`
	expectOutput(t, source, "9\n16\n")

	expectRuntimeError(t, `class C { static s() { return 1; } } C().s();`, UndefinedProperty)
}

func TestMethodsSeeClassName(t *testing.T) {
	expectOutput(t, `class Node { make() { return Node(); } } print Node().make();`, "Node instance\n")
}

func TestLambdas(t *testing.T) {
	source := `
fun apply(f, x) { return f(x); }
print apply(fun (n) { return n * 2; }, 21);
var base = 10;
var add = fun (n) { return n + base; };
base = 20;
print add(1);
print add;
fun twice(f) { return fun (x) { return f(f(x)); }; }
print twice(fun (x) { return x + 1; })(5);`
	expectOutput(t, source, "42\n21\n<lambda>\n7\n")
}

func TestRuntimeErrorKinds(t *testing.T) {
	expectRuntimeError(t, "print missing;", UndefinedVariable)
	expectRuntimeError(t, "missing = 1;", UndefinedVariable)
	expectRuntimeError(t, `"text"();`, NotCallable)
	expectRuntimeError(t, "fun f(a) {} f(1, 2);", ArityMismatch)
	expectRuntimeError(t, "var NotClass = 1; class A < NotClass {}", InvalidSuperclass)
	expectRuntimeError(t, "class A {} print A().nope;", UndefinedProperty)
	expectRuntimeError(t, "var x = 1; print x.y;", InvalidAccess)
	expectRuntimeError(t, "var x = 1; x.y = 2;", InvalidAccess)
	expectRuntimeError(t, "class A {} class B < A { m() { return super.nope; } } B().m();", UndefinedProperty)

	rtErr := expectRuntimeError(t, "fun f(a, b) {} f(1);", ArityMismatch)
	if rtErr.Message != "Expected 2 arguments but got 1." {
		t.Fatalf("message = %q", rtErr.Message)
	}
}

func TestStackOverflow(t *testing.T) {
	res := runSource(t, "fun loop(n) { return loop(n + 1); } loop(0);", WithMaxCallDepth(50))
	var rtErr *RuntimeError
	if !errors.As(res.err, &rtErr) || rtErr.Kind != StackOverflow {
		t.Fatalf("expected StackOverflow, got %v", res.err)
	}
}

func TestNatives(t *testing.T) {
	fixed := time.Unix(1700000000, 500000000)
	res := runSource(t, "print clock(); print(\"via statement\");", WithClock(func() time.Time { return fixed }))
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "1700000000.5\nvia statement\n" {
		t.Fatalf("output = %q", res.stdout)
	}

	exitCode := -1
	res = runSource(t, `print "a"; exit(); print "b";`, WithExit(func(code int) { exitCode = code }))
	var exitReq ExitRequest
	if !errors.As(res.err, &exitReq) {
		t.Fatalf("expected ExitRequest, got %v", res.err)
	}
	if exitCode != 0 || res.stdout != "a\n" {
		t.Fatalf("exit code %d output %q", exitCode, res.stdout)
	}
	if res.collector.HadRuntimeError() {
		t.Fatalf("exit must not report a runtime error")
	}
}

func TestNativePrintCallable(t *testing.T) {
	interp := New(WithStdout(&bytes.Buffer{}))
	printFn, err := interp.GlobalEnvironment().Get("print")
	if err != nil {
		t.Fatalf("print native missing: %v", err)
	}
	if got := Stringify(printFn); got != "<native fn>" {
		t.Fatalf("display = %q", got)
	}
	if printFn.(runtime.Callable).Arity() != 1 {
		t.Fatalf("print arity should be 1")
	}
}

func TestInterpretReturnsLastExpressionValue(t *testing.T) {
	res := runSource(t, "var a = 2; a * 21;")
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if got := Stringify(res.value); got != "42" {
		t.Fatalf("value = %q", got)
	}
}

func TestGlobalsPersistAcrossInterpretCalls(t *testing.T) {
	collector := &diagnostics.Collector{}
	var out bytes.Buffer
	interp := New(WithStdout(&out), WithReporter(collector))
	res := resolver.New(interp, collector)
	for _, line := range []string{"var n = 1;", "fun inc() { n = n + 1; }", "inc(); print n;"} {
		stmts, err := parser.Parse(scanner.Scan(line, collector), collector)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		if err := res.Resolve(stmts); err != nil {
			t.Fatalf("resolve %q: %v", line, err)
		}
		if _, err := interp.Interpret(stmts); err != nil {
			t.Fatalf("interpret %q: %v", line, err)
		}
	}
	if out.String() != "2\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestTopLevelBreakIsReported(t *testing.T) {
	collector := &diagnostics.Collector{}
	stmts, err := parser.Parse(scanner.Scan("break;", collector), collector)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	interp := New(WithReporter(collector), WithStdout(&bytes.Buffer{}))
	_, err = interp.Interpret(stmts)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) || rtErr.Kind != InvalidControlFlow {
		t.Fatalf("expected InvalidControlFlow, got %v", err)
	}
	if !strings.Contains(collector.String(), "'break' must be used inside a loop.") {
		t.Fatalf("diagnostic = %q", collector.String())
	}
}

func TestBreakEscapingFunctionIsReported(t *testing.T) {
	collector := &diagnostics.Collector{}
	stmts, err := parser.Parse(scanner.Scan("fun f() { break; }\nf();", collector), collector)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	interp := New(WithReporter(collector), WithStdout(&bytes.Buffer{}))
	_, err = interp.Interpret(stmts)
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) || rtErr.Kind != InvalidControlFlow {
		t.Fatalf("expected InvalidControlFlow, got %v", err)
	}
	if rtErr.Token.Line != 1 {
		t.Fatalf("error line = %d, want 1", rtErr.Token.Line)
	}
	if !collector.HadRuntimeError() {
		t.Fatalf("runtime error was not reported")
	}
}
