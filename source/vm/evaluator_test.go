package vm

import (
	"errors"
	"math"
	"testing"

	"github.com/ElementialCoder/fmath/source/ast"
	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/lexer"
	"github.com/ElementialCoder/fmath/source/parser"
	"github.com/ElementialCoder/fmath/source/settings"
)

// The compiled code and the evaluator should agree on anything they both understand.
func TestEvaluatorAgreesWithVm(t *testing.T) {
	tests := []string{
		`2 + 3 * 4 - 5 / 2`,
		`2 ^ 3 ^ 2`,
		`-2 ^ 2`,
		`|-7| + 3!`,
		`(-1)!`,
		`1 / 0`,
		`sin(1) + cos(2) * tan(3) - cot(1) + sec(1) - csc(1)`,
		`sinh(1) + cosh(1) + tanh(1) + asinh(1) + acosh(2) + atanh(0.5)`,
		`asin(0.5) + acos(0.5) + atan(2) + acot(2) + asec(2) + acsc(2)`,
		`exp(1) + log(2) + log10(2) + log2(3) + sqrt(2) + floor(-1.5)`,
		`pow(2, 0.5) * abs(-3)`,
		`sum(from: 1, to: 10, para: i, i^2)`,
		`product(from: 1, to: 6, para: k, k / 2)`,
		`sum(from: 1, to: 4, para: i, product(from: 1, to: i, para: j, j + i))`,
		`sum(from: 2.5, to: -1, para: i, i)`,
		"def sq(x) = x^2\nsum(from: 1, to: 5, para: i, sq(i)) + sq(2)",
		"var a = 3\nvar b = a * 2\na + b",
	}
	for _, code := range tests {
		program, functions := compileString(t, code)
		want, e := Execute(program, functions)
		if e != nil {
			t.Fatalf("running %q: %v", code, e)
		}
		node, functions := parseString(t, code)
		got, e := New(functions).Eval(node)
		if e != nil {
			t.Fatalf("evaluating %q: %v", code, e)
		}
		if !(got == want || math.IsNaN(got) && math.IsNaN(want)) {
			t.Fatalf("%q: the vm says %v, the evaluator says %v", code, want, got)
		}
	}
}

func TestEvaluatorErrors(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{``, "vm/result/none"},
		{`y + 1`, "vm/var/unbound"},
		{`g(1)`, "vm/func/unknown"},
		{`log(2, 8)`, "vm/body/unsupported"},
		{`randint(1, 6)`, "vm/body/unsupported"},
		{"def f(x) = x\nf(1, 2)", "vm/func/arity"},
		{`sum(from: 0/0, to: 3, para: i, i)`, "vm/loop/range"},
	}
	for _, test := range tests {
		node, functions := parseString(t, test.code)
		_, e := New(functions).Eval(node)
		if !errors.Is(e, err.Kind(test.want)) {
			t.Fatalf("%q: wanted %s, got %v", test.code, test.want, e)
		}
	}
}

func TestEvaluatorReturnsAssignedValue(t *testing.T) {
	node, functions := parseString(t, "var x = 2 + 2")
	vm := New(functions)
	v, e := vm.Eval(node)
	if e != nil || v != 4 {
		t.Fatalf("wanted 4, got %v, %v", v, e)
	}
	if x, ok := vm.Get("x"); !ok || x != 4 {
		t.Fatalf("x should be bound to 4")
	}
}

func TestBindingsAreRestored(t *testing.T) {
	tests := []struct {
		code   string
		failed bool
	}{
		{"def f(i) = i * 2\nf(5) + i", false},
		{`sum(from: 1, to: 3, para: i, i)`, false},
		{`sum(from: 1, to: 3, para: i, i / missing)`, true},
		{"def f(i) = missing\nf(1)", true},
		{"def f(i) = sum(from: 1, to: i, para: i, i)\nf(4)", false},
	}
	for _, test := range tests {
		program, functions := compileString(t, test.code)
		vm := New(functions)
		vm.Set("i", 10)
		_, e := vm.Run(program)
		if (e != nil) != test.failed {
			t.Fatalf("%q: unexpected result %v", test.code, e)
		}
		if v, _ := vm.Get("i"); v != 10 {
			t.Fatalf("%q: i should be 10 again, is %v", test.code, v)
		}
	}
}

func TestUnboundParameterIsRemoved(t *testing.T) {
	program, functions := compileString(t, "def f(p) = p + 1\nf(1) + sum(from: 1, to: 2, para: q, q)")
	vm := New(functions)
	if v, e := vm.Run(program); e != nil || v != 5 {
		t.Fatalf("wanted 5, got %v, %v", v, e)
	}
	for _, name := range []string{"p", "q"} {
		if _, ok := vm.Get(name); ok {
			t.Fatalf("%s should be unbound", name)
		}
	}
}

func TestLoopLimit(t *testing.T) {
	old := settings.MAX_LOOP_ITERATIONS
	defer func() { settings.MAX_LOOP_ITERATIONS = old }()
	settings.MAX_LOOP_ITERATIONS = 100
	program, functions := compileString(t, `sum(from: 1, to: 100, para: i, i)`)
	if v, e := Execute(program, functions); e != nil || v != 5050 {
		t.Fatalf("wanted 5050, got %v, %v", v, e)
	}
	program, functions = compileString(t, `sum(from: 0, to: 100, para: i, i)`)
	if _, e := Execute(program, functions); !errors.Is(e, err.Kind("vm/loop/range")) {
		t.Fatalf("wanted a range error, got %v", e)
	}
}

func TestFactorial(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 1}, {1, 1}, {2, 2}, {5, 120}, {5.9, 120}, {0.5, 1}, {10, 3628800},
	}
	for _, test := range tests {
		if got := factorial(test.in); got != test.want {
			t.Fatalf("%v!: wanted %v, got %v", test.in, test.want, got)
		}
	}
	for _, in := range []float64{-1, -0.5, math.NaN(), math.Inf(-1)} {
		if got := factorial(in); !math.IsNaN(got) {
			t.Fatalf("%v!: wanted NaN, got %v", in, got)
		}
	}
	if !math.IsInf(factorial(171), 1) || !math.IsInf(factorial(math.Inf(1)), 1) {
		t.Fatalf("large factorials should be infinite")
	}
}

func TestEnvironment(t *testing.T) {
	env := newEnvironment()
	env.set("b", 2)
	env.set("a", 1)
	saved := env.bind("b", 20)
	inner := env.bind("c", 30)
	if v, _ := env.get("b"); v != 20 {
		t.Fatalf("b should be rebound")
	}
	env.restore(inner)
	env.restore(saved)
	if v, _ := env.get("b"); v != 2 {
		t.Fatalf("b should be restored")
	}
	if _, ok := env.get("c"); ok {
		t.Fatalf("c should be gone")
	}
	if names := env.names(); len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names %v", names)
	}
}

func parseString(t *testing.T, code string) (node ast.Node, functions parser.FunctionTable) {
	t.Helper()
	lines, ers := lexer.Tokenize("test", code, false)
	if len(ers) > 0 {
		t.Fatalf("lexing %q: %v", code, ers)
	}
	node, functions, ers = parser.Parse(lines)
	if len(ers) > 0 {
		t.Fatalf("parsing %q: %v", code, ers)
	}
	return node, functions
}
