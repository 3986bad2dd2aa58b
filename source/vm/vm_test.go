package vm_test

import (
	"errors"
	"testing"

	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/fm"
	"github.com/ElementialCoder/fmath/source/test_helper"
	"github.com/ElementialCoder/fmath/source/vm"
)

func TestArithmetic(t *testing.T) {
	tests := []test_helper.TestItem{
		{`2 + 2`, `4`},
		{`2 + 3 * 4`, `14`},
		{`(2 + 3) * 4`, `20`},
		{`10 - 4 - 3`, `3`},
		{`10 / 4`, `2.5`},
		{`2 ^ 3 ^ 2`, `512`},
		{`-2 ^ 2`, `4`},
		{`-(2 ^ 2)`, `-4`},
		{`1 / 0`, `+Inf`},
		{`-1 / 0`, `-Inf`},
		{`0 / 0`, `NaN`},
		{`|3 - 5|`, `2`},
		{"2\n3", `3`},
	}
	test_helper.RunTest(t, "", tests, test_helper.TestValues)
}

func TestSpecialFunctions(t *testing.T) {
	tests := []test_helper.TestItem{
		{`3!`, `6`},
		{`0!`, `1`},
		{`3.7!`, `6`},
		{`3!!`, `720`},
		{`(-1)!`, `NaN`},
		{`171!`, `+Inf`},
		{`sqrt(16)`, `4`},
		{`abs(-2)`, `2`},
		{`floor(2.7)`, `2`},
		{`floor(-2.5)`, `-3`},
		{`exp(0)`, `1`},
		{`cos(0)`, `1`},
		{`sin(0)`, `0`},
		{`log(1)`, `0`},
		{`log10(1)`, `0`},
		{`log2(8)`, `3`},
		{`log(2, 4)`, `2`},
		{`pow(2, 10)`, `1024`},
		{`floor(rand())`, `0`},
		{`randint(3, 3)`, `3`},
		{`randint(3.5, 2.5)`, `3`},
		{`floor(randint(1, 6) / 7)`, `0`},
	}
	test_helper.RunTest(t, "", tests, test_helper.TestValues)
}

func TestLoops(t *testing.T) {
	tests := []test_helper.TestItem{
		{`sum(from: 1, to: 5, para: i, i)`, `15`},
		{`sum(from: 1, to: 4, para: i, i^2)`, `30`},
		{`product(from: 1, to: 4, para: k, k)`, `24`},
		{`sum(from: 5, to: 1, para: i, i)`, `0`},
		{`product(from: 5, to: 1, para: i, i)`, `1`},
		{`sum(from: 0.5, to: 3.5, para: i, i)`, `6`},
		{`sum(from: 3, to: 3, para: i, i)`, `3`},
		{`sum(from: 1, to: 3, para: i, product(from: 1, to: i, para: j, j))`, `9`},
		{`sum(from: 1, to: 3, para: i, sum(from: 1, to: 3, para: i, i))`, `18`},
		{"var n = 4\nsum(from: 1, to: n, para: i, i)", `10`},
		{"var i = 10\nsum(from: 1, to: 3, para: i, i) + i", `16`},
	}
	test_helper.RunTest(t, "", tests, test_helper.TestValues)
}

func TestVariablesAndFunctions(t *testing.T) {
	tests := []test_helper.TestItem{
		{`var x = 3`, `OK`},
		{`def f(x) = x + 1`, `OK`},
		{"var x = 3\nx + 2", `5`},
		{"var a = 1\nvar a = a + 1\na", `2`},
		{"def sq(x) = x^2\nsq(4) + 1", `17`},
		{"def f(x) = x + 1\ndef g(x) = f(x) * 2\ng(3)", `8`},
		{"var x = 7\ndef f(x) = x * 2\nf(3) + x", `13`},
		{"def f(x) = pow(x, 2) + abs(x)\nf(-3)", `12`},
		{"def f(x) = x + y\nvar y = 2\nf(1)", `3`},
	}
	test_helper.RunTest(t, "", tests, test_helper.TestValues)
}

func TestFunctionsFromFile(t *testing.T) {
	tests := []test_helper.TestItem{
		{`sq(4)`, `16`},
		{`cube(3)`, `27`},
		{`fact(5)`, `120`},
		{`tri(tri(3))`, `21`},
		{`half(base)`, `5`},
		{`sum(from: 1, to: 3, para: i, sq(i))`, `14`},
		{`sum(from: 1, to: 3, para: n, fact(n))`, `9`},
		{`fact(0)`, `1`},
	}
	test_helper.RunTest(t, "functions.mth", tests, test_helper.TestValues)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []test_helper.TestItem{
		{``, `vm/result/none`},
		{`var x = 1`, `vm/result/none`},
		{`x`, `vm/var/unbound`},
		{`f(2)`, `vm/func/unknown`},
		{"def f(x) = x\nf(1, 2)", `vm/func/arity`},
		{"def f(x) = y\nf(1)", `vm/var/unbound`},
		{"def f(x) = g(x)\nf(1)", `vm/func/unknown`},
		{"def f(x) = log(2, x)\nf(8)", `vm/body/unsupported`},
		{"def f(x) = randint(1, x)\nf(8)", `vm/body/unsupported`},
		{"def f(x) = x\nf(1)\nx", `vm/var/unbound`},
		{"sum(from: 1, to: 3, para: i, i)\ni", `vm/var/unbound`},
		{`randint(5.2, 5.5)`, `vm/randint/range`},
		{`randint(1, 1/0)`, `vm/randint/range`},
		{`sum(from: 1, to: 0/0, para: i, i)`, `vm/loop/range`},
		{`product(from: 1, to: 1/0, para: i, i)`, `vm/loop/range`},
		{`sum(from: 1, to: 10^9, para: i, i)`, `vm/loop/range`},
		{`sum(from: 1, to: 3, para: i, j)`, `vm/var/unbound`},
		{`sum(from: 1, to: 3, para: i, i) + 1`, `no error`},
	}
	test_helper.RunTest(t, "", tests, testExecuteErrors)
}

// Compiles and runs the line as a whole program, as the command line does.
func testExecuteErrors(sv *fm.Service, s string) (string, error) {
	program, functions, e := fm.Compile(s)
	if e != nil {
		return "", e
	}
	_, e = fm.Execute(program, functions)
	if e == nil {
		return "no error", nil
	}
	var rtErr *err.Error
	if !errors.As(e, &rtErr) {
		return e.Error(), nil
	}
	return rtErr.ErrorId, nil
}

func TestErrorArguments(t *testing.T) {
	program, functions, e := fm.Compile("def f(x) = x\nf(1, 2, 3)")
	if e != nil {
		t.Fatalf("unexpected compile error: %v", e)
	}
	_, e = fm.Execute(program, functions)
	if !errors.Is(e, err.Kind("vm/func/arity")) {
		t.Fatalf("wanted an arity error, got %v", e)
	}
	var rtErr *err.Error
	errors.As(e, &rtErr)
	if len(rtErr.Args) != 2 || rtErr.Args[0] != "f" || rtErr.Args[1] != 3 {
		t.Fatalf("unexpected arguments %v", rtErr.Args)
	}
	if errors.Is(e, err.Kind("vm/func/unknown")) {
		t.Fatalf("error kinds should be told apart")
	}
}

func TestSessionKeepsState(t *testing.T) {
	sv := fm.NewService()
	for _, line := range []string{"var x = 2", "def twice(y) = 2 * y"} {
		if _, ok, e := sv.Do(line); e != nil || ok {
			t.Fatalf("line %q: wanted no value and no error, got %v, %v", line, ok, e)
		}
	}
	v, ok, e := sv.Do("twice(x) + 1")
	if e != nil || !ok || v != 5 {
		t.Fatalf("wanted 5, got %v, %v, %v", v, ok, e)
	}
	if _, _, e := sv.Do("twice(z)"); e == nil {
		t.Fatalf("wanted an error")
	}
	v, ok, e = sv.Do("x")
	if e != nil || !ok || v != 2 {
		t.Fatalf("a failed line should leave the session alone, got %v, %v, %v", v, ok, e)
	}
}

func TestUsesFunctions(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"1 + sin(2)", false},
		{"def sq(x) = x^2\nvar y = 2", false},
		{"def sq(x) = x^2\nsq(2)", true},
		{"sum(from: 1, to: 3, para: i, product(from: 1, to: i, para: j, f(j)))", true},
		{"sum(from: f(1), to: 3, para: i, i)", true},
	}
	for _, test := range tests {
		program, _, e := fm.Compile(test.code)
		if e != nil {
			t.Fatalf("compiling %q: %v", test.code, e)
		}
		if got := vm.UsesFunctions(program); got != test.want {
			t.Fatalf("%q: wanted %v, got %v", test.code, test.want, got)
		}
	}
}
