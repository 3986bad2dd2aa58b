package fm_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/fm"
)

func TestCompileAndExecute(t *testing.T) {
	tests := []struct {
		code string
		want float64
	}{
		{`1 + 1`, 2},
		{"def sq(x) = x^2\nsq(3)", 9},
		{"var n = 5\nproduct(from: 1, to: n, para: i, i)", 120},
		{"# comment\n\n  sum(from: 1, to: 3, para: i, i) ", 6},
	}
	for _, test := range tests {
		program, functions, e := fm.Compile(test.code)
		if e != nil {
			t.Fatalf("compiling %q: %v", test.code, e)
		}
		v, e := fm.Execute(program, functions)
		if e != nil || v != test.want {
			t.Fatalf("%q: wanted %v, got %v, %v", test.code, test.want, v, e)
		}
	}
}

func TestExecuteIsFresh(t *testing.T) {
	program, functions, e := fm.Compile("var x = 1\nx")
	if e != nil {
		t.Fatal(e)
	}
	for range 2 {
		if v, e := fm.Execute(program, functions); e != nil || v != 1 {
			t.Fatalf("wanted 1, got %v, %v", v, e)
		}
	}
	other, _, _ := fm.Compile("x")
	if _, e := fm.Execute(other, functions); !errors.Is(e, err.Kind("vm/var/unbound")) {
		t.Fatalf("variables should not leak between runs, got %v", e)
	}
}

func TestCompileErrors(t *testing.T) {
	_, _, e := fm.Compile("1 +\n2")
	var ers err.Errors
	if !errors.As(e, &ers) || len(ers) != 1 || ers.First().ErrorId != "parse/eol" {
		t.Fatalf("wanted a parse/eol error, got %v", e)
	}
	if ers.First().Token.Line != 1 {
		t.Fatalf("the error should be on line 1")
	}
	var first *err.Error
	if !errors.Is(e, err.Kind("parse/eol")) || !errors.As(e, &first) || first.ErrorId != "parse/eol" {
		t.Fatalf("errors.Is and errors.As should see the error in the list, got %v", e)
	}
	if _, _, ers := fm.CompileSource("test", "2 + $2", true); ers.First().ErrorId != "lex/ill" {
		t.Fatalf("the strict lexer should reject '$', got %v", ers)
	}
	if _, _, ers := fm.CompileSource("test", "2 + $2", false); len(ers) != 0 {
		t.Fatalf("the lenient lexer should skip '$', got %v", ers)
	}
}

func TestParseFunctions(t *testing.T) {
	functions, e := fm.ParseFunctions("def f(x) = x + 1\ndef g(y) = f(y)\ng(1)")
	if e != nil {
		t.Fatal(e)
	}
	if names := functions.Names(); len(names) != 2 || names[0] != "f" || names[1] != "g" {
		t.Fatalf("unexpected functions %v", names)
	}
	if _, e := fm.ParseFunctions("def f(x) ="); e == nil {
		t.Fatalf("wanted an error")
	}
	if _, e := fm.ParseFunctions("def f(x) = 1 + f(x)"); e == nil {
		t.Fatalf("wanted an error for a recursive definition")
	}
	program, _, _ := fm.Compile("def f(x) = x + 1\ndef g(y) = f(y)\ng(1)")
	if v, e := fm.Execute(program, functions); e != nil || v != 2 {
		t.Fatalf("a parsed table should run compiled code, got %v, %v", v, e)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"}, {2.5, "2.5"}, {-0.125, "-0.125"}, {1e21, "1e+21"},
		{math.Inf(1), "+Inf"}, {math.NaN(), "NaN"},
	}
	for _, test := range tests {
		if got := fm.Format(test.in); got != test.want {
			t.Fatalf("wanted %s, got %s", test.want, got)
		}
	}
}
