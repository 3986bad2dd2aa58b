package vm_test

import (
	"testing"

	"github.com/ElementialCoder/fmath/source/test_helper"
)

func TestCompiler(t *testing.T) {
	tests := []test_helper.TestItem{
		{`2 + 3`, "@0 : push 2\n@1 : push 3\n@2 : addf\n"},
		{`-x`, "@0 : push 0\n@1 : load x\n@2 : subf\n"},
		{`sin(x)!`, "@0 : load x\n@1 : sin\n@2 : fact\n"},
		{`pow(2, 3)`, "@0 : push 2\n@1 : push 3\n@2 : powf\n"},
		{`log(2, 8)`, "@0 : push 2\n@1 : push 8\n@2 : logb\n"},
		{`rand()`, "@0 : rand\n"},
		{`randint(1, 6)`, "@0 : push 1\n@1 : push 6\n@2 : randint\n"},
		{`var x = 1`, "@0 : push 1\n@1 : stor x <- top\n"},
		{"1\n2", "@0 : push 1\n@1 : stor _tmp <- top\n@2 : push 2\n"},
		{"var x = 1\nx", "@0 : push 1\n@1 : stor x <- top\n@2 : load x\n"},
		{"def f(x) = x\nf(2)", "@0 : push 2\n@1 : call f, 1\n"},
		{`sum(from: 1, to: n, para: i, i^2)`,
			"@0 : suml i\n" +
				"    from:\n" +
				"        @0 : push 1\n" +
				"    to:\n" +
				"        @0 : load n\n" +
				"    body:\n" +
				"        @0 : load i\n" +
				"        @1 : push 2\n" +
				"        @2 : powf\n"},
		{`product(from: 1, to: 2, para: j, j) * 2`,
			"@0 : prdl j\n" +
				"    from:\n" +
				"        @0 : push 1\n" +
				"    to:\n" +
				"        @0 : push 2\n" +
				"    body:\n" +
				"        @0 : load j\n" +
				"@1 : push 2\n" +
				"@2 : mulf\n"},
		{``, ""},
	}
	test_helper.RunTest(t, "", tests, test_helper.TestCompilerOutput)
}
