package fm

import (
	"strconv"

	"github.com/ElementialCoder/fmath/source/ast"
	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/lexer"
	"github.com/ElementialCoder/fmath/source/parser"
	"github.com/ElementialCoder/fmath/source/vm"
)

// The core of fmath is three functions: Compile turns source code into a program and the table
// of functions it defines; Execute runs a program; ParseFunctions gets the function table back out
// of the source code, since a compiled program doesn't contain the function definitions.

// Compile lexes, parses and compiles the source code. Syntax errors are fatal: if there are any,
// there's no program and the error is an err.Errors.
func Compile(code string) (vm.Program, parser.FunctionTable, error) {
	program, functions, ers := CompileSource("", code, false)
	if len(ers) > 0 {
		return nil, nil, ers
	}
	return program, functions, nil
}

// CompileSource is Compile with more options. The sourceName appears in error messages.
func CompileSource(sourceName, code string, strict bool) (vm.Program, parser.FunctionTable, err.Errors) {
	node, functions, ers := ParseSource(sourceName, code, strict)
	if len(ers) > 0 {
		return nil, nil, ers
	}
	program, ers := vm.Compile(node, functions)
	if len(ers) > 0 {
		return nil, nil, ers
	}
	return program, functions, nil
}

func ParseSource(sourceName, code string, strict bool) (ast.Node, parser.FunctionTable, err.Errors) {
	lines, ers := lexer.Tokenize(sourceName, code, strict)
	if len(ers) > 0 {
		return nil, nil, ers
	}
	return parser.Parse(lines)
}

// ParseFunctions returns the table of functions defined in the source code. The definitions
// are checked as they would be by Compile, but nothing is lowered.
func ParseFunctions(code string) (parser.FunctionTable, error) {
	_, functions, ers := ParseSource("", code, false)
	if len(ers) > 0 {
		return nil, ers
	}
	if ers := vm.CheckFunctions(functions); len(ers) > 0 {
		return nil, ers
	}
	return functions, nil
}

// Execute runs the program in a fresh environment. Failures are *err.Error, with the kind of
// failure in the ErrorId.
func Execute(program vm.Program, functions parser.FunctionTable) (float64, error) {
	return vm.Execute(program, functions)
}

// Format renders a result the way the hub and the command line show it.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
