package vm

import (
	"fmt"

	"fortio.org/log"

	"github.com/ElementialCoder/fmath/source/ast"
	"github.com/ElementialCoder/fmath/source/digraph"
	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/parser"
	"github.com/ElementialCoder/fmath/source/settings"
	"github.com/ElementialCoder/fmath/source/token"
)

// The compiler lowers the tree to a Program by a post-order walk. Its errors are special
// functions given the wrong number of arguments and functions which call themselves, and
// these are fatal.
type Compiler struct {
	Errors err.Errors
}

func NewCompiler() *Compiler {
	return &Compiler{Errors: []*err.Error{}}
}

// Compile lowers the main expression of a script. The function definitions aren't compiled,
// since their bodies are evaluated as trees, but they are checked for the same errors.
func Compile(node ast.Node, functions parser.FunctionTable) (Program, err.Errors) {
	cp := NewCompiler()
	cp.checkFunctions(functions)
	program := Program{}
	cp.CompileNode(node, &program)
	if cp.ErrorsExist() {
		return nil, cp.Errors
	}
	if settings.SHOW_COMPILER {
		fmt.Print(Describe(program))
	}
	return program, nil
}

// CheckFunctions finds the errors Compile would find in the function definitions, without
// lowering anything.
func CheckFunctions(functions parser.FunctionTable) err.Errors {
	cp := NewCompiler()
	cp.checkFunctions(functions)
	if cp.ErrorsExist() {
		return cp.Errors
	}
	return nil
}

func (cp *Compiler) checkFunctions(functions parser.FunctionTable) {
	for _, name := range functions.Names() {
		cp.check(functions[name].Body)
	}
	cp.checkRecursion(functions)
}

func (cp *Compiler) CompileNode(node ast.Node, program *Program) {
	if cp.ErrorsExist() {
		return
	}
	log.LogVf("compiling %T %s", node, node.String())
	switch node := node.(type) {
	case *ast.NumberLiteral:
		cp.emit(program, pushOp(node.Value))
	case *ast.Identifier:
		cp.emit(program, nameOp(load, node.Value))
	case *ast.AssignmentExpression:
		cp.CompileNode(node.Value, program)
		cp.emit(program, nameOp(stor, node.Name))
	case *ast.InfixExpression:
		cp.CompileNode(node.Left, program)
		cp.CompileNode(node.Right, program)
		cp.emit(program, makeOp(infixOpcodes[node.Operator]))
	case *ast.SpecialFunction:
		args := ast.Arguments(node.Arg)
		if !cp.checkArguments(node, args) {
			return
		}
		for _, arg := range args {
			cp.CompileNode(arg, program)
		}
		cp.emit(program, makeOp(functionOpcodes[node.Function]))
	case *ast.FunctionDefinition:
		// Already in the function table.
	case *ast.FunctionCall:
		cp.CompileNode(node.Arg, program)
		cp.emit(program, callOp(node.Name, node.Argc))
	case *ast.Sequence:
		// Everything but the last element is there for its side-effects, so its value goes
		// in the scratch variable. Assignments and definitions leave nothing to discard.
		for i, el := range node.Elements {
			cp.CompileNode(el, program)
			if i < len(node.Elements)-1 && !leavesNothing(el) {
				cp.emit(program, nameOp(stor, settings.SCRATCH))
			}
		}
	case *ast.LoopExpression:
		from, to, body := Program{}, Program{}, Program{}
		cp.CompileNode(node.From, &from)
		cp.CompileNode(node.To, &to)
		cp.CompileNode(node.Body, &body)
		oc := suml
		if node.IsProduct() {
			oc = prdl
		}
		cp.emit(program, loopOp(oc, node.Param, from, to, body))
	default:
		cp.Throw("comp/node", node.GetToken(), fmt.Sprintf("%T", node))
	}
}

func leavesNothing(node ast.Node) bool {
	switch node.(type) {
	case *ast.AssignmentExpression, *ast.FunctionDefinition:
		return true
	}
	return false
}

func (cp *Compiler) emit(program *Program, op *operation) {
	*program = append(*program, op)
}

func (cp *Compiler) checkArguments(node *ast.SpecialFunction, args []ast.Node) bool {
	if want := arityOf(node.Function); len(args) != want {
		cp.Throw("comp/args", &node.Token, node.Token.Literal, want, len(args))
		return false
	}
	return true
}

// Walks a function body looking for special functions with the wrong number of arguments.
func (cp *Compiler) check(node ast.Node) {
	if node == nil || cp.ErrorsExist() {
		return
	}
	if sf, ok := node.(*ast.SpecialFunction); ok {
		if !cp.checkArguments(sf, ast.Arguments(sf.Arg)) {
			return
		}
	}
	for _, child := range node.Children() {
		cp.check(child)
	}
}

// There are no conditionals, so a function which can reach itself through its calls would
// never return.
func (cp *Compiler) checkRecursion(functions parser.FunctionTable) {
	if cp.ErrorsExist() {
		return
	}
	calls := digraph.Digraph[string]{}
	for name, f := range functions {
		callees := []string{}
		for _, call := range callsIn(f.Body) {
			if _, ok := functions[call.Name]; ok {
				callees = append(callees, call.Name)
			}
		}
		calls.Add(name, callees)
	}
	_, cycle := digraph.Ordering(calls)
	if len(cycle) == 0 {
		return
	}
	var tok *token.Token
	next := cycle[1%len(cycle)]
	for _, call := range callsIn(functions[cycle[0]].Body) {
		if call.Name == next {
			tok = &call.Token
			break
		}
	}
	cp.Throw("comp/recursion", tok, append(cycle, cycle[0]))
}

func callsIn(node ast.Node) []*ast.FunctionCall {
	if node == nil {
		return nil
	}
	result := []*ast.FunctionCall{}
	if call, ok := node.(*ast.FunctionCall); ok {
		result = append(result, call)
	}
	for _, child := range node.Children() {
		result = append(result, callsIn(child)...)
	}
	return result
}

func (cp *Compiler) Throw(errorID string, tok *token.Token, args ...any) {
	cp.Errors = err.Throw(errorID, cp.Errors, tok, args...)
}

func (cp *Compiler) ErrorsExist() bool {
	return len(cp.Errors) > 0
}
