package vm

import (
	"math/rand/v2"

	"fortio.org/log"

	"github.com/ElementialCoder/fmath/source/ast"
	"github.com/ElementialCoder/fmath/source/token"
)

// Eval walks the tree directly. This is how the bodies of user-defined functions are run,
// sharing the Vm's environment and function table. It doesn't do everything the compiled
// code does: the two-argument 'log' and 'randint' aren't available, and nor of course are
// function definitions.
func (vm *Vm) Eval(node ast.Node) (float64, error) {
	switch node := node.(type) {
	case *ast.NumberLiteral:
		return node.Value, nil
	case *ast.Identifier:
		v, ok := vm.env.get(node.Value)
		if !ok {
			return 0, vm.throw("vm/var/unbound", node.Value)
		}
		return v, nil
	case *ast.AssignmentExpression:
		v, e := vm.Eval(node.Value)
		if e != nil {
			return 0, e
		}
		vm.env.set(node.Name, v)
		return v, nil
	case *ast.InfixExpression:
		log.LogVf("eval infix %s", node.String())
		left, e := vm.Eval(node.Left)
		if e != nil {
			return 0, e
		}
		right, e := vm.Eval(node.Right)
		if e != nil {
			return 0, e
		}
		return binaryFunctions[infixOpcodes[node.Operator]](left, right), nil
	case *ast.SpecialFunction:
		return vm.evalSpecialFunction(node)
	case *ast.FunctionCall:
		log.LogVf("eval call %s", node.String())
		f, ok := vm.functions.Get(node.Name)
		if !ok {
			return 0, vm.throw("vm/func/unknown", node.Name)
		}
		if node.Argc != 1 {
			return 0, vm.throw("vm/func/arity", node.Name, node.Argc)
		}
		arg, e := vm.Eval(node.Arg)
		if e != nil {
			return 0, e
		}
		return vm.callFunction(f, arg)
	case *ast.Sequence:
		if len(node.Elements) == 0 {
			return 0, vm.throw("vm/result/none")
		}
		var last float64
		for _, el := range node.Elements {
			v, e := vm.Eval(el)
			if e != nil {
				return 0, e
			}
			last = v
		}
		return last, nil
	case *ast.LoopExpression:
		from, e := vm.Eval(node.From)
		if e != nil {
			return 0, e
		}
		to, e := vm.Eval(node.To)
		if e != nil {
			return 0, e
		}
		return vm.iterate(node.IsProduct(), node.Param, from, to, func() (float64, error) {
			return vm.Eval(node.Body)
		})
	case *ast.FunctionDefinition:
		return 0, vm.throw("vm/body/def")
	}
	return 0, vm.throw("vm/opcode", node.String())
}

func (vm *Vm) evalSpecialFunction(node *ast.SpecialFunction) (float64, error) {
	switch node.Function {
	case token.LOGBASE:
		return 0, vm.throw("vm/body/unsupported", "log(base, x)")
	case token.RANDINT:
		return 0, vm.throw("vm/body/unsupported", token.RANDINT)
	case token.RAND:
		return rand.Float64(), nil
	}
	args := ast.Arguments(node.Arg)
	values := make([]float64, len(args))
	for i, arg := range args {
		v, e := vm.Eval(arg)
		if e != nil {
			return 0, e
		}
		values[i] = v
	}
	oc := functionOpcodes[node.Function]
	if fn, ok := binaryFunctions[oc]; ok && len(values) == 2 {
		return fn(values[0], values[1]), nil
	}
	if fn, ok := unaryFunctions[oc]; ok && len(values) == 1 {
		return fn(values[0]), nil
	}
	return 0, vm.throw("vm/args", node.Function, arityOf(node.Function), len(values))
}
