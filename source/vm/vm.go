package vm

import (
	"math"
	"math/rand/v2"

	"fortio.org/log"

	"github.com/ElementialCoder/fmath/source/err"
	"github.com/ElementialCoder/fmath/source/parser"
	"github.com/ElementialCoder/fmath/source/settings"
)

// The Vm owns the environment and knows the user-defined functions. Execute makes a fresh
// one for every run; the hub keeps one for the whole session so that variables persist.
type Vm struct {
	env       environment
	functions parser.FunctionTable
}

func New(functions parser.FunctionTable) *Vm {
	if functions == nil {
		functions = parser.FunctionTable{}
	}
	return &Vm{env: newEnvironment(), functions: functions}
}

// Execute runs the program in a fresh environment and returns its result.
func Execute(program Program, functions parser.FunctionTable) (float64, error) {
	return New(functions).Run(program)
}

// Run executes the program against the Vm's environment. Any failure is returned as an *err.Error.
func (vm *Vm) Run(program Program) (float64, error) {
	return vm.exec(program, "")
}

func (vm *Vm) Functions() parser.FunctionTable {
	return vm.functions
}

// Adds the functions in the table to the vm's, replacing any with the same name.
func (vm *Vm) Define(functions parser.FunctionTable) {
	for k, v := range functions {
		vm.functions[k] = v
	}
}

// Returns the variables in alphabetical order of name, and their values.
func (vm *Vm) Vars() ([]string, []float64) {
	names := vm.env.names()
	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = vm.env[name]
	}
	return names, values
}

func (vm *Vm) Get(name string) (float64, bool) {
	return vm.env.get(name)
}

func (vm *Vm) Set(name string, v float64) {
	vm.env.set(name, v)
}

// Forgets all the variables but not the functions.
func (vm *Vm) Reset() {
	vm.env = newEnvironment()
}

// Do is Run for the hub: a program which leaves nothing on the stack, such as an assignment,
// isn't an error but returns false.
func (vm *Vm) Do(program Program) (float64, bool, error) {
	stack, e := vm.run(program)
	if e != nil || len(stack) == 0 {
		return 0, false, e
	}
	return stack[len(stack)-1], true, nil
}

// exec runs a program on a stack of its own. The description says what the program is for:
// it's empty for a whole program, and "from", "to" or "body" for the parts of a loop.
func (vm *Vm) exec(program Program, description string) (float64, error) {
	stack, e := vm.run(program)
	if e != nil {
		return 0, e
	}
	if len(stack) == 0 {
		if description == "" {
			return 0, vm.throw("vm/result/none")
		}
		return 0, vm.throw("vm/result/none", description)
	}
	return stack[len(stack)-1], nil
}

func (vm *Vm) run(program Program) ([]float64, error) {
	stack := make([]float64, 0, 16)
	for _, op := range program {
		if settings.SHOW_RUNTIME {
			log.LogVf("%s (stack depth %d)", describe(op), len(stack))
		}
		switch op.opcode {
		case push:
			stack = append(stack, op.number)
		case addf, subf, mulf, divf, powf, logb:
			if len(stack) < 2 {
				return nil, vm.throw("vm/stack/underflow", op.opcode.String())
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			stack = append(stack[:len(stack)-2], binaryFunctions[op.opcode](a, b))
		case frand:
			stack = append(stack, rand.Float64())
		case frndi:
			if len(stack) < 2 {
				return nil, vm.throw("vm/stack/underflow", op.opcode.String())
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			v, e := vm.randint(a, b)
			if e != nil {
				return nil, e
			}
			stack = append(stack[:len(stack)-2], v)
		case stor:
			if len(stack) < 1 {
				return nil, vm.throw("vm/stack/underflow", op.opcode.String())
			}
			vm.env.set(op.name, stack[len(stack)-1])
			stack = stack[:len(stack)-1]
		case load:
			v, ok := vm.env.get(op.name)
			if !ok {
				return nil, vm.throw("vm/var/unbound", op.name)
			}
			stack = append(stack, v)
		case call:
			f, ok := vm.functions.Get(op.name)
			if !ok {
				return nil, vm.throw("vm/func/unknown", op.name)
			}
			if op.argc != 1 {
				return nil, vm.throw("vm/func/arity", op.name, op.argc)
			}
			if len(stack) < 1 {
				return nil, vm.throw("vm/stack/underflow", op.opcode.String())
			}
			v, e := vm.callFunction(f, stack[len(stack)-1])
			if e != nil {
				return nil, e
			}
			stack[len(stack)-1] = v
		case suml, prdl:
			v, e := vm.loop(op)
			if e != nil {
				return nil, e
			}
			stack = append(stack, v)
		default:
			fn, ok := unaryFunctions[op.opcode]
			if !ok {
				return nil, vm.throw("vm/opcode", op.opcode.String())
			}
			if len(stack) < 1 {
				return nil, vm.throw("vm/stack/underflow", op.opcode.String())
			}
			stack[len(stack)-1] = fn(stack[len(stack)-1])
		}
	}
	return stack, nil
}

// The parameter is bound for the duration of the call and then restored, even if the
// body fails.
func (vm *Vm) callFunction(f *parser.Function, arg float64) (float64, error) {
	saved := vm.env.bind(f.Param, arg)
	defer vm.env.restore(saved)
	return vm.Eval(f.Body)
}

func (vm *Vm) loop(op *operation) (float64, error) {
	from, e := vm.exec(op.from, "from")
	if e != nil {
		return 0, e
	}
	to, e := vm.exec(op.to, "to")
	if e != nil {
		return 0, e
	}
	return vm.iterate(op.opcode == prdl, op.name, from, to, func() (float64, error) {
		return vm.exec(op.body, "body")
	})
}

// iterate binds the parameter to each whole number from the ceiling of from to the floor of
// to in turn, restoring it after each iteration, and adds or multiplies together the values
// of the body. An empty range gives 0 for a sum and 1 for a product.
func (vm *Vm) iterate(isProduct bool, param string, from, to float64, body func() (float64, error)) (float64, error) {
	kind, acc := "sum", 0.0
	if isProduct {
		kind, acc = "product", 1.0
	}
	lo, hi := math.Ceil(from), math.Floor(to)
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, vm.throw("vm/loop/range", kind, from, to, settings.MAX_LOOP_ITERATIONS)
	}
	if hi < lo {
		return acc, nil
	}
	if hi-lo >= float64(settings.MAX_LOOP_ITERATIONS) {
		return 0, vm.throw("vm/loop/range", kind, from, to, settings.MAX_LOOP_ITERATIONS)
	}
	n := int(hi-lo) + 1
	log.LogVf("%s over %s from %v to %v", kind, param, lo, hi)
	for i := 0; i < n; i++ {
		saved := vm.env.bind(param, lo+float64(i))
		v, e := body()
		vm.env.restore(saved)
		if e != nil {
			return 0, e
		}
		if isProduct {
			acc *= v
		} else {
			acc += v
		}
	}
	return acc, nil
}

// A whole number picked uniformly from between a and b inclusive, in whichever order they come.
func (vm *Vm) randint(a, b float64) (float64, error) {
	lo, hi := math.Min(a, b), math.Max(a, b)
	lo, hi = math.Ceil(lo), math.Floor(hi)
	if !(lo <= hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, vm.throw("vm/randint/range", lo, hi)
	}
	span := hi - lo + 1
	if span < 1<<62 {
		return lo + float64(rand.Int64N(int64(span))), nil
	}
	return math.Min(lo+math.Floor(rand.Float64()*span), hi), nil
}

func (vm *Vm) throw(errorID string, args ...any) *err.Error {
	e := err.CreateErr(errorID, nil, args...)
	log.LogVf("run-time error: %s", e.Message)
	return e
}
