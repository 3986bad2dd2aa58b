package vm

import (
	"strconv"

	"github.com/ElementialCoder/fmath/source/token"
)

type opcode uint8

// An operation is one instruction. Which of the fields mean anything depends on the opcode:
// push uses number; stor and load use name; call uses name and argc; the loops use name for
// their parameter and own the three sub-programs from, to and body.
type operation struct {
	opcode opcode
	number float64
	name   string
	argc   int
	from   Program
	to     Program
	body   Program
}

type Program []*operation

func makeOp(oc opcode) *operation {
	return &operation{opcode: oc}
}

func pushOp(n float64) *operation {
	return &operation{opcode: push, number: n}
}

func nameOp(oc opcode, name string) *operation {
	return &operation{opcode: oc, name: name}
}

func callOp(name string, argc int) *operation {
	return &operation{opcode: call, name: name, argc: argc}
}

func loopOp(oc opcode, param string, from, to, body Program) *operation {
	return &operation{opcode: oc, name: param, from: from, to: to, body: body}
}

const (
	push opcode = iota // number

	addf
	subf
	mulf
	divf
	powf // Also what 'pow(a, b)' compiles to.

	// Functions of one argument.
	fsin
	fcos
	ftan
	fcot
	fsec
	fcsc
	fsinh
	fcosh
	ftanh
	fasinh
	facosh
	fatanh
	fexp
	flog
	flog10
	flog2
	fsqrt
	fabs
	fasin
	facos
	fatan
	facot
	fasec
	facsc
	ffact
	ffloor

	logb // base, x
	frand
	frndi // a, b

	stor // name
	load // name
	call // name, argc

	suml // param, from, to, body
	prdl // param, from, to, body

	numberOfOpcodes
)

// The special functions which compile to a single instruction, by name.
var functionOpcodes = map[string]opcode{
	token.SIN:     fsin,
	token.COS:     fcos,
	token.TAN:     ftan,
	token.COT:     fcot,
	token.SEC:     fsec,
	token.CSC:     fcsc,
	token.SINH:    fsinh,
	token.COSH:    fcosh,
	token.TANH:    ftanh,
	token.ASINH:   fasinh,
	token.ACOSH:   facosh,
	token.ATANH:   fatanh,
	token.EXP:     fexp,
	token.LOG:     flog,
	token.LOG10:   flog10,
	token.LOG2:    flog2,
	token.SQRT:    fsqrt,
	token.ABS:     fabs,
	token.ASIN:    fasin,
	token.ACOS:    facos,
	token.ATAN:    fatan,
	token.ACOT:    facot,
	token.ASEC:    fasec,
	token.ACSC:    facsc,
	token.FACT:    ffact,
	token.FLOOR:   ffloor,
	token.FPOW:    powf,
	token.LOGBASE: logb,
	token.RAND:    frand,
	token.RANDINT: frndi,
}

var infixOpcodes = map[string]opcode{
	token.PLUS:  addf,
	token.MINUS: subf,
	token.STAR:  mulf,
	token.SLASH: divf,
	token.POW:   powf,
}

var mnemonics = [numberOfOpcodes]string{
	push: "push", addf: "addf", subf: "subf", mulf: "mulf", divf: "divf", powf: "powf",
	fsin: "sin", fcos: "cos", ftan: "tan", fcot: "cot", fsec: "sec", fcsc: "csc",
	fsinh: "sinh", fcosh: "cosh", ftanh: "tanh", fasinh: "asinh", facosh: "acosh", fatanh: "atanh",
	fexp: "exp", flog: "log", flog10: "log10", flog2: "log2", fsqrt: "sqrt", fabs: "abs",
	fasin: "asin", facos: "acos", fatan: "atan", facot: "acot", fasec: "asec", facsc: "acsc",
	ffact: "fact", ffloor: "floor", logb: "logb", frand: "rand", frndi: "randint",
	stor: "stor", load: "load", call: "call", suml: "suml", prdl: "prdl",
}

func (oc opcode) String() string {
	if oc < numberOfOpcodes {
		return mnemonics[oc]
	}
	return "op" + strconv.Itoa(int(oc))
}

// The arity of the special functions, as written in the source. The rest take one argument.
var functionArity = map[string]int{
	token.RAND:    0,
	token.FPOW:    2,
	token.LOGBASE: 2,
	token.RANDINT: 2,
}

func arityOf(function string) int {
	if n, ok := functionArity[function]; ok {
		return n
	}
	return 1
}

// UsesFunctions says whether the program, loops included, calls any user-defined function.
// If it doesn't, it can be run with an empty function table.
func UsesFunctions(program Program) bool {
	for _, op := range program {
		switch op.opcode {
		case call:
			return true
		case suml, prdl:
			if UsesFunctions(op.from) || UsesFunctions(op.to) || UsesFunctions(op.body) {
				return true
			}
		}
	}
	return false
}
