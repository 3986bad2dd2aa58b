package vm

import (
	"strconv"
	"strings"
)

const LA = " <-"
const CM = ","

func describe(op *operation) string {
	switch op.opcode {
	case push:
		return "push " + strconv.FormatFloat(op.number, 'g', -1, 64)
	case stor:
		return "stor " + op.name + LA + " top"
	case load:
		return "load " + op.name
	case call:
		return "call " + op.name + CM + " " + strconv.Itoa(op.argc)
	case suml, prdl:
		return op.opcode.String() + " " + op.name
	}
	return op.opcode.String()
}

// Describe disassembles the program, one instruction to a line, with the sub-programs of
// the loops indented beneath them.
func Describe(program Program) string {
	var out strings.Builder
	describeInto(&out, program, "")
	return out.String()
}

func describeInto(out *strings.Builder, program Program, indent string) {
	for i, op := range program {
		out.WriteString(indent + "@" + strconv.Itoa(i) + " : " + describe(op) + "\n")
		if op.opcode == suml || op.opcode == prdl {
			out.WriteString(indent + "    from:\n")
			describeInto(out, op.from, indent+"        ")
			out.WriteString(indent + "    to:\n")
			describeInto(out, op.to, indent+"        ")
			out.WriteString(indent + "    body:\n")
			describeInto(out, op.body, indent+"        ")
		}
	}
}
