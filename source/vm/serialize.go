package vm

import (
	"encoding/binary"
	"math"

	"github.com/ElementialCoder/fmath/source/err"
)

// The persisted form of a program. After the magic number and the version byte comes the
// program itself, which is a uvarint count of instructions followed by the instructions.
// Each instruction is its opcode byte and then its operands: a float is its IEEE-754 bits
// as a little-endian uint64, a string or a count is a uvarint (followed by the bytes of the
// string), and the sub-programs of a loop are programs in the same format.

const (
	MAGIC          = "FMTH"
	FORMAT_VERSION = 1
)

func Encode(program Program) []byte {
	buf := append([]byte(MAGIC), FORMAT_VERSION)
	return appendProgram(buf, program)
}

func appendProgram(buf []byte, program Program) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(program)))
	for _, op := range program {
		buf = append(buf, byte(op.opcode))
		switch op.opcode {
		case push:
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(op.number))
		case stor, load:
			buf = appendString(buf, op.name)
		case call:
			buf = appendString(buf, op.name)
			buf = binary.AppendUvarint(buf, uint64(op.argc))
		case suml, prdl:
			buf = appendString(buf, op.name)
			buf = appendProgram(buf, op.from)
			buf = appendProgram(buf, op.to)
			buf = appendProgram(buf, op.body)
		}
	}
	return buf
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

type decoder struct {
	data []byte
	pos  int
	e    *err.Error
}

// Decode is the inverse of Encode. Errors are *err.Error with identifiers in the codec family.
func Decode(data []byte) (Program, error) {
	if len(data) < len(MAGIC)+1 || string(data[:len(MAGIC)]) != MAGIC {
		return nil, err.CreateErr("codec/magic", nil)
	}
	if v := data[len(MAGIC)]; v != FORMAT_VERSION {
		return nil, err.CreateErr("codec/version", nil, int(v), FORMAT_VERSION)
	}
	d := &decoder{data: data, pos: len(MAGIC) + 1}
	program := d.program()
	if d.e != nil {
		return nil, d.e
	}
	if d.pos != len(d.data) {
		return nil, err.CreateErr("codec/trailing", nil, len(d.data)-d.pos)
	}
	return program, nil
}

func (d *decoder) fail(errorID string, args ...any) {
	if d.e == nil {
		d.e = err.CreateErr(errorID, nil, args...)
	}
}

func (d *decoder) uvarint() uint64 {
	if d.e != nil {
		return 0
	}
	v, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		d.fail("codec/truncated")
		return 0
	}
	d.pos += n
	return v
}

func (d *decoder) string() string {
	n := d.uvarint()
	if d.e != nil {
		return ""
	}
	if n > uint64(len(d.data)-d.pos) {
		d.fail("codec/truncated")
		return ""
	}
	s := string(d.data[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s
}

func (d *decoder) float() float64 {
	if d.e != nil {
		return 0
	}
	if len(d.data)-d.pos < 8 {
		d.fail("codec/truncated")
		return 0
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(d.data[d.pos:]))
	d.pos += 8
	return v
}

func (d *decoder) program() Program {
	n := d.uvarint()
	if d.e != nil {
		return nil
	}
	// Every instruction takes at least a byte, which stops a corrupt count from making us allocate the earth.
	if n > uint64(len(d.data)-d.pos) {
		d.fail("codec/truncated")
		return nil
	}
	program := make(Program, 0, n)
	for range n {
		op := d.operation()
		if d.e != nil {
			return nil
		}
		program = append(program, op)
	}
	return program
}

func (d *decoder) operation() *operation {
	if d.pos >= len(d.data) {
		d.fail("codec/truncated")
		return nil
	}
	oc := opcode(d.data[d.pos])
	d.pos++
	if oc >= numberOfOpcodes {
		d.fail("codec/opcode", int(oc))
		return nil
	}
	switch oc {
	case push:
		return pushOp(d.float())
	case stor, load:
		return nameOp(oc, d.string())
	case call:
		name := d.string()
		return callOp(name, int(d.uvarint()))
	case suml, prdl:
		param := d.string()
		from := d.program()
		to := d.program()
		body := d.program()
		return loopOp(oc, param, from, to, body)
	}
	return makeOp(oc)
}
