package runtime

import (
	"github.com/aqlang/aq-runtime/bytecode"
	"github.com/aqlang/aq-runtime/errors"
)

// Arithmetic/logic kernel. Every binary op computes its working type (the
// highest-ranked tag among result and operands), performs the operation in
// that type, and stores the result into the destination with width
// coercion. Dispatch picks one working-type lane, each lane backed by a
// monomorphic generic kernel.

type integer interface {
	~int8 | ~int32 | ~int64
}

// intKernel performs op in an integer working type. ok is false when the
// op does not apply to the lane (nothing is stored); a zero divisor on DIV
// or REM is fatal.
func intKernel[T integer](op bytecode.Opcode, x, y T, pc int) (v T, ok bool, err error) {
	switch op {
	case bytecode.OpAdd:
		return x + y, true, nil
	case bytecode.OpSub:
		return x - y, true, nil
	case bytecode.OpMul:
		return x * y, true, nil
	case bytecode.OpDiv:
		if y == 0 {
			return 0, false, errors.DivByZero("DIV", pc)
		}
		return x / y, true, nil
	case bytecode.OpRem:
		if y == 0 {
			return 0, false, errors.DivByZero("REM", pc)
		}
		return x % y, true, nil
	case bytecode.OpShl:
		return x << uint64(y), true, nil
	case bytecode.OpShr, bytecode.OpSar:
		// The ISA defines both right shifts as arithmetic. A logical
		// SHR would diverge from existing images.
		return x >> uint64(y), true, nil
	case bytecode.OpAnd:
		return x & y, true, nil
	case bytecode.OpOr:
		return x | y, true, nil
	case bytecode.OpXor:
		return x ^ y, true, nil
	default:
		return 0, false, nil
	}
}

type float interface {
	~float32 | ~float64
}

// floatKernel performs op in a floating working type. REM, shifts and
// bitwise ops have no float lane and store nothing. DIV by zero follows
// IEEE-754.
func floatKernel[T float](op bytecode.Opcode, x, y T) (v T, ok bool) {
	switch op {
	case bytecode.OpAdd:
		return x + y, true
	case bytecode.OpSub:
		return x - y, true
	case bytecode.OpMul:
		return x * y, true
	case bytecode.OpDiv:
		return x / y, true
	default:
		return 0, false
	}
}

// workingType resolves the promotion over the result and operand tags.
func (m *Memory) workingType(slots ...uint64) bytecode.Tag {
	wt := bytecode.TagVoid
	for _, s := range slots {
		wt = wt.Promote(m.TypeOf(s))
	}
	return wt
}

// binary executes one ADD..XOR instruction. Working types outside the
// op's domain store nothing.
func (m *Memory) binary(op bytecode.Opcode, r, a, b uint64, pc int) error {
	switch m.workingType(r, a, b) {
	case bytecode.TagDouble:
		if v, ok := floatKernel(op, m.ReadDouble(a), m.ReadDouble(b)); ok {
			m.WriteDouble(r, v)
		}
	case bytecode.TagFloat:
		if v, ok := floatKernel(op, m.ReadFloat(a), m.ReadFloat(b)); ok {
			m.WriteFloat(r, v)
		}
	case bytecode.TagLong:
		v, ok, err := intKernel(op, m.ReadLong(a), m.ReadLong(b), pc)
		if err != nil {
			return err
		}
		if ok {
			m.WriteLong(r, v)
		}
	case bytecode.TagInt:
		v, ok, err := intKernel(op, m.ReadInt(a), m.ReadInt(b), pc)
		if err != nil {
			return err
		}
		if ok {
			m.WriteInt(r, v)
		}
	case bytecode.TagByte:
		v, ok, err := intKernel(op, m.ReadByte(a), m.ReadByte(b), pc)
		if err != nil {
			return err
		}
		if ok {
			m.WriteByte(r, v)
		}
	}
	return nil
}

// negate executes NEG: unary two's-complement or IEEE negation in the
// working type of result and operand.
func (m *Memory) negate(r, a uint64) {
	switch m.workingType(r, a) {
	case bytecode.TagDouble:
		m.WriteDouble(r, -m.ReadDouble(a))
	case bytecode.TagFloat:
		m.WriteFloat(r, -m.ReadFloat(a))
	case bytecode.TagLong:
		m.WriteLong(r, -m.ReadLong(a))
	case bytecode.TagInt:
		m.WriteInt(r, -m.ReadInt(a))
	case bytecode.TagByte:
		m.WriteByte(r, -m.ReadByte(a))
	}
}

func order[T integer | float](cmp int8, x, y T) (bool, bool) {
	switch cmp {
	case bytecode.CmpEQ:
		return x == y, true
	case bytecode.CmpNE:
		return x != y, true
	case bytecode.CmpLT:
		return x < y, true
	case bytecode.CmpLE:
		return x <= y, true
	case bytecode.CmpGT:
		return x > y, true
	case bytecode.CmpGE:
		return x >= y, true
	default:
		return false, false
	}
}

// compare executes CMP: the comparison operator is the byte value at the
// op slot, the comparison runs in the working type, and the 0/1 outcome is
// stored into the result with width coercion.
func (m *Memory) compare(r, opSlot, a, b uint64) {
	cmp := m.ReadByte(opSlot)

	var res, ok bool
	switch m.workingType(r, a, b) {
	case bytecode.TagDouble:
		res, ok = order(cmp, m.ReadDouble(a), m.ReadDouble(b))
	case bytecode.TagFloat:
		res, ok = order(cmp, m.ReadFloat(a), m.ReadFloat(b))
	case bytecode.TagLong:
		res, ok = order(cmp, m.ReadLong(a), m.ReadLong(b))
	case bytecode.TagInt:
		res, ok = order(cmp, m.ReadInt(a), m.ReadInt(b))
	case bytecode.TagByte:
		res, ok = order(cmp, m.ReadByte(a), m.ReadByte(b))
	default:
		return
	}
	if !ok {
		return
	}

	var v int64
	if res {
		v = 1
	}
	m.WriteLong(r, v)
}
