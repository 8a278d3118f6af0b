package bytecode

import (
	"github.com/aqlang/aq-runtime/errors"
)

// ULEB-255 encoding/decoding for AQ instruction operands.
//
// An operand is a run of 0xFF bytes followed by one terminal byte < 0xFF;
// the decoded value is 255*(number of 0xFF bytes) + terminal. The encoding
// grows by one byte per 255 units.

// ReadUint decodes one ULEB-255 operand from code starting at pc.
// It returns the value and the offset of the first byte after the operand.
// Reads are bounded by the code segment; running past the end returns a
// truncation error.
func ReadUint(code []byte, pc int) (uint64, int, error) {
	var runs uint64
	for pc < len(code) {
		b := code[pc]
		pc++
		if b < 0xFF {
			return runs*255 + uint64(b), pc, nil
		}
		runs++
	}
	return 0, pc, errors.Truncated(pc)
}

// Read1 decodes one operand.
func Read1(code []byte, pc int) (first uint64, next int, err error) {
	return ReadUint(code, pc)
}

// Read2 decodes two consecutive operands.
func Read2(code []byte, pc int) (first, second uint64, next int, err error) {
	if first, pc, err = ReadUint(code, pc); err != nil {
		return 0, 0, pc, err
	}
	if second, pc, err = ReadUint(code, pc); err != nil {
		return 0, 0, pc, err
	}
	return first, second, pc, nil
}

// Read3 decodes three consecutive operands.
func Read3(code []byte, pc int) (first, second, third uint64, next int, err error) {
	if first, second, pc, err = Read2(code, pc); err != nil {
		return 0, 0, 0, pc, err
	}
	if third, pc, err = ReadUint(code, pc); err != nil {
		return 0, 0, 0, pc, err
	}
	return first, second, third, pc, nil
}

// Read4 decodes four consecutive operands.
func Read4(code []byte, pc int) (first, second, third, fourth uint64, next int, err error) {
	if first, second, third, pc, err = Read3(code, pc); err != nil {
		return 0, 0, 0, 0, pc, err
	}
	if fourth, pc, err = ReadUint(code, pc); err != nil {
		return 0, 0, 0, 0, pc, err
	}
	return first, second, third, fourth, pc, nil
}

// CallFrame is the decoded operand list of an INVOKE instruction.
type CallFrame struct {
	Func         uint64   // slot holding the word that points at the function name
	Ret          uint64   // slot the host function's result is written to
	ArgCountSlot uint64   // slot whose long-valued contents give len(Args)
	Args         []uint64 // argument slots
}

// ReadCallFrame decodes an INVOKE frame: func, ret and arg-count slots
// followed by as many argument operands as the long value at the arg-count
// slot holds at decode time. argCount supplies that memory read; this is
// the only instruction whose decode length depends on runtime data.
func ReadCallFrame(code []byte, pc int, argCount func(slot uint64) int64) (CallFrame, int, error) {
	var f CallFrame
	var err error
	if f.Func, f.Ret, f.ArgCountSlot, pc, err = Read3(code, pc); err != nil {
		return CallFrame{}, pc, err
	}

	n := argCount(f.ArgCountSlot)
	if n < 0 {
		return CallFrame{}, pc, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
			Op("INVOKE").
			PC(pc).
			Detail("argument count %d", n).
			Build()
	}

	f.Args = make([]uint64, n)
	for i := range f.Args {
		if f.Args[i], pc, err = ReadUint(code, pc); err != nil {
			return CallFrame{}, pc, err
		}
	}
	return f, pc, nil
}

// AppendUint appends the ULEB-255 encoding of v to dst.
// The encoded length is v/255 + 1 bytes.
func AppendUint(dst []byte, v uint64) []byte {
	for v >= 255 {
		dst = append(dst, 0xFF)
		v -= 255
	}
	return append(dst, byte(v))
}

// EncodedLen returns the ULEB-255 encoded length of v in bytes.
func EncodedLen(v uint64) int {
	return int(v/255) + 1
}

// AppendInstruction appends an opcode byte and its ULEB-255 operands.
func AppendInstruction(dst []byte, op Opcode, operands ...uint64) []byte {
	dst = append(dst, byte(op))
	for _, v := range operands {
		dst = AppendUint(dst, v)
	}
	return dst
}
