package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Instruction is one decoded instruction for display and tooling.
type Instruction struct {
	PC       int
	Op       Opcode
	Operands []uint64
	Len      int // total encoded length in bytes
}

// String formats the instruction as "PC: MNEMONIC op, op, ...".
func (in Instruction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04x: %s", in.PC, in.Op)
	for i, v := range in.Operands {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", v)
	}
	return b.String()
}

// Disassemble decodes the image's code segment into instructions.
//
// INVOKE's operand count is the long value at its arg-count slot, which the
// disassembler reads from the image's *initial* data segment; a program that
// rewrites that slot before reaching the INVOKE will decode differently at
// run time. Decoding stops at the first unknown opcode or truncated operand,
// recording it as a final synthetic entry.
func Disassemble(img *Image) []Instruction {
	var out []Instruction
	code := img.Code
	pc := 0
	for pc < len(code) {
		op := Opcode(code[pc])
		start := pc
		pc++

		n, fixed := op.OperandCount()
		switch {
		case fixed:
			operands := make([]uint64, 0, n)
			ok := true
			for i := 0; i < n; i++ {
				v, next, err := ReadUint(code, pc)
				if err != nil {
					ok = false
					break
				}
				operands = append(operands, v)
				pc = next
			}
			if !ok {
				return append(out, Instruction{PC: start, Op: op, Operands: operands, Len: len(code) - start})
			}
			out = append(out, Instruction{PC: start, Op: op, Operands: operands, Len: pc - start})

		case op == OpInvoke:
			frame, next, err := ReadCallFrame(code, pc, func(slot uint64) int64 {
				return initialLong(img, slot)
			})
			if err != nil {
				return append(out, Instruction{PC: start, Op: op, Len: len(code) - start})
			}
			operands := append([]uint64{frame.Func, frame.Ret, frame.ArgCountSlot}, frame.Args...)
			out = append(out, Instruction{PC: start, Op: op, Operands: operands, Len: next - start})
			pc = next

		default:
			// Unknown opcode: execution would fault here.
			return append(out, Instruction{PC: start, Op: op, Len: 1})
		}
	}
	return out
}

// initialLong reads the long-converted initial value of a slot, mirroring
// the memory read the VM performs when decoding INVOKE.
func initialLong(img *Image, slot uint64) int64 {
	data := img.Data
	t := img.TagAt(slot)
	w := uint64(t.Width())
	if w == 0 || slot+w > uint64(len(data)) {
		return 0
	}
	switch t {
	case TagByte:
		return int64(int8(data[slot]))
	case TagInt:
		return int64(int32(binary.LittleEndian.Uint32(data[slot:])))
	case TagLong:
		return int64(binary.LittleEndian.Uint64(data[slot:]))
	case TagFloat:
		return int64(math.Float32frombits(binary.LittleEndian.Uint32(data[slot:])))
	case TagDouble:
		return int64(math.Float64frombits(binary.LittleEndian.Uint64(data[slot:])))
	default:
		return 0
	}
}
