package runtime

import (
	"context"

	"go.uber.org/zap"

	"github.com/aqlang/aq-runtime/bytecode"
	"github.com/aqlang/aq-runtime/errors"
)

// Instance is one loaded program: its tagged memory, its heap, and its
// code segment with the program counter. Instances are not safe for
// concurrent use; one goroutine drives one instance.
type Instance struct {
	rt   *Runtime
	mem  *Memory
	heap *heap
	code []byte
	pc   int
	done bool
}

// Memory returns the instance's tagged memory.
func (in *Instance) Memory() *Memory {
	return in.mem
}

// PC returns the current program counter: a byte offset into the code
// segment.
func (in *Instance) PC() int {
	return in.pc
}

// Done reports whether execution has terminated.
func (in *Instance) Done() bool {
	return in.done
}

// Run executes instructions until the program counter reaches the end of
// the code segment, RETURN executes, the context is cancelled, or a fatal
// condition surfaces.
func (in *Instance) Run(ctx context.Context) error {
	for {
		done, err := in.Step(ctx)
		if err != nil || done {
			return err
		}
	}
}

// Step executes a single instruction and reports whether execution has
// terminated. Fatal conditions terminate the instance; a terminated
// instance stays done.
func (in *Instance) Step(ctx context.Context) (bool, error) {
	if in.done {
		return true, nil
	}
	if in.pc >= len(in.code) {
		in.done = true
		Logger().Debug("program finished", zap.Int("pc", in.pc))
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		in.done = true
		return true, err
	}

	start := in.pc
	op := bytecode.Opcode(in.code[start])
	// Branch offsets are relative to the byte after the opcode.
	base := start + 1
	pc := base

	Logger().Debug("exec", zap.Stringer("op", op), zap.Int("pc", start))

	var err error
	switch op {
	case bytecode.OpNop, bytecode.OpThrow, bytecode.OpWide:
		// THROW and WIDE are reserved and currently do nothing.

	case bytecode.OpLoad:
		var src, dst uint64
		if src, dst, pc, err = bytecode.Read2(in.code, pc); err == nil {
			err = in.load(src, dst)
		}

	case bytecode.OpStore:
		var ptr, src uint64
		if ptr, src, pc, err = bytecode.Read2(in.code, pc); err == nil {
			err = in.store(ptr, src, start)
		}

	case bytecode.OpNew:
		var dst, sizeSlot uint64
		if dst, sizeSlot, pc, err = bytecode.Read2(in.code, pc); err == nil {
			err = in.alloc(dst, sizeSlot)
		}

	case bytecode.OpFree:
		var ptr uint64
		if ptr, pc, err = bytecode.Read1(in.code, pc); err == nil {
			err = in.heap.Free(in.mem.ReadWord(ptr))
		}

	case bytecode.OpPtr:
		var index, dst uint64
		if index, dst, pc, err = bytecode.Read2(in.code, pc); err == nil {
			in.mem.WriteWord(dst, index)
		}

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpRem,
		bytecode.OpShl, bytecode.OpShr, bytecode.OpSar,
		bytecode.OpAnd, bytecode.OpOr, bytecode.OpXor:
		var r, a, b uint64
		if r, a, b, pc, err = bytecode.Read3(in.code, pc); err == nil {
			err = in.mem.binary(op, r, a, b, start)
		}

	case bytecode.OpNeg:
		var r, a uint64
		if r, a, pc, err = bytecode.Read2(in.code, pc); err == nil {
			in.mem.negate(r, a)
		}

	case bytecode.OpIf:
		var cond, trueOff, falseOff uint64
		if cond, trueOff, falseOff, pc, err = bytecode.Read3(in.code, pc); err == nil {
			off := falseOff
			if in.mem.ReadByte(cond) != 0 {
				off = trueOff
			}
			pc, err = in.branch(base, in.mem.ReadLong(off), "IF", start)
		}

	case bytecode.OpCmp:
		var r, cmpOp, a, b uint64
		if r, cmpOp, a, b, pc, err = bytecode.Read4(in.code, pc); err == nil {
			in.mem.compare(r, cmpOp, a, b)
		}

	case bytecode.OpInvoke:
		var frame bytecode.CallFrame
		if frame, pc, err = bytecode.ReadCallFrame(in.code, pc, in.mem.ReadLong); err == nil {
			err = in.invoke(frame, start)
		}

	case bytecode.OpReturn:
		in.done = true
		Logger().Debug("program finished", zap.Int("pc", start))
		return true, nil

	case bytecode.OpGoto:
		var off uint64
		if off, pc, err = bytecode.Read1(in.code, pc); err == nil {
			pc, err = in.branch(base, in.mem.ReadLong(off), "GOTO", start)
		}

	default:
		err = errors.UnknownOpcode(start, byte(op))
	}

	if err != nil {
		in.done = true
		return true, err
	}

	in.pc = pc
	return false, nil
}

// branch applies a long-valued offset to base and validates the target.
func (in *Instance) branch(base int, off int64, op string, start int) (int, error) {
	target := int64(base) + off
	if target < 0 || target > int64(len(in.code)) {
		return 0, errors.New(errors.PhaseExec, errors.KindOutOfBounds).
			Op(op).
			PC(start).
			Detail("target %d outside code segment of %d bytes", target, len(in.code)).
			Build()
	}
	return int(target), nil
}

// load copies width(type_of(dst)) bytes from data+src into dst.
func (in *Instance) load(src, dst uint64) error {
	w := uint64(in.mem.TypeOf(dst).Width())
	if w == 0 {
		return nil
	}
	in.mem.WriteRaw(dst, in.mem.Raw(src, w))
	return nil
}

// store dereferences the machine word at ptr and copies
// width(type_of(src)) bytes from data+src to the resolved target.
func (in *Instance) store(ptr, src uint64, start int) error {
	w := uint64(in.mem.TypeOf(src).Width())
	if w == 0 {
		return nil
	}

	addr := in.mem.ReadWord(ptr)
	dst, err := in.resolveRange(addr, w, "STORE", start)
	if err != nil {
		return err
	}
	copy(dst, in.mem.Raw(src, w))
	return nil
}

// alloc implements NEW: the block size is the long value at sizeSlot and
// the block's address is written into dst.
func (in *Instance) alloc(dst, sizeSlot uint64) error {
	size := in.mem.ReadLong(sizeSlot)
	if size < 0 {
		return errors.OutOfMemory(uint64(size))
	}
	addr, err := in.heap.Alloc(uint64(size))
	if err != nil {
		return err
	}
	in.mem.WriteWord(dst, addr)
	return nil
}

// invoke resolves and calls a host function. The word at the frame's func
// slot points at a NUL-terminated name in guest memory.
func (in *Instance) invoke(frame bytecode.CallFrame, start int) error {
	name, err := in.CString(in.mem.ReadWord(frame.Func))
	if err != nil {
		return err
	}
	fn, ok := in.rt.hosts.Lookup(name)
	if !ok {
		return errors.UnresolvedName(name, start)
	}

	Logger().Debug("invoke", zap.String("func", name), zap.Int("args", len(frame.Args)))

	args := Object{Size: uint64(len(frame.Args)), Index: frame.Args}
	ret := Object{Size: 1, Index: []uint64{frame.Ret}}
	return fn(in, args, ret)
}

// resolveRange maps a machine-word address to writable bytes: data-segment
// addresses below the memory size, heap addresses above it.
func (in *Instance) resolveRange(addr, n uint64, op string, start int) ([]byte, error) {
	if addr < in.mem.Size() && addr+n <= in.mem.Size() {
		return in.mem.Raw(addr, n), nil
	}
	if b, off, ok := in.heap.resolve(addr); ok && off+n <= uint64(len(b)) {
		return b[off : off+n], nil
	}
	return nil, errors.New(errors.PhaseExec, errors.KindOutOfBounds).
		Op(op).
		PC(start).
		Detail("address 0x%x+%d maps to no memory", addr, n).
		Build()
}

// CString reads the NUL-terminated string at a machine-word address,
// resolving through the data segment or the heap.
func (in *Instance) CString(addr uint64) (string, error) {
	var buf []byte
	if addr < in.mem.Size() {
		buf = in.mem.Raw(addr, in.mem.Size()-addr)
	} else if b, off, ok := in.heap.resolve(addr); ok {
		buf = b[off:]
	} else {
		return "", errors.OutOfBounds(errors.PhaseExec, "string address 0x%x maps to no memory", addr)
	}

	for i, c := range buf {
		if c == 0 {
			return string(buf[:i]), nil
		}
	}
	return "", errors.OutOfBounds(errors.PhaseExec, "unterminated string at 0x%x", addr)
}
