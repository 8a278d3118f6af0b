package aqruntime

import "github.com/aqlang/aq-runtime/bytecode"

// Memory is typed access to the VM's flat data area. Offsets are byte
// offsets into the data segment; the slot's tag governs storage width.
type Memory interface {
	TypeOf(offset uint64) bytecode.Tag

	ReadByte(offset uint64) int8
	ReadInt(offset uint64) int32
	ReadLong(offset uint64) int64
	ReadFloat(offset uint64) float32
	ReadDouble(offset uint64) float64
	ReadWord(offset uint64) uint64

	WriteByte(offset uint64, v int8)
	WriteInt(offset uint64, v int32)
	WriteLong(offset uint64, v int64)
	WriteFloat(offset uint64, v float32)
	WriteDouble(offset uint64, v float64)
	WriteWord(offset uint64, v uint64)
}

// MemorySizer provides the data segment size in bytes.
type MemorySizer interface {
	Size() uint64
}

// Allocator hands out machine-word addresses for guest-owned heap blocks.
type Allocator interface {
	Alloc(size uint64) (uint64, error)
	Free(addr uint64) error
}
