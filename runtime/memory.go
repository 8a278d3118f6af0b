package runtime

import (
	"encoding/binary"
	"math"

	"github.com/aqlang/aq-runtime/bytecode"
)

// Memory is the VM's tagged data area: a flat byte buffer plus the
// nibble-packed tag segment that fixes each slot's storage width and
// numeric kind. The tag segment is immutable after load; only data
// mutates during execution.
//
// Typed reads return the slot's native value converted to the requested
// kind with C numeric conversion semantics; typed writes convert the given
// value to the slot's native width before storing. Word reads and writes
// always move a full machine word regardless of the slot's tag.
//
// Values are stored host-native little-endian. There is no bounds check
// between a slot and its declared width; the image is expected to be
// well-typed by the compiler, and a malformed image may fault.
type Memory struct {
	data  []byte
	types []byte
}

// NewMemory wraps a data segment and its tag segment. The Memory takes
// ownership of both slices.
func NewMemory(data, types []byte) *Memory {
	return &Memory{data: data, types: types}
}

// Size returns the data segment size in bytes.
func (m *Memory) Size() uint64 {
	return uint64(len(m.data))
}

// TypeOf returns the tag of slot i: the high nibble of types[i/2] for even
// i, the low nibble for odd i.
func (m *Memory) TypeOf(i uint64) bytecode.Tag {
	if i/2 >= uint64(len(m.types)) {
		return bytecode.TagVoid
	}
	b := m.types[i/2]
	if i%2 == 0 {
		return bytecode.Tag(b >> 4)
	}
	return bytecode.Tag(b & 0x0F)
}

// Raw returns the n bytes at offset i without conversion.
func (m *Memory) Raw(i, n uint64) []byte {
	return m.data[i : i+n]
}

// WriteRaw copies b verbatim into offset i.
func (m *Memory) WriteRaw(i uint64, b []byte) {
	copy(m.data[i:], b)
}

func (m *Memory) native(i uint64) (intVal int64, floatVal float64, isFloat, ok bool) {
	switch m.TypeOf(i) {
	case bytecode.TagByte:
		return int64(int8(m.data[i])), 0, false, true
	case bytecode.TagInt:
		return int64(int32(binary.LittleEndian.Uint32(m.data[i:]))), 0, false, true
	case bytecode.TagLong:
		return int64(binary.LittleEndian.Uint64(m.data[i:])), 0, false, true
	case bytecode.TagFloat:
		return 0, float64(math.Float32frombits(binary.LittleEndian.Uint32(m.data[i:]))), true, true
	case bytecode.TagDouble:
		return 0, math.Float64frombits(binary.LittleEndian.Uint64(m.data[i:])), true, true
	default:
		return 0, 0, false, false
	}
}

// ReadByte reads slot i converted to a signed byte.
func (m *Memory) ReadByte(i uint64) int8 {
	return int8(m.ReadLong(i))
}

// ReadInt reads slot i converted to a 32-bit int.
func (m *Memory) ReadInt(i uint64) int32 {
	iv, fv, isFloat, ok := m.native(i)
	if !ok {
		return 0
	}
	if isFloat {
		return int32(fv)
	}
	return int32(iv)
}

// ReadLong reads slot i converted to a 64-bit long. Float values truncate
// toward zero.
func (m *Memory) ReadLong(i uint64) int64 {
	iv, fv, isFloat, ok := m.native(i)
	if !ok {
		return 0
	}
	if isFloat {
		return int64(fv)
	}
	return iv
}

// ReadFloat reads slot i converted to a binary32 float.
func (m *Memory) ReadFloat(i uint64) float32 {
	return float32(m.ReadDouble(i))
}

// ReadDouble reads slot i converted to a binary64 float.
func (m *Memory) ReadDouble(i uint64) float64 {
	iv, fv, isFloat, ok := m.native(i)
	if !ok {
		return 0
	}
	if isFloat {
		return fv
	}
	return float64(iv)
}

// ReadWord reads the machine word at offset i, ignoring the slot's tag.
func (m *Memory) ReadWord(i uint64) uint64 {
	return binary.LittleEndian.Uint64(m.data[i:])
}

// WriteWord stores a machine word at offset i, ignoring the slot's tag.
func (m *Memory) WriteWord(i uint64, v uint64) {
	binary.LittleEndian.PutUint64(m.data[i:], v)
}

// storeInt converts v to slot i's native width and stores it. Void and
// reference slots store nothing.
func (m *Memory) storeInt(i uint64, v int64) {
	switch m.TypeOf(i) {
	case bytecode.TagByte:
		m.data[i] = byte(int8(v))
	case bytecode.TagInt:
		binary.LittleEndian.PutUint32(m.data[i:], uint32(int32(v)))
	case bytecode.TagLong:
		binary.LittleEndian.PutUint64(m.data[i:], uint64(v))
	case bytecode.TagFloat:
		binary.LittleEndian.PutUint32(m.data[i:], math.Float32bits(float32(v)))
	case bytecode.TagDouble:
		binary.LittleEndian.PutUint64(m.data[i:], math.Float64bits(float64(v)))
	}
}

func (m *Memory) storeFloat(i uint64, v float64) {
	switch m.TypeOf(i) {
	case bytecode.TagByte:
		m.data[i] = byte(int8(v))
	case bytecode.TagInt:
		binary.LittleEndian.PutUint32(m.data[i:], uint32(int32(v)))
	case bytecode.TagLong:
		binary.LittleEndian.PutUint64(m.data[i:], uint64(int64(v)))
	case bytecode.TagFloat:
		binary.LittleEndian.PutUint32(m.data[i:], math.Float32bits(float32(v)))
	case bytecode.TagDouble:
		binary.LittleEndian.PutUint64(m.data[i:], math.Float64bits(v))
	}
}

// WriteByte stores a byte value into slot i with width coercion.
func (m *Memory) WriteByte(i uint64, v int8) { m.storeInt(i, int64(v)) }

// WriteInt stores an int value into slot i with width coercion.
func (m *Memory) WriteInt(i uint64, v int32) { m.storeInt(i, int64(v)) }

// WriteLong stores a long value into slot i with width coercion.
func (m *Memory) WriteLong(i uint64, v int64) { m.storeInt(i, v) }

// WriteFloat stores a float value into slot i with width coercion.
func (m *Memory) WriteFloat(i uint64, v float32) { m.storeFloat(i, float64(v)) }

// WriteDouble stores a double value into slot i with width coercion.
func (m *Memory) WriteDouble(i uint64, v float64) { m.storeFloat(i, v) }
