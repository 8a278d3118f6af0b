package runtime

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/aqlang/aq-runtime/bytecode"
)

// packTags builds a nibble-packed type segment from one tag per byte slot.
func packTags(tags []bytecode.Tag) []byte {
	out := make([]byte, (len(tags)+1)/2)
	for i, t := range tags {
		if i%2 == 0 {
			out[i/2] |= byte(t) << 4
		} else {
			out[i/2] |= byte(t)
		}
	}
	return out
}

func testMemory(size uint64, tags map[uint64]bytecode.Tag) *Memory {
	all := make([]bytecode.Tag, size)
	for i, t := range tags {
		all[i] = t
	}
	return NewMemory(make([]byte, size), packTags(all))
}

func TestMemoryTypeOf(t *testing.T) {
	m := testMemory(8, map[uint64]bytecode.Tag{
		0: bytecode.TagInt,
		1: bytecode.TagDouble,
		4: bytecode.TagByte,
	})

	tests := []struct {
		slot uint64
		want bytecode.Tag
	}{
		{0, bytecode.TagInt},
		{1, bytecode.TagDouble},
		{2, bytecode.TagVoid},
		{4, bytecode.TagByte},
		{100, bytecode.TagVoid}, // beyond the tag segment
	}
	for _, tt := range tests {
		if got := m.TypeOf(tt.slot); got != tt.want {
			t.Errorf("TypeOf(%d) = %v, want %v", tt.slot, got, tt.want)
		}
	}
}

func TestMemoryReadConversions(t *testing.T) {
	m := testMemory(40, map[uint64]bytecode.Tag{
		0:  bytecode.TagByte,
		8:  bytecode.TagInt,
		16: bytecode.TagLong,
		24: bytecode.TagFloat,
		32: bytecode.TagDouble,
	})
	var byte0 int8 = -7
	m.data[0] = byte(byte0)
	binary.LittleEndian.PutUint32(m.data[8:], uint32(int32(100000)))
	var long16 int64 = -5000000000
	binary.LittleEndian.PutUint64(m.data[16:], uint64(long16))
	binary.LittleEndian.PutUint32(m.data[24:], math.Float32bits(2.75))
	binary.LittleEndian.PutUint64(m.data[32:], math.Float64bits(-3.9))

	if got := m.ReadLong(0); got != -7 {
		t.Errorf("ReadLong(byte slot) = %d", got)
	}
	if got := m.ReadDouble(8); got != 100000 {
		t.Errorf("ReadDouble(int slot) = %v", got)
	}
	long := int64(-5000000000)
	if got := m.ReadInt(16); got != int32(long) {
		t.Errorf("ReadInt(long slot) = %d", got)
	}
	if got := m.ReadLong(24); got != 2 {
		t.Errorf("ReadLong(float slot) = %d, want truncation toward zero", got)
	}
	if got := m.ReadLong(32); got != -3 {
		t.Errorf("ReadLong(double slot) = %d, want truncation toward zero", got)
	}
	intVal := int32(100000)
	if got := m.ReadByte(8); got != int8(intVal) {
		t.Errorf("ReadByte(int slot) = %d", got)
	}
	if got := m.ReadLong(4); got != 0 {
		t.Errorf("ReadLong(void slot) = %d, want 0", got)
	}
}

func TestMemoryWriteCoercion(t *testing.T) {
	m := testMemory(40, map[uint64]bytecode.Tag{
		0:  bytecode.TagByte,
		8:  bytecode.TagInt,
		16: bytecode.TagLong,
		24: bytecode.TagFloat,
		32: bytecode.TagDouble,
	})

	m.WriteLong(0, 0x1FF) // truncates to int8
	if got := m.ReadLong(0); got != -1 {
		t.Errorf("byte slot after WriteLong(0x1FF) = %d, want -1", got)
	}

	m.WriteDouble(8, 12.9) // truncates toward zero into int32
	if got := m.ReadInt(8); got != 12 {
		t.Errorf("int slot after WriteDouble(12.9) = %d, want 12", got)
	}

	m.WriteInt(16, -42) // widens into int64
	if got := m.ReadLong(16); got != -42 {
		t.Errorf("long slot after WriteInt(-42) = %d", got)
	}

	m.WriteLong(24, 3) // converts to float32
	if got := m.ReadFloat(24); got != 3 {
		t.Errorf("float slot after WriteLong(3) = %v", got)
	}

	m.WriteFloat(32, 1.5) // widens to float64
	if got := m.ReadDouble(32); got != 1.5 {
		t.Errorf("double slot after WriteFloat(1.5) = %v", got)
	}

	// Writes to void slots store nothing.
	m.WriteLong(4, 99)
	if got := m.data[4]; got != 0 {
		t.Errorf("void slot mutated: %d", got)
	}
}

// Reading a slot at a rank >= its tag and writing the result back must be
// the identity on the slot's bytes.
func TestMemoryReadWriteIdentity(t *testing.T) {
	m := testMemory(40, map[uint64]bytecode.Tag{
		0:  bytecode.TagByte,
		8:  bytecode.TagInt,
		16: bytecode.TagLong,
		24: bytecode.TagFloat,
		32: bytecode.TagDouble,
	})
	var byte0b int8 = -100
	m.data[0] = byte(byte0b)
	var int8v int32 = -123456
	binary.LittleEndian.PutUint32(m.data[8:], uint32(int8v))
	binary.LittleEndian.PutUint64(m.data[16:], uint64(int64(1<<40)))
	binary.LittleEndian.PutUint32(m.data[24:], math.Float32bits(-0.5))
	binary.LittleEndian.PutUint64(m.data[32:], math.Float64bits(6.25))

	before := append([]byte(nil), m.data...)

	m.WriteLong(0, m.ReadLong(0))
	m.WriteLong(8, m.ReadLong(8))
	m.WriteLong(16, m.ReadLong(16))
	m.WriteDouble(24, m.ReadDouble(24))
	m.WriteDouble(32, m.ReadDouble(32))

	for i := range before {
		if m.data[i] != before[i] {
			t.Fatalf("byte %d changed: %#x -> %#x", i, before[i], m.data[i])
		}
	}
}

func TestMemoryWords(t *testing.T) {
	m := testMemory(16, nil) // all void

	m.WriteWord(0, 0xDEADBEEF12345678)
	if got := m.ReadWord(0); got != 0xDEADBEEF12345678 {
		t.Errorf("ReadWord = %#x", got)
	}

	// Word access ignores tags entirely.
	m2 := testMemory(16, map[uint64]bytecode.Tag{0: bytecode.TagByte})
	m2.WriteWord(0, 42)
	if got := m2.ReadWord(0); got != 42 {
		t.Errorf("ReadWord on byte-tagged slot = %d", got)
	}
}
