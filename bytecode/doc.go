// Package bytecode implements the AQ binary image format.
//
// An image is a flat byte buffer with a fixed 16-byte header:
//
//	offset 0, 4 bytes: magic "AQBC" (41 51 42 43)
//	offset 4, 4 bytes: reserved
//	offset 8, 8 bytes: big-endian u64 memory size
//
// followed by memory_size bytes of initial data, ceil(memory_size/2) bytes
// of nibble-packed type tags (high nibble for even slots, low for odd), and
// the code segment through EOF. Values inside the data segment are stored
// host-native little-endian; images are not portable across endianness.
//
// # Operands
//
// Every instruction operand is a ULEB-255 variable-length unsigned integer:
// a run of 0xFF bytes followed by one terminal byte below 0xFF, decoding to
// 255*(run length) + terminal. Read1 through Read4 decode the fixed operand
// shapes; ReadCallFrame decodes INVOKE's frame, whose length depends on the
// long value in memory at the arg-count slot.
//
// # Parsing
//
//	img, err := bytecode.ParseImage(data)
//
// # Assembly
//
// AppendInstruction and EncodeImage build images for tests and tooling:
//
//	code := bytecode.AppendInstruction(nil, bytecode.OpAdd, 8, 0, 4)
//	raw := bytecode.EncodeImage(&bytecode.Image{Data: d, Types: t, Code: code, MemorySize: 12})
//
// Round-tripping an instruction stream through AppendInstruction and the
// Read* functions yields the original tuples.
package bytecode
