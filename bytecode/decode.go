package bytecode

import (
	"bytes"
	"encoding/binary"

	"github.com/aqlang/aq-runtime/errors"
)

// Image is a decoded AQ bytecode image: the initial data segment, the
// nibble-packed type segment, and the code segment. The slices alias the
// buffer passed to ParseImage.
type Image struct {
	Data       []byte
	Types      []byte
	Code       []byte
	MemorySize uint64
}

// ParseImage splits a raw bytecode buffer into its segments.
//
// Layout: 4 bytes magic "AQBC", 4 reserved bytes, big-endian u64 memory
// size, memory_size bytes of initial data, ceil(memory_size/2) bytes of
// packed type tags, and the code segment through EOF.
func ParseImage(data []byte) (*Image, error) {
	if len(data) < HeaderSize {
		return nil, errors.ShortImage("header", HeaderSize, len(data))
	}
	if !bytes.Equal(data[0:4], Magic[:]) {
		return nil, errors.BadMagic(data[0:4])
	}

	// Bytes 4..7 are reserved and ignored.
	memorySize := binary.BigEndian.Uint64(data[8:16])

	typeLen := (memorySize + 1) / 2
	need := uint64(HeaderSize) + memorySize + typeLen
	if need > uint64(len(data)) {
		return nil, errors.ShortImage("segments", int(need), len(data))
	}

	dataEnd := HeaderSize + memorySize
	typeEnd := dataEnd + typeLen

	return &Image{
		Data:       data[HeaderSize:dataEnd],
		Types:      data[dataEnd:typeEnd],
		Code:       data[typeEnd:],
		MemorySize: memorySize,
	}, nil
}

// TagAt returns the type tag of slot i from the image's type segment.
func (img *Image) TagAt(i uint64) Tag {
	if i/2 >= uint64(len(img.Types)) {
		return TagVoid
	}
	b := img.Types[i/2]
	if i%2 == 0 {
		return Tag(b >> 4)
	}
	return Tag(b & 0x0F)
}
