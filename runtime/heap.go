package runtime

import (
	"github.com/aqlang/aq-runtime/bytecode"
	"github.com/aqlang/aq-runtime/errors"
)

// maxAlloc bounds a single NEW request. Anything larger is reported as
// out-of-memory rather than handed to make.
const maxAlloc = 1 << 32

// heap hands out machine-word addresses for guest-owned blocks. The data
// segment occupies addresses [0, size); blocks live above it, word-aligned.
// The VM does not track block lifetime beyond the address map: blocks are
// created by NEW and must be released by a matching FREE.
type heap struct {
	blocks map[uint64][]byte
	next   uint64
	live   uint64
}

func newHeap(dataSize uint64) *heap {
	base := (dataSize + bytecode.WordSize - 1) &^ (bytecode.WordSize - 1)
	if base == 0 {
		base = bytecode.WordSize
	}
	return &heap{
		blocks: make(map[uint64][]byte),
		next:   base,
	}
}

// Alloc creates a block of the given size and returns its address.
func (h *heap) Alloc(size uint64) (uint64, error) {
	if size > maxAlloc {
		return 0, errors.OutOfMemory(size)
	}
	addr := h.next
	h.blocks[addr] = make([]byte, size)
	step := (size + bytecode.WordSize - 1) &^ (bytecode.WordSize - 1)
	if step == 0 {
		step = bytecode.WordSize
	}
	h.next += step
	h.live += size
	return addr, nil
}

// Free releases the block at addr. Freeing address 0 is a no-op; freeing
// any other address that is not a live block base is fatal.
func (h *heap) Free(addr uint64) error {
	if addr == 0 {
		return nil
	}
	b, ok := h.blocks[addr]
	if !ok {
		return errors.New(errors.PhaseExec, errors.KindInvalidInput).
			Op("FREE").
			Detail("0x%x is not an allocated block", addr).
			Build()
	}
	h.live -= uint64(len(b))
	delete(h.blocks, addr)
	return nil
}

// resolve maps addr to the block containing it, returning the block and
// the offset of addr within it.
func (h *heap) resolve(addr uint64) ([]byte, uint64, bool) {
	if b, ok := h.blocks[addr]; ok {
		return b, 0, true
	}
	for base, b := range h.blocks {
		if addr > base && addr < base+uint64(len(b)) {
			return b, addr - base, true
		}
	}
	return nil, 0, false
}

// liveBytes reports the total size of outstanding blocks.
func (h *heap) liveBytes() uint64 {
	return h.live
}
