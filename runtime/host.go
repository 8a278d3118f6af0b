package runtime

import (
	"sync"

	"github.com/aqlang/aq-runtime/errors"
)

// Object is the call descriptor passed to host functions: a count and the
// memory offsets it covers. INVOKE passes one Object naming the argument
// slots and one naming the single return slot.
type Object struct {
	Size  uint64
	Index []uint64
}

// HostFunc is a function exposed to guest code through the name table.
// It reads arguments and writes its result through the instance's memory
// using the slots named by the descriptors. Host functions run
// synchronously on the VM's goroutine and are expected to return promptly.
type HostFunc func(in *Instance, args, ret Object) error

// nameTableBuckets is the fixed bucket count of the host name table.
const nameTableBuckets = 1024

type hostEntry struct {
	name string
	fn   HostFunc
	next *hostEntry
}

// HostRegistry maps function names to host functions: a fixed-bucket hash
// table with djb2 hashing and separate chaining, new entries prepended to
// their chain. Entries are registered before execution starts; the table
// is not mutated while a program runs.
type HostRegistry struct {
	mu      sync.RWMutex
	buckets [nameTableBuckets]*hostEntry
}

func NewHostRegistry() *HostRegistry {
	return &HostRegistry{}
}

// djb2 is the classic string hash: h = h*33 + c, seeded with 5381.
func djb2(s string) uint64 {
	h := uint64(5381)
	for i := 0; i < len(s); i++ {
		h = h<<5 + h + uint64(s[i])
	}
	return h
}

// Register adds a host function under name, shadowing any previous entry
// with the same name.
func (r *HostRegistry) Register(name string, fn HostFunc) error {
	if name == "" {
		return errors.Registration("function name cannot be empty")
	}
	if fn == nil {
		return errors.Registration("handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := djb2(name) % nameTableBuckets
	r.buckets[i] = &hostEntry{name: name, fn: fn, next: r.buckets[i]}
	return nil
}

// Lookup walks the name's chain and returns its handler.
func (r *HostRegistry) Lookup(name string) (HostFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for e := r.buckets[djb2(name)%nameTableBuckets]; e != nil; e = e.next {
		if e.name == name {
			return e.fn, true
		}
	}
	return nil, false
}
