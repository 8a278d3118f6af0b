package runtime

import (
	"go.uber.org/zap"

	aqruntime "github.com/aqlang/aq-runtime"
	"github.com/aqlang/aq-runtime/bytecode"
)

var (
	_ aqruntime.Memory      = (*Memory)(nil)
	_ aqruntime.MemorySizer = (*Memory)(nil)
	_ aqruntime.Allocator   = (*heap)(nil)
)

// Runtime owns the host-function registry and loads bytecode images.
// Instances created by one Runtime share its registry; registration must
// finish before any instance runs.
type Runtime struct {
	hosts *HostRegistry
}

func New() *Runtime {
	return &Runtime{
		hosts: NewHostRegistry(),
	}
}

// RegisterFunc registers a host function under name.
// Must be called before running programs that INVOKE it.
func (r *Runtime) RegisterFunc(name string, fn HostFunc) error {
	return r.hosts.Register(name, fn)
}

// Hosts returns the runtime's host registry.
func (r *Runtime) Hosts() *HostRegistry {
	return r.hosts
}

// Load parses a bytecode image and prepares an instance for it. The
// instance gets its own copy of the data segment; the raw buffer is not
// retained.
func (r *Runtime) Load(raw []byte) (*Instance, error) {
	img, err := bytecode.ParseImage(raw)
	if err != nil {
		return nil, err
	}

	data := make([]byte, img.MemorySize)
	copy(data, img.Data)
	types := append([]byte(nil), img.Types...)

	Logger().Info("image loaded",
		zap.Uint64("memory_size", img.MemorySize),
		zap.Int("code_bytes", len(img.Code)))

	return &Instance{
		rt:   r,
		mem:  NewMemory(data, types),
		heap: newHeap(img.MemorySize),
		code: append([]byte(nil), img.Code...),
	}, nil
}
