package runtime

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aqlang/aq-runtime/bytecode"
	aqerrors "github.com/aqlang/aq-runtime/errors"
)

func TestLoadRejectsBadImages(t *testing.T) {
	rt := New()

	if _, err := rt.Load(nil); !errors.Is(err, &aqerrors.Error{Phase: aqerrors.PhaseLoad, Kind: aqerrors.KindShortImage}) {
		t.Errorf("empty buffer: got %v", err)
	}

	raw := bytecode.EncodeImage(&bytecode.Image{MemorySize: 0})
	raw[0] = 'X'
	if _, err := rt.Load(raw); !errors.Is(err, &aqerrors.Error{Phase: aqerrors.PhaseLoad, Kind: aqerrors.KindBadMagic}) {
		t.Errorf("bad magic: got %v", err)
	}
}

func TestLoadCopiesImageBuffer(t *testing.T) {
	raw := bytecode.EncodeImage(&bytecode.Image{
		Data:       []byte{1, 2, 3, 4},
		Types:      packTags([]bytecode.Tag{bytecode.TagInt}),
		Code:       bytecode.AppendInstruction(nil, bytecode.OpNop),
		MemorySize: 4,
	})

	rt := New()
	in, err := rt.Load(raw)
	if err != nil {
		t.Fatal(err)
	}

	// Clobbering the caller's buffer must not affect the instance.
	for i := range raw {
		raw[i] = 0xAA
	}
	if got := in.Memory().ReadInt(0); got != 0x04030201 {
		t.Errorf("memory aliases the input buffer: %#x", got)
	}
}

func TestPrintRequiresArgument(t *testing.T) {
	fn := Print(&bytes.Buffer{})
	err := fn(nil, Object{}, Object{Size: 1, Index: []uint64{0}})
	if !errors.Is(err, &aqerrors.Error{Phase: aqerrors.PhaseHost, Kind: aqerrors.KindInvalidInput}) {
		t.Errorf("got %v, want invalid_input", err)
	}
}

func TestRuntimeSharesRegistryAcrossInstances(t *testing.T) {
	rt := New()
	if err := rt.RegisterFunc("f", func(*Instance, Object, Object) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if _, ok := rt.Hosts().Lookup("f"); !ok {
		t.Error("registered function not visible through Hosts()")
	}
}
