package bytecode_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aqlang/aq-runtime/bytecode"
	aqerrors "github.com/aqlang/aq-runtime/errors"
)

func TestULEB255Boundaries(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0xFE}, 254},
		{[]byte{0xFF, 0x00}, 255},
		{[]byte{0xFF, 0xFE}, 509},
		{[]byte{0xFF, 0xFF, 0x00}, 510},
		{[]byte{0xFF, 0xFF, 0xFF, 0x07}, 772},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := bytecode.AppendUint(nil, tt.value)
			if !bytes.Equal(got, tt.encoded) {
				t.Errorf("encode %d: got % x, want % x", tt.value, got, tt.encoded)
			}

			v, next, err := bytecode.ReadUint(tt.encoded, 0)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if v != tt.value {
				t.Errorf("decode: got %d, want %d", v, tt.value)
			}
			if next != len(tt.encoded) {
				t.Errorf("decode advanced to %d, want %d", next, len(tt.encoded))
			}
		})
	}
}

func TestULEB255EncodedLen(t *testing.T) {
	for _, v := range []uint64{0, 1, 254, 255, 509, 510, 1000, 65535} {
		enc := bytecode.AppendUint(nil, v)
		if got, want := len(enc), int(v/255)+1; got != want {
			t.Errorf("len(encode(%d)) = %d, want %d", v, got, want)
		}
		if got := bytecode.EncodedLen(v); got != len(enc) {
			t.Errorf("EncodedLen(%d) = %d, want %d", v, got, len(enc))
		}
	}
}

func TestULEB255RoundTrip(t *testing.T) {
	values := []uint64{0, 7, 200, 254, 255, 256, 509, 510, 511, 1020, 99999}

	var buf []byte
	for _, v := range values {
		buf = bytecode.AppendUint(buf, v)
	}

	pc := 0
	for _, want := range values {
		v, next, err := bytecode.ReadUint(buf, pc)
		if err != nil {
			t.Fatalf("decode at %d: %v", pc, err)
		}
		if v != want {
			t.Errorf("decode at %d: got %d, want %d", pc, v, want)
		}
		pc = next
	}
	if pc != len(buf) {
		t.Errorf("final offset %d, want %d", pc, len(buf))
	}
}

func TestULEB255Truncated(t *testing.T) {
	tests := [][]byte{
		{},
		{0xFF},
		{0xFF, 0xFF, 0xFF},
	}
	for _, code := range tests {
		_, _, err := bytecode.ReadUint(code, 0)
		if !errors.Is(err, &aqerrors.Error{Phase: aqerrors.PhaseDecode, Kind: aqerrors.KindTruncated}) {
			t.Errorf("ReadUint(% x): got %v, want truncated error", code, err)
		}
	}
}

func TestReadMultipleOperands(t *testing.T) {
	code := bytecode.AppendUint(nil, 3)
	code = bytecode.AppendUint(code, 300)
	code = bytecode.AppendUint(code, 0)
	code = bytecode.AppendUint(code, 510)

	a, b, c, d, next, err := bytecode.Read4(code, 0)
	if err != nil {
		t.Fatalf("Read4: %v", err)
	}
	if a != 3 || b != 300 || c != 0 || d != 510 {
		t.Errorf("got %d,%d,%d,%d", a, b, c, d)
	}
	if next != len(code) {
		t.Errorf("next = %d, want %d", next, len(code))
	}

	if _, _, _, _, err := bytecode.Read3(code[:2], 0); err == nil {
		t.Error("Read3 on short code: expected error")
	}
}

func TestReadCallFrame(t *testing.T) {
	// func=5, ret=9, argc slot=16, then 2 argument operands.
	code := bytecode.AppendUint(nil, 5)
	code = bytecode.AppendUint(code, 9)
	code = bytecode.AppendUint(code, 16)
	code = bytecode.AppendUint(code, 24)
	code = bytecode.AppendUint(code, 300)

	frame, next, err := bytecode.ReadCallFrame(code, 0, func(slot uint64) int64 {
		if slot != 16 {
			t.Errorf("arg count read from slot %d, want 16", slot)
		}
		return 2
	})
	if err != nil {
		t.Fatalf("ReadCallFrame: %v", err)
	}
	if frame.Func != 5 || frame.Ret != 9 || frame.ArgCountSlot != 16 {
		t.Errorf("frame = %+v", frame)
	}
	if len(frame.Args) != 2 || frame.Args[0] != 24 || frame.Args[1] != 300 {
		t.Errorf("args = %v", frame.Args)
	}
	if next != len(code) {
		t.Errorf("next = %d, want %d", next, len(code))
	}
}

func TestReadCallFrameTruncatedArgs(t *testing.T) {
	code := bytecode.AppendUint(nil, 5)
	code = bytecode.AppendUint(code, 9)
	code = bytecode.AppendUint(code, 16)
	// Arg count says 3 but no argument operands follow.

	_, _, err := bytecode.ReadCallFrame(code, 0, func(uint64) int64 { return 3 })
	if !errors.Is(err, &aqerrors.Error{Phase: aqerrors.PhaseDecode, Kind: aqerrors.KindTruncated}) {
		t.Errorf("got %v, want truncated error", err)
	}
}
