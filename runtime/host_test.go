package runtime

import (
	"fmt"
	"testing"
)

func TestHostRegistryRegisterLookup(t *testing.T) {
	r := NewHostRegistry()

	called := false
	if err := r.Register("print", func(*Instance, Object, Object) error {
		called = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	fn, ok := r.Lookup("print")
	if !ok {
		t.Fatal("print not found")
	}
	if err := fn(nil, Object{}, Object{}); err != nil || !called {
		t.Errorf("handler not invoked: %v", err)
	}

	if _, ok := r.Lookup("missing"); ok {
		t.Error("lookup of unregistered name succeeded")
	}
}

func TestHostRegistryRejectsBadInput(t *testing.T) {
	r := NewHostRegistry()
	if err := r.Register("", func(*Instance, Object, Object) error { return nil }); err == nil {
		t.Error("empty name accepted")
	}
	if err := r.Register("f", nil); err == nil {
		t.Error("nil handler accepted")
	}
}

func TestHostRegistryShadowing(t *testing.T) {
	r := NewHostRegistry()
	reg := func(name, tag string) {
		if err := r.Register(name, func(in *Instance, args, ret Object) error {
			return fmt.Errorf("%s", tag)
		}); err != nil {
			t.Fatal(err)
		}
	}

	reg("f", "old")
	reg("f", "new")

	fn, _ := r.Lookup("f")
	if err := fn(nil, Object{}, Object{}); err == nil || err.Error() != "new" {
		t.Errorf("lookup returned %v, want the most recent registration", err)
	}
}

func TestHostRegistryChainsSurviveCollisions(t *testing.T) {
	r := NewHostRegistry()

	// Register far more names than buckets so chains are exercised.
	for i := 0; i < 4096; i++ {
		name := fmt.Sprintf("fn%d", i)
		if err := r.Register(name, func(*Instance, Object, Object) error { return nil }); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 4096; i++ {
		if _, ok := r.Lookup(fmt.Sprintf("fn%d", i)); !ok {
			t.Fatalf("fn%d lost", i)
		}
	}
}

func TestDJB2(t *testing.T) {
	// h = 5381, then h = h*33 + c per byte.
	want := uint64(5381)
	for _, c := range []byte("print") {
		want = want*33 + uint64(c)
	}
	if got := djb2("print"); got != want {
		t.Errorf("djb2(print) = %d, want %d", got, want)
	}
	if djb2("") != 5381 {
		t.Error("djb2 of empty string must be the seed")
	}
}
