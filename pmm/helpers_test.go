package pmm

import (
	"testing"

	"bootmem/fatal"
)

// expectInternalFatal is deferred at the top of a test that should panic
// with a fatal.Internal error; it fails the test if no panic (or the
// wrong kind) occurs.
func expectInternalFatal(t *testing.T) {
	t.Helper()
	r := recover()
	if r == nil {
		t.Fatalf("expected an internal fatal error, got no panic")
	}
	fe, ok := r.(*fatal.Error)
	if !ok {
		t.Fatalf("expected *fatal.Error, got %T: %v", r, r)
	}
	if fe.Kind != fatal.Internal {
		t.Fatalf("expected fatal.Internal, got %v", fe.Kind)
	}
}

func expectBootFatal(t *testing.T) {
	t.Helper()
	r := recover()
	if r == nil {
		t.Fatalf("expected a boot fatal error, got no panic")
	}
	fe, ok := r.(*fatal.Error)
	if !ok {
		t.Fatalf("expected *fatal.Error, got %T: %v", r, r)
	}
	if fe.Kind != fatal.Boot {
		t.Fatalf("expected fatal.Boot, got %v", fe.Kind)
	}
}
