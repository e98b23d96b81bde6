package fatal

import (
	"fmt"
	"strings"
	"testing"
)

type recordingSink struct {
	messages []string
}

func (s *recordingSink) Errorf(format string, args ...interface{}) {
	s.messages = append(s.messages, fmt.Sprintf(format, args...))
}

func TestInternalPanicsWithTypedError(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic")
		}
		fe, ok := r.(*Error)
		if !ok {
			t.Fatalf("expected *Error, got %T", r)
		}
		if fe.Kind != Internal {
			t.Errorf("Kind = %v, want Internal", fe.Kind)
		}
		if !strings.Contains(fe.Error(), "bad offset 4") {
			t.Errorf("Error() = %q, missing formatted message", fe.Error())
		}
	}()
	Reporter{}.Internal("bad offset %d", 4)
}

func TestBootPanicsWithTypedError(t *testing.T) {
	defer func() {
		r := recover()
		fe, ok := r.(*Error)
		if !ok || fe.Kind != Boot {
			t.Fatalf("expected *Error{Kind: Boot}, got %#v", r)
		}
	}()
	Reporter{}.Boot("no free range")
}

func TestReporterLogsBeforePanicking(t *testing.T) {
	sink := &recordingSink{}
	defer func() {
		recover()
		if len(sink.messages) != 1 {
			t.Fatalf("expected exactly one logged message, got %d", len(sink.messages))
		}
		if !strings.Contains(sink.messages[0], "internal_error") {
			t.Errorf("logged message %q missing kind prefix", sink.messages[0])
		}
	}()
	Reporter{Sink: sink}.Internal("assertion failed")
}

func TestNilSinkDoesNotPanicOnItsOwn(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected the fatal panic itself, got none")
		}
	}()
	Reporter{Sink: nil}.Internal("no sink attached")
}

func TestKindString(t *testing.T) {
	if Internal.String() != "internal_error" {
		t.Errorf("Internal.String() = %q", Internal.String())
	}
	if Boot.String() != "boot_error" {
		t.Errorf("Boot.String() = %q", Boot.String())
	}
}

func TestStackTraceIsCaptured(t *testing.T) {
	defer func() {
		r := recover()
		fe := r.(*Error)
		if fe.StackTrace() == nil {
			t.Errorf("expected a non-nil captured stack trace")
		}
	}()
	Reporter{}.Internal("whatever")
}
