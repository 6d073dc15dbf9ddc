package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(PhaseUnbox, KindTypeMismatch).
		Handle(3).
		ValueKind("decimal").
		Detail("cannot unbox decimal as integer").
		Build()

	msg := err.Error()
	if !strings.HasPrefix(msg, "[unbox] type_mismatch") {
		t.Fatalf("Unexpected prefix: %s", msg)
	}
	if !strings.Contains(msg, "handle=3") {
		t.Fatalf("Expected handle in message: %s", msg)
	}
	if !strings.Contains(msg, "kind=decimal") {
		t.Fatalf("Expected value kind in message: %s", msg)
	}
}

func TestErrorFormatCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := EngineUnavailable(cause)

	if !strings.Contains(err.Error(), "caused by: boom") {
		t.Fatalf("Expected cause in message: %s", err.Error())
	}
	if !stderrors.Is(err, err) {
		t.Fatal("error should match itself")
	}
	if stderrors.Unwrap(err) != cause {
		t.Fatal("Unwrap should return cause")
	}
}

func TestErrorIs(t *testing.T) {
	a := NotRunning(PhaseConstruct)
	b := NotRunning(PhaseConstruct)
	c := NotRunning(PhaseUnbox)

	if !stderrors.Is(a, b) {
		t.Fatal("same phase and kind should match")
	}
	if stderrors.Is(a, c) {
		t.Fatal("different phase should not match")
	}
}

func TestHandleZeroDistinctFromUnset(t *testing.T) {
	with := InvalidHandle(PhaseRelease, 0)
	without := OutstandingValues(1)

	if !strings.Contains(with.Error(), "handle=0") {
		t.Fatalf("handle 0 should still be reported: %s", with.Error())
	}
	if strings.Contains(without.Error(), "handle=") {
		t.Fatalf("unset handle should not be reported: %s", without.Error())
	}
}

func TestTaxonomy(t *testing.T) {
	assertion := AssertionFailed(0, 1)
	if !IsAssertion(assertion) {
		t.Fatal("AssertionFailed should classify as assertion")
	}
	if IsFatal(assertion) {
		t.Fatal("assertion failure is not fatal")
	}

	fatal := NotRunning(PhaseConstruct)
	if IsAssertion(fatal) {
		t.Fatal("NotRunning should not classify as assertion")
	}
	if !IsFatal(fatal) {
		t.Fatal("NotRunning should classify as fatal")
	}

	if IsFatal(nil) {
		t.Fatal("nil is not fatal")
	}
}

func TestTaxonomyWrapped(t *testing.T) {
	wrapped := fmt.Errorf("scenario 1: %w", AssertionFailed(0, 1))
	if !IsAssertion(wrapped) {
		t.Fatal("IsAssertion should see through wrapping")
	}
}
