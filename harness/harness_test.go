package harness

import (
	"context"
	"math"
	"testing"

	"github.com/rencdev/renc"
	"github.com/rencdev/renc/engine"
	"github.com/rencdev/renc/errors"
	"github.com/rencdev/renc/guest"
	"github.com/rencdev/renc/value"
)

func TestRunNative(t *testing.T) {
	eng := engine.New(nil)
	t.Cleanup(func() { eng.Close() })

	if err := Run(context.Background(), eng, 1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if eng.State() != renc.StateShutdown {
		t.Fatalf("Engine should be shut down, got %v", eng.State())
	}
}

func TestRunGuest(t *testing.T) {
	ctx := context.Background()
	eng, err := guest.NewEngine(ctx, guest.ReferenceModule(), nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	t.Cleanup(func() { eng.Close(context.Background()) })

	if err := Run(ctx, eng, 1); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
}

func TestRunSet(t *testing.T) {
	eng := engine.New(nil)
	t.Cleanup(func() { eng.Close() })

	ns := []int64{0, 1, -1, math.MaxInt64}
	if err := RunSet(context.Background(), eng, ns); err != nil {
		t.Fatalf("RunSet failed: %v", err)
	}
	if eng.State() != renc.StateShutdown {
		t.Fatal("Engine should be shut down after the set")
	}
}

func TestRunSetEmpty(t *testing.T) {
	eng := engine.New(nil)
	t.Cleanup(func() { eng.Close() })

	if err := RunSet(context.Background(), eng, nil); err != nil {
		t.Fatalf("RunSet with empty set failed: %v", err)
	}
	if eng.State() != renc.StateShutdown {
		t.Fatal("Engine should still be shut down cleanly")
	}
}

// brokenUnbox simulates a binding whose unbox entry point returns a default
// value instead of the boxed one.
type brokenUnbox struct {
	*engine.Engine
}

func (b *brokenUnbox) UnboxInteger(ctx context.Context, h value.Handle) (int64, error) {
	return 0, nil
}

func TestRunDiscriminatesBrokenBinding(t *testing.T) {
	eng := engine.New(nil)
	t.Cleanup(func() { eng.Close() })

	err := Run(context.Background(), &brokenUnbox{eng}, 1)
	if err == nil {
		t.Fatal("Harness must fail against a broken unbox")
	}
	if !errors.IsAssertion(err) {
		t.Fatalf("Expected assertion failure, got %v", err)
	}
	if errors.IsFatal(err) {
		t.Fatal("Assertion failure must not classify as fatal")
	}
}

// failingStartup simulates an engine whose native dependency is missing.
type failingStartup struct {
	renc.Binding
}

func (f *failingStartup) Startup(ctx context.Context) error {
	return errors.EngineUnavailable(nil)
}

func TestRunFatalStartup(t *testing.T) {
	err := Run(context.Background(), &failingStartup{}, 1)
	if err == nil {
		t.Fatal("Run should surface the startup failure")
	}
	if !errors.IsFatal(err) {
		t.Fatalf("Startup failure must be fatal, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != ExitOK {
		t.Fatal("nil should map to ExitOK")
	}
	if ExitCode(errors.AssertionFailed(0, 1)) != ExitAssertion {
		t.Fatal("assertion failure should map to ExitAssertion")
	}
	if ExitCode(errors.EngineUnavailable(nil)) != ExitFatal {
		t.Fatal("fatal error should map to ExitFatal")
	}
}
