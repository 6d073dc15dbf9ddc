package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rencdev/renc"
	rencerrors "github.com/rencdev/renc/errors"
	"github.com/rencdev/renc/value"
)

func startEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(nil)
	if err := e.Startup(context.Background()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestLifecycleRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	if e.State() != renc.StateRunning {
		t.Fatalf("Expected running state, got %v", e.State())
	}

	h, err := e.MakeInteger(ctx, 1)
	if err != nil {
		t.Fatalf("MakeInteger failed: %v", err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	n, err := e.UnboxInteger(ctx, h)
	if err != nil {
		t.Fatalf("UnboxInteger failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Round-trip mismatch: got %d, want 1", n)
	}

	if err := e.Release(ctx, h); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := e.Shutdown(ctx, 0); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if e.State() != renc.StateShutdown {
		t.Fatalf("Expected shutdown state, got %v", e.State())
	}
}

func TestRoundTripIdentity(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	for _, n := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		h, err := e.Integer(ctx, n)
		if err != nil {
			t.Fatalf("Integer(%d) failed: %v", n, err)
		}
		got, err := e.UnboxInteger(ctx, h)
		if err != nil {
			t.Fatalf("UnboxInteger(%d) failed: %v", n, err)
		}
		if got != n {
			t.Fatalf("Round-trip mismatch: got %d, want %d", got, n)
		}
		if err := e.Release(ctx, h); err != nil {
			t.Fatalf("Release(%d) failed: %v", n, err)
		}
	}
}

func TestConstructBeforeStartup(t *testing.T) {
	ctx := context.Background()
	e := New(nil)

	_, err := e.MakeInteger(ctx, 1)
	if !errors.Is(err, rencerrors.NotRunning(rencerrors.PhaseConstruct)) {
		t.Fatalf("Expected not_running, got %v", err)
	}
}

func TestDoubleRelease(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	h, _ := e.Integer(ctx, 1)
	if err := e.Release(ctx, h); err != nil {
		t.Fatalf("First Release failed: %v", err)
	}

	err := e.Release(ctx, h)
	if !errors.Is(err, rencerrors.UseAfterRelease(rencerrors.PhaseRelease, uint32(h))) {
		t.Fatalf("Expected use_after_release, got %v", err)
	}
}

func TestUnboxAfterRelease(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	h, _ := e.Integer(ctx, 1)
	e.Release(ctx, h)

	_, err := e.UnboxInteger(ctx, h)
	if !errors.Is(err, rencerrors.UseAfterRelease(rencerrors.PhaseUnbox, uint32(h))) {
		t.Fatalf("Expected use_after_release, got %v", err)
	}
}

func TestInvalidHandle(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	_, err := e.UnboxInteger(ctx, 999)
	if !errors.Is(err, rencerrors.InvalidHandle(rencerrors.PhaseUnbox, 999)) {
		t.Fatalf("Expected invalid_handle, got %v", err)
	}
	if _, err := e.UnboxInteger(ctx, 0); err == nil {
		t.Fatal("Handle 0 should never unbox")
	}
}

func TestShutdownOutstanding(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	h, _ := e.Integer(ctx, 1)

	err := e.Shutdown(ctx, 0)
	if !errors.Is(err, rencerrors.OutstandingValues(1)) {
		t.Fatalf("Expected outstanding_values, got %v", err)
	}

	// Rejected shutdown must not corrupt state: the engine keeps running
	// and the value is still readable.
	if e.State() != renc.StateRunning {
		t.Fatalf("Engine should still be running, got %v", e.State())
	}
	if n, err := e.UnboxInteger(ctx, h); err != nil || n != 1 {
		t.Fatalf("Value should survive rejected shutdown: %d, %v", n, err)
	}

	if err := e.Release(ctx, h); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := e.Shutdown(ctx, 0); err != nil {
		t.Fatalf("Shutdown after release failed: %v", err)
	}
}

func TestSingletonGuard(t *testing.T) {
	ctx := context.Background()
	first := startEngine(t)

	second := New(nil)
	if err := second.Startup(ctx); !errors.Is(err, rencerrors.AlreadyStarted()) {
		t.Fatalf("Expected already_started, got %v", err)
	}

	if err := first.Shutdown(ctx, 0); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	// A new engine may start after the previous one shut down.
	if err := second.Startup(ctx); err != nil {
		t.Fatalf("Startup after shutdown failed: %v", err)
	}
	second.Close()
}

func TestStartupTwice(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	if err := e.Startup(ctx); err == nil {
		t.Fatal("Second Startup on a running engine should fail")
	}
}

func TestNoRestartAfterShutdown(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)
	e.Shutdown(ctx, 0)

	if err := e.Startup(ctx); err == nil {
		t.Fatal("Startup on a shut-down engine should fail")
	}
}

func TestOperationsAfterShutdown(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)
	e.Shutdown(ctx, 0)

	if _, err := e.MakeInteger(ctx, 1); err == nil {
		t.Fatal("MakeInteger after shutdown should fail")
	}
	if err := e.Release(ctx, 1); err == nil {
		t.Fatal("Release after shutdown should fail")
	}
	if err := e.Shutdown(ctx, 0); err == nil {
		t.Fatal("Second Shutdown should fail")
	}
}

func TestUnboxTypeMismatch(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	h, _ := e.Decimal(ctx, 2.5)
	_, err := e.UnboxInteger(ctx, h)

	var re *rencerrors.Error
	if !errors.As(err, &re) || re.Kind != rencerrors.KindTypeMismatch {
		t.Fatalf("Expected type_mismatch, got %v", err)
	}
	if re.ValueKind != "decimal" {
		t.Fatalf("Expected decimal in error, got %q", re.ValueKind)
	}
}

func TestExtendedConstructors(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	hd, _ := e.Decimal(ctx, 3.25)
	if f, err := e.UnboxDecimal(ctx, hd); err != nil || f != 3.25 {
		t.Fatalf("Decimal round-trip: %v, %v", f, err)
	}

	hc, _ := e.Char(ctx, 'λ')
	if r, err := e.UnboxChar(ctx, hc); err != nil || r != 'λ' {
		t.Fatalf("Char round-trip: %q, %v", r, err)
	}

	ht, _ := e.Text(ctx, "hello")
	if s, err := e.UnboxText(ctx, ht); err != nil || s != "hello" {
		t.Fatalf("Text round-trip: %q, %v", s, err)
	}

	hl, _ := e.Logic(ctx, true)
	if b, err := e.UnboxLogic(ctx, hl); err != nil || !b {
		t.Fatalf("Logic round-trip: %v, %v", b, err)
	}

	hv, err := e.Void(ctx)
	if err != nil || hv == 0 {
		t.Fatalf("Void failed: %v", err)
	}
	hb, err := e.Blank(ctx)
	if err != nil || hb == 0 {
		t.Fatalf("Blank failed: %v", err)
	}

	if got, ok := e.Values().GetKind(hv, value.KindVoid); !ok || got.Kind != value.KindVoid {
		t.Fatal("Void cell should be stored with void kind")
	}
}

func TestMaxValues(t *testing.T) {
	ctx := context.Background()
	e := New(&Config{MaxValues: 2})
	if err := e.Startup(ctx); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	t.Cleanup(func() { e.Close() })

	e.Integer(ctx, 1)
	e.Integer(ctx, 2)

	_, err := e.Integer(ctx, 3)
	var re *rencerrors.Error
	if !errors.As(err, &re) || re.Kind != rencerrors.KindOverflow {
		t.Fatalf("Expected overflow at cap, got %v", err)
	}
}

func TestTick(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	before := e.Tick()
	h, _ := e.Integer(ctx, 1)
	e.UnboxInteger(ctx, h)
	e.Release(ctx, h)

	if e.Tick() != before+3 {
		t.Fatalf("Expected 3 ticks, got %d", e.Tick()-before)
	}
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	e := startEngine(t)

	e.Integer(ctx, 1)
	e.Integer(ctx, 2)

	// Close force-drops outstanding values.
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if e.State() != renc.StateShutdown {
		t.Fatalf("Expected shutdown state, got %v", e.State())
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Second Close should be a no-op, got %v", err)
	}
}
