package harness

import (
	"context"

	"go.uber.org/zap"

	"github.com/rencdev/renc"
	"github.com/rencdev/renc/engine"
	"github.com/rencdev/renc/errors"
)

// Exit codes reported by ExitCode. Success only when the round-trip
// assertion held and shutdown completed.
const (
	ExitOK        = 0
	ExitFatal     = 1
	ExitAssertion = 2
)

// Run drives b through one full lifecycle boxing n. It returns nil only if
// the unboxed value equals n and shutdown completed. The round-trip
// mismatch comes back as an assertion error; everything else is fatal.
func Run(ctx context.Context, b renc.Binding, n int64) error {
	if err := b.Startup(ctx); err != nil {
		return err
	}
	return runOne(ctx, b, n, true)
}

// RunSet drives b through one engine lifetime, round-tripping every value
// in ns before shutting down.
func RunSet(ctx context.Context, b renc.Binding, ns []int64) error {
	if err := b.Startup(ctx); err != nil {
		return err
	}
	for i, n := range ns {
		last := i == len(ns)-1
		if err := runOne(ctx, b, n, last); err != nil {
			return err
		}
	}
	if len(ns) == 0 {
		return b.Shutdown(ctx, 0)
	}
	return nil
}

// runOne performs one create -> inspect -> release round-trip against an
// already-running engine, shutting it down afterwards when shutdown is set.
func runOne(ctx context.Context, b renc.Binding, n int64, shutdown bool) error {
	h, err := b.MakeInteger(ctx, n)
	if err != nil {
		return err
	}

	got, err := b.UnboxInteger(ctx, h)
	if err != nil {
		return err
	}
	if got != n {
		// The one condition this harness exists to catch.
		engine.Logger().Error("round-trip mismatch",
			zap.Int64("got", got),
			zap.Int64("want", n))
		return errors.AssertionFailed(got, n)
	}

	if err := b.Release(ctx, h); err != nil {
		return err
	}

	if !shutdown {
		return nil
	}
	return b.Shutdown(ctx, 0)
}

// ExitCode maps a harness result to the process exit code contract:
// 0 success, 1 fatal engine error, 2 round-trip assertion failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsAssertion(err):
		return ExitAssertion
	default:
		return ExitFatal
	}
}
