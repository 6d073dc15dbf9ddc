package renc

import (
	"context"

	"github.com/rencdev/renc/value"
)

// Binding is the flat contract toward a value engine. Implementations are
// expected to honor the linear lifecycle: Startup before any value
// operation, all handles released before Shutdown.
type Binding interface {
	// Startup initializes the engine. Fatal if the engine cannot
	// initialize; there is no recovery path.
	Startup(ctx context.Context) error

	// MakeInteger boxes v and returns a non-zero handle.
	MakeInteger(ctx context.Context, v int64) (value.Handle, error)

	// UnboxInteger reads back the integer stored under h.
	UnboxInteger(ctx context.Context, h value.Handle) (int64, error)

	// Release returns ownership of h to the engine. Valid exactly once
	// per handle.
	Release(ctx context.Context, h value.Handle) error

	// Shutdown tears down the engine. All handles must have been
	// released first.
	Shutdown(ctx context.Context, code int32) error
}

// State describes where an engine is in its lifecycle.
type State uint8

const (
	StateUninitialized State = iota
	StateRunning
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateShutdown:
		return "shutdown"
	}
	return "unknown"
}

// Strategy identifies which integer-unboxing entry path a build selected.
// The choice is fixed at build time; engines never switch strategies within
// one execution.
type Strategy string

const (
	// StrategyDirect reads the boxed payload straight from the cell.
	StrategyDirect Strategy = "direct"

	// StrategyIndexed walks the legacy indexed table path.
	StrategyIndexed Strategy = "indexed"
)
