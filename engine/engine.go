package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/rencdev/renc"
	"github.com/rencdev/renc/errors"
	"github.com/rencdev/renc/value"
)

// started guards the process-wide engine singleton. Only one engine may be
// running at a time; Shutdown clears the guard so a new engine can start.
var started atomic.Bool

// Config holds configuration for engine creation
type Config struct {
	// MaxValues caps the number of live values. 0 means unlimited.
	MaxValues int
}

// Engine is the native in-process value engine.
type Engine struct {
	cfg   Config
	table *value.Table
	state renc.State
	ticks atomic.Uint64
	mu    sync.Mutex
}

// New creates an engine in the uninitialized state. Call Startup before any
// value operation.
func New(cfg *Config) *Engine {
	e := &Engine{
		state: renc.StateUninitialized,
	}
	if cfg != nil {
		e.cfg = *cfg
	}
	return e
}

// Startup initializes the engine. It fails if this engine already started,
// or if another engine is running in this process.
func (e *Engine) Startup(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case renc.StateRunning:
		return errors.New(errors.PhaseStartup, errors.KindAlreadyStarted).
			Detail("engine already running").Build()
	case renc.StateShutdown:
		return errors.New(errors.PhaseStartup, errors.KindInvalidData).
			Detail("engine already shut down; create a new engine").Build()
	}

	if !started.CompareAndSwap(false, true) {
		return errors.AlreadyStarted()
	}

	e.table = value.NewTable()
	e.state = renc.StateRunning
	Logger().Debug("engine started")
	return nil
}

// State reports where the engine is in its lifecycle.
func (e *Engine) State() renc.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Strategy reports which integer-unboxing entry path this build selected.
func (e *Engine) Strategy() renc.Strategy {
	return strategy
}

// Tick returns the number of binding operations performed so far.
func (e *Engine) Tick() uint64 {
	return e.ticks.Load()
}

// Values exposes the live value table for inspection. It is nil before
// Startup and after Shutdown.
func (e *Engine) Values() *value.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table
}

func (e *Engine) construct(phase errors.Phase, c value.Cell) (value.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != renc.StateRunning {
		return 0, errors.NotRunning(phase)
	}
	if e.cfg.MaxValues > 0 && e.table.Len() >= e.cfg.MaxValues {
		return 0, errors.New(phase, errors.KindOverflow).
			Detail("value table full (%d values)", e.cfg.MaxValues).Build()
	}

	h := e.table.Insert(c)
	if h == 0 {
		return 0, errors.New(phase, errors.KindEngineUnavailable).
			ValueKind(c.Kind.String()).
			Detail("value table rejected insert").Build()
	}

	e.ticks.Add(1)
	return h, nil
}

// MakeInteger boxes an integer constant. It is the Binding-contract name
// for Integer.
func (e *Engine) MakeInteger(ctx context.Context, v int64) (value.Handle, error) {
	return e.Integer(ctx, v)
}

// Integer boxes an integer constant.
func (e *Engine) Integer(ctx context.Context, v int64) (value.Handle, error) {
	return e.construct(errors.PhaseConstruct, value.IntegerCell(v))
}

// Decimal boxes a float constant.
func (e *Engine) Decimal(ctx context.Context, v float64) (value.Handle, error) {
	return e.construct(errors.PhaseConstruct, value.DecimalCell(v))
}

// Char boxes a single codepoint.
func (e *Engine) Char(ctx context.Context, v rune) (value.Handle, error) {
	return e.construct(errors.PhaseConstruct, value.CharCell(v))
}

// Text boxes a string.
func (e *Engine) Text(ctx context.Context, v string) (value.Handle, error) {
	return e.construct(errors.PhaseConstruct, value.TextCell(v))
}

// Logic boxes a boolean.
func (e *Engine) Logic(ctx context.Context, v bool) (value.Handle, error) {
	return e.construct(errors.PhaseConstruct, value.LogicCell(v))
}

// Void boxes the void value.
func (e *Engine) Void(ctx context.Context) (value.Handle, error) {
	return e.construct(errors.PhaseConstruct, value.VoidCell())
}

// Blank boxes the blank value.
func (e *Engine) Blank(ctx context.Context) (value.Handle, error) {
	return e.construct(errors.PhaseConstruct, value.BlankCell())
}

func (e *Engine) lookup(h value.Handle, kind value.Kind) (value.Cell, error) {
	if e.state != renc.StateRunning {
		return value.Cell{}, errors.NotRunning(errors.PhaseUnbox)
	}

	c, ok := e.table.Get(h)
	if !ok {
		if e.table.Released(h) {
			return value.Cell{}, errors.UseAfterRelease(errors.PhaseUnbox, uint32(h))
		}
		return value.Cell{}, errors.InvalidHandle(errors.PhaseUnbox, uint32(h))
	}
	if c.Kind != kind {
		return value.Cell{}, errors.TypeMismatch(errors.PhaseUnbox, uint32(h), c.Kind.String(), kind.String())
	}
	return c, nil
}

// UnboxInteger reads back the integer stored under h. The entry path is
// fixed at build time; see the package documentation.
func (e *Engine) UnboxInteger(ctx context.Context, h value.Handle) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.lookup(h, value.KindInteger)
	if err != nil {
		return 0, err
	}

	e.ticks.Add(1)
	return e.unboxIntegerCell(h, c)
}

// UnboxDecimal reads back the float stored under h.
func (e *Engine) UnboxDecimal(ctx context.Context, h value.Handle) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.lookup(h, value.KindDecimal)
	if err != nil {
		return 0, err
	}

	e.ticks.Add(1)
	return c.Float, nil
}

// UnboxChar reads back the codepoint stored under h.
func (e *Engine) UnboxChar(ctx context.Context, h value.Handle) (rune, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.lookup(h, value.KindChar)
	if err != nil {
		return 0, err
	}

	e.ticks.Add(1)
	return c.Rune, nil
}

// UnboxText reads back the string stored under h.
func (e *Engine) UnboxText(ctx context.Context, h value.Handle) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.lookup(h, value.KindText)
	if err != nil {
		return "", err
	}

	e.ticks.Add(1)
	return c.Str, nil
}

// UnboxLogic reads back the boolean stored under h.
func (e *Engine) UnboxLogic(ctx context.Context, h value.Handle) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.lookup(h, value.KindLogic)
	if err != nil {
		return false, err
	}

	e.ticks.Add(1)
	return c.Bit, nil
}

// Release returns ownership of h to the engine. A handle is released
// exactly once; a second Release fails with use_after_release.
func (e *Engine) Release(ctx context.Context, h value.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != renc.StateRunning {
		return errors.NotRunning(errors.PhaseRelease)
	}

	if _, ok := e.table.Remove(h); !ok {
		if e.table.Released(h) {
			return errors.UseAfterRelease(errors.PhaseRelease, uint32(h))
		}
		return errors.InvalidHandle(errors.PhaseRelease, uint32(h))
	}

	e.ticks.Add(1)
	Logger().Debug("released value", zap.Uint32("handle", uint32(h)))
	return nil
}

// Shutdown tears down the engine. It is rejected while values remain
// outstanding; the engine stays running so the caller can release them.
func (e *Engine) Shutdown(ctx context.Context, code int32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != renc.StateRunning {
		return errors.NotRunning(errors.PhaseShutdown)
	}

	if n := e.table.Len(); n > 0 {
		return errors.OutstandingValues(n)
	}

	e.table.Close()
	e.table = nil
	e.state = renc.StateShutdown
	started.Store(false)
	Logger().Debug("engine shut down", zap.Int32("code", code))
	return nil
}

// Close force-drops all values and shuts the engine down. For teardown
// paths that cannot enumerate their handles. No-op if not running.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != renc.StateRunning {
		return nil
	}

	e.table.Close()
	e.table = nil
	e.state = renc.StateShutdown
	started.Store(false)
	Logger().Debug("engine closed with force")
	return nil
}

// Compile-time check that Engine implements renc.Binding
var _ renc.Binding = (*Engine)(nil)
