package guest

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/rencdev/renc"
	"github.com/rencdev/renc/engine"
	"github.com/rencdev/renc/errors"
	"github.com/rencdev/renc/value"
)

// Guest export names for the flat binding ABI.
const (
	ExportStartup     = "renc_startup"
	ExportMakeInteger = "renc_make_integer"
	ExportRelease     = "renc_release"
	ExportShutdown    = "renc_shutdown"

	// Both unbox entry points; the build-selected one is called.
	ExportUnboxInteger       = "renc_unbox_integer"
	ExportUnboxIntegerLegacy = "renc_unbox_integer_0"
)

// Config holds configuration for guest engine creation
type Config struct {
	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// Engine adapts a guest module's flat ABI exports to renc.Binding.
type Engine struct {
	runtime wazero.Runtime
	mod     api.Module

	startupFn  api.Function
	makeFn     api.Function
	unboxFn    api.Function
	releaseFn  api.Function
	shutdownFn api.Function

	state renc.State
	live  map[value.Handle]struct{}
	freed map[value.Handle]struct{}
	mu    sync.Mutex
}

// NewEngine compiles and instantiates a guest module and resolves its
// binding exports. Missing exports fail fast at load time.
func NewEngine(ctx context.Context, wasmBytes []byte, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	mod, err := runtime.Instantiate(ctx, wasmBytes)
	if err != nil {
		runtime.Close(ctx)
		return nil, errors.Load("instantiate guest module", err)
	}

	e := &Engine{
		runtime: runtime,
		mod:     mod,
		state:   renc.StateUninitialized,
		live:    make(map[value.Handle]struct{}),
		freed:   make(map[value.Handle]struct{}),
	}

	for _, exp := range []struct {
		name string
		dst  *api.Function
	}{
		{ExportStartup, &e.startupFn},
		{ExportMakeInteger, &e.makeFn},
		{unboxExport, &e.unboxFn},
		{ExportRelease, &e.releaseFn},
		{ExportShutdown, &e.shutdownFn},
	} {
		fn := mod.ExportedFunction(exp.name)
		if fn == nil {
			runtime.Close(ctx)
			return nil, errors.MissingExport(exp.name)
		}
		*exp.dst = fn
	}

	return e, nil
}

// Strategy reports which integer-unboxing export this build calls.
func (e *Engine) Strategy() renc.Strategy {
	return strategy
}

// State reports where the engine is in its lifecycle.
func (e *Engine) State() renc.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Outstanding returns the number of handles issued and not yet released.
func (e *Engine) Outstanding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// Startup initializes the guest engine.
func (e *Engine) Startup(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != renc.StateUninitialized {
		return errors.New(errors.PhaseStartup, errors.KindAlreadyStarted).
			Detail("guest engine already started").Build()
	}

	if _, err := e.startupFn.Call(ctx); err != nil {
		return errors.Call(errors.PhaseStartup, ExportStartup, err)
	}

	e.state = renc.StateRunning
	engine.Logger().Debug("guest engine started")
	return nil
}

// MakeInteger asks the guest to box an integer constant.
func (e *Engine) MakeInteger(ctx context.Context, v int64) (value.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != renc.StateRunning {
		return 0, errors.NotRunning(errors.PhaseConstruct)
	}

	res, err := e.makeFn.Call(ctx, uint64(v))
	if err != nil {
		return 0, errors.Call(errors.PhaseConstruct, ExportMakeInteger, err)
	}

	h := value.Handle(uint32(res[0]))
	if h == 0 {
		return 0, errors.New(errors.PhaseConstruct, errors.KindEngineUnavailable).
			Detail("guest returned the null handle").Build()
	}

	e.live[h] = struct{}{}
	delete(e.freed, h)
	return h, nil
}

// UnboxInteger reads back the integer stored under h.
func (e *Engine) UnboxInteger(ctx context.Context, h value.Handle) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != renc.StateRunning {
		return 0, errors.NotRunning(errors.PhaseUnbox)
	}
	if err := e.checkLive(errors.PhaseUnbox, h); err != nil {
		return 0, err
	}

	res, err := e.unboxFn.Call(ctx, uint64(uint32(h)))
	if err != nil {
		return 0, errors.Call(errors.PhaseUnbox, unboxExport, err)
	}
	return int64(res[0]), nil
}

// Release returns ownership of h to the guest. Valid exactly once.
func (e *Engine) Release(ctx context.Context, h value.Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != renc.StateRunning {
		return errors.NotRunning(errors.PhaseRelease)
	}
	if err := e.checkLive(errors.PhaseRelease, h); err != nil {
		return err
	}

	if _, err := e.releaseFn.Call(ctx, uint64(uint32(h))); err != nil {
		return errors.Call(errors.PhaseRelease, ExportRelease, err)
	}

	delete(e.live, h)
	e.freed[h] = struct{}{}
	engine.Logger().Debug("released guest value", zap.Uint32("handle", uint32(h)))
	return nil
}

// Shutdown tears down the guest engine and its runtime. Rejected while
// handles remain outstanding.
func (e *Engine) Shutdown(ctx context.Context, code int32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != renc.StateRunning {
		return errors.NotRunning(errors.PhaseShutdown)
	}
	if n := len(e.live); n > 0 {
		return errors.OutstandingValues(n)
	}

	if _, err := e.shutdownFn.Call(ctx, uint64(uint32(code))); err != nil {
		return errors.Call(errors.PhaseShutdown, ExportShutdown, err)
	}

	e.state = renc.StateShutdown
	err := e.runtime.Close(ctx)
	engine.Logger().Debug("guest engine shut down", zap.Int32("code", code))
	if err != nil {
		return errors.New(errors.PhaseShutdown, errors.KindEngineUnavailable).
			Cause(err).Detail("close guest runtime").Build()
	}
	return nil
}

// Close releases the guest runtime regardless of lifecycle state.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == renc.StateShutdown {
		return nil
	}
	e.state = renc.StateShutdown
	return e.runtime.Close(ctx)
}

// checkLive must be called with e.mu held.
func (e *Engine) checkLive(phase errors.Phase, h value.Handle) error {
	if _, ok := e.live[h]; ok {
		return nil
	}
	if _, ok := e.freed[h]; ok {
		return errors.UseAfterRelease(phase, uint32(h))
	}
	return errors.InvalidHandle(phase, uint32(h))
}

// Compile-time check that Engine implements renc.Binding
var _ renc.Binding = (*Engine)(nil)
