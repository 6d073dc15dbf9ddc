package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/rencdev/renc"
	"github.com/rencdev/renc/engine"
	"github.com/rencdev/renc/guest"
	"github.com/rencdev/renc/harness"
)

// representativeSet exercises the boundary integers every binding must
// round-trip.
var representativeSet = []int64{0, 1, -1, math.MaxInt64}

func main() {
	var (
		n           = flag.Int64("n", 1, "Integer to round-trip")
		runSet      = flag.Bool("set", false, "Round-trip the representative value set instead of -n")
		engineKind  = flag.String("engine", "native", "Engine to drive: native or guest")
		wasmFile    = flag.String("wasm", "", "Guest module path (default: synthesized reference guest)")
		interactive = flag.Bool("i", false, "Interactive value inspector (native engine)")
		verbose     = flag.Bool("v", false, "Log engine activity")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(harness.ExitFatal)
		}
		engine.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(harness.ExitFatal)
		}
		return
	}

	ctx := context.Background()

	binding, cleanup, err := newBinding(ctx, *engineKind, *wasmFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(harness.ExitFatal)
	}
	defer cleanup()

	if *runSet {
		err = harness.RunSet(ctx, binding, representativeSet)
	} else {
		err = harness.Run(ctx, binding, *n)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
	} else if *runSet {
		fmt.Printf("OK: round-trip identity held for %d values\n", len(representativeSet))
	} else {
		fmt.Printf("OK: round-trip identity held for %d\n", *n)
	}
	os.Exit(harness.ExitCode(err))
}

// newBinding builds the requested engine. The returned cleanup releases the
// engine's resources even when the harness bails out early.
func newBinding(ctx context.Context, kind, wasmFile string) (renc.Binding, func(), error) {
	switch kind {
	case "native":
		eng := engine.New(nil)
		return eng, func() { eng.Close() }, nil

	case "guest":
		bin := guest.ReferenceModule()
		if wasmFile != "" {
			data, err := os.ReadFile(wasmFile)
			if err != nil {
				return nil, nil, fmt.Errorf("read guest module: %w", err)
			}
			bin = data
		}
		eng, err := guest.NewEngine(ctx, bin, nil)
		if err != nil {
			return nil, nil, err
		}
		return eng, func() { eng.Close(context.Background()) }, nil
	}

	return nil, nil, fmt.Errorf("unknown engine %q (want native or guest)", kind)
}
