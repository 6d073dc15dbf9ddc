//go:build legacy_unbox

package engine

import (
	"github.com/rencdev/renc"
	"github.com/rencdev/renc/errors"
	"github.com/rencdev/renc/value"
)

const strategy = renc.StrategyIndexed

// unboxIntegerCell resolves the payload through the indexed table walk.
// This is the legacy ABI path; the cell passed in is ignored so the walk
// stays the authority, matching the old entry point's behavior.
func (e *Engine) unboxIntegerCell(h value.Handle, _ value.Cell) (int64, error) {
	var (
		out   int64
		found bool
	)
	e.table.Each(func(eh value.Handle, c value.Cell) bool {
		if eh == h {
			out = c.Int
			found = true
			return false
		}
		return true
	})
	if !found {
		return 0, errors.InvalidHandle(errors.PhaseUnbox, uint32(h))
	}
	return out, nil
}
