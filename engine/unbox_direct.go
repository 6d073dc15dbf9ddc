//go:build !legacy_unbox

package engine

import (
	"github.com/rencdev/renc"
	"github.com/rencdev/renc/value"
)

const strategy = renc.StrategyDirect

// unboxIntegerCell reads the boxed payload straight from the cell.
func (e *Engine) unboxIntegerCell(h value.Handle, c value.Cell) (int64, error) {
	return c.Int, nil
}
