//go:build legacy_unbox

package guest

import "github.com/rencdev/renc"

const (
	strategy    = renc.StrategyIndexed
	unboxExport = ExportUnboxIntegerLegacy
)
