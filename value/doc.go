// Package value provides the boxed cell model and the handle table that
// tracks every value an engine has issued.
//
// A Cell is one boxed value: a kind tag plus its payload. Callers never see
// cells directly; the engine hands out opaque handles instead.
//
// # Handle Table
//
// The Table maps integer handles to cells:
//
//	table := value.NewTable()
//
//	// Box a value, get a handle
//	h := table.Insert(value.IntegerCell(1))
//
//	// Kind-checked retrieval
//	cell, ok := table.GetKind(h, value.KindInteger)
//
//	// Release (exactly once per handle)
//	cell, ok := table.Remove(h)
//
// Handle 0 is reserved and always invalid. Released handles may be reused
// for later values; a handle is only meaningful between its Insert and its
// Remove.
//
// # Observers
//
// Subscribe to track value lifecycle events:
//
//	table.Subscribe(obs) // receives EventCreated / EventReleased
//
// # Ownership
//
// Values are not garbage collected. The owner of a handle must release it
// exactly once before the engine shuts down. Table.Close force-drops
// everything for teardown paths.
package value
