// Package state provides the workflow state container: an immutable
// key/value record that grows by merging partial updates.
//
// Stages never mutate a State. They return an Update holding only the
// fields they own, and the engine merges it:
//
//	next, err := state.Merge(current, state.Update{"ui_displayed": true}, schema)
//
// Typed keys give compile-time checked access to individual fields:
//
//	var KeyCycleCount = state.NewKey[int]("cycle_count")
//
//	n := state.Lookup(s, KeyCycleCount) // 0 when absent
//	upd := state.Put(nil, KeyCycleCount, n+1)
//
// A Schema declares the known fields and their types. Merging against a
// schema rejects undeclared fields, mistyped values and validator failures
// such as a counter moving backwards:
//
//	schema := state.NewSchema()
//	state.Field(schema, KeyCycleCount, state.NonDecreasing())
package state
