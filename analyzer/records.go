// Package analyzer implements the register access trace analyzer.
// It consumes the normalized event sequence in one forward pass, tracks
// per-register state for the direct and indexed addressing schemes, and
// derives a value-change timeline, index/data register pairing,
// read-before-write registers and device-controlled registers.
package analyzer

import "regtrace/trace"

// TimelineEntry records one event against the per-offset current value.
// The current value tracks last-written state, so only Writes can mark
// ValueChanged; a Read leaves the current value untouched.
type TimelineEntry struct {
	Seq          int
	Op           trace.Op
	Offset       uint64
	Value        uint64
	PrevValue    uint64 // Current value before this event
	HasPrev      bool   // False until the offset has been written once
	ValueChanged bool
}

// ChangeRecord records a Write that changed the tracked current value.
type ChangeRecord struct {
	Seq      int
	OldValue uint64
	HasOld   bool // False on the first write to the offset
	NewValue uint64
}

// PairRecord records a Write to the data offset under an established index
// value. DataChanged is true iff the written value differs from the most
// recent current value tracked for the selected register.
type PairRecord struct {
	Seq         int
	RegSelect   uint64 // Last value written to the index offset
	DataValue   uint64
	DataChanged bool
}

// UnpairedDataWrite records a Write to the data offset observed before any
// index write established a register selection. These are surfaced rather
// than dropped so the pairing totals stay auditable.
type UnpairedDataWrite struct {
	Seq   int
	Value uint64
}

// ReadBeforeWriteRecord marks a register observed via Read before any host
// Write established its value. At most one record exists per key.
type ReadBeforeWriteRecord struct {
	Key   uint64 // Offset (direct) or register select value (indexed)
	Value uint64 // First observed value, a candidate hardware default
	Seq   int
}

// DeviceControlledRecord marks a register whose value changed between two
// Reads with no intervening host Write to that key.
type DeviceControlledRecord struct {
	Key      uint64
	OldValue uint64
	NewValue uint64
	Seq      int
}

// DeviceControlledSummary aggregates the device-controlled records for one
// key: every change in trace order plus the distinct values observed.
type DeviceControlledSummary struct {
	Key     uint64
	Changes []DeviceControlledRecord // Trace order
	Values  []uint64                 // Distinct old/new values, sorted
}
