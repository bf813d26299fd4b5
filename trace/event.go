// Package trace defines the access event model and the event normalizer.
// A trace is an ordered, line-oriented record of register accesses captured
// from a device (MMIO region or PCI configuration space). This package turns
// those lines into typed events; the analyzer package consumes them.
package trace

import "fmt"

// Op represents the kind of bus transaction observed.
type Op int

const (
	OpUnknown Op = iota
	OpRead       // Host read; Value is what the device returned
	OpWrite      // Host write; Value is what the host wrote
)

func (o Op) String() string {
	switch o {
	case OpRead:
		return "Read"
	case OpWrite:
		return "Write"
	default:
		return "Unknown"
	}
}

// AccessEvent is one observed bus transaction. Events are created by the
// normalizer, immutable afterwards, and identified by their Seq position.
type AccessEvent struct {
	Seq    int    // Position in the trace, 0-based, assigned at normalization
	Op     Op     // Read or Write
	Offset uint64 // Register address
	Value  uint64 // Value returned (Read) or written (Write)
	Length uint64 // Access width in bytes, informational only
}

func (e AccessEvent) String() string {
	return fmt.Sprintf("[%d] %s 0x%X = 0x%X (len %d)", e.Seq, e.Op, e.Offset, e.Value, e.Length)
}
