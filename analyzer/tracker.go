package analyzer

// registerState is the tracked state for one register key.
type registerState struct {
	current        uint64 // Last value written (host's view of state)
	hasCurrent     bool
	lastRead       uint64 // Last value observed by a Read
	hasLastRead    bool
	writeSinceRead bool // A Write occurred since the last Read; only a Read clears it
	everWritten    bool
}

// tracker is the keyed register state machine shared by the addressing
// schemes. The direct scheme keys it by raw offset, the indexed scheme by the
// register select value; the state transitions are identical.
type tracker struct {
	regs     map[uint64]*registerState
	reported map[uint64]bool // Keys already reported read-before-write
}

func newTracker() *tracker {
	return &tracker{
		regs:     make(map[uint64]*registerState),
		reported: make(map[uint64]bool),
	}
}

func (t *tracker) state(key uint64) *registerState {
	st, ok := t.regs[key]
	if !ok {
		st = &registerState{}
		t.regs[key] = st
	}
	return st
}

// writeOutcome reports the effect of a Write on the tracked current value.
type writeOutcome struct {
	prevValue uint64
	hasPrev   bool
	changed   bool // True on the first write or when the value differs
}

// write applies a host Write to the key: updates the current value and the
// classification bookkeeping (everWritten, writeSinceRead) in one step.
func (t *tracker) write(key, value uint64) writeOutcome {
	st := t.state(key)
	out := writeOutcome{
		prevValue: st.current,
		hasPrev:   st.hasCurrent,
		changed:   !st.hasCurrent || st.current != value,
	}
	st.current = value
	st.hasCurrent = true
	st.everWritten = true
	st.writeSinceRead = true
	return out
}

// readOutcome reports the classification results of a Read.
type readOutcome struct {
	firstObservation bool   // Read before any write, not yet reported for this key
	deviceChange     bool   // Value differs from the last Read with no Write between
	oldValue         uint64 // Previous read value when deviceChange is set
}

// read applies a host Read to the key. The read-before-write test-and-mark is
// a single step, so the key is reported at most once for the whole pass. The
// current value is deliberately left untouched: reads observe state, writes
// define it.
func (t *tracker) read(key, value uint64) readOutcome {
	st := t.state(key)
	var out readOutcome

	if !st.everWritten && !t.reported[key] {
		out.firstObservation = true
		t.reported[key] = true
	}

	if st.hasLastRead && !st.writeSinceRead && st.lastRead != value {
		out.deviceChange = true
		out.oldValue = st.lastRead
	}

	st.lastRead = value
	st.hasLastRead = true
	st.writeSinceRead = false
	return out
}

// peek returns the current value for the key without changing any state.
// The key is still registered as touched.
func (t *tracker) peek(key uint64) (uint64, bool) {
	st := t.state(key)
	return st.current, st.hasCurrent
}

// currentValues returns the final current value of every written key.
func (t *tracker) currentValues() map[uint64]uint64 {
	out := make(map[uint64]uint64)
	for key, st := range t.regs {
		if st.hasCurrent {
			out[key] = st.current
		}
	}
	return out
}

// touchedKeys returns every key the tracker has seen, in ascending order.
func (t *tracker) touchedKeys() []uint64 {
	keys := make([]uint64, 0, len(t.regs))
	for key := range t.regs {
		keys = append(keys, key)
	}
	sortUint64s(keys)
	return keys
}
