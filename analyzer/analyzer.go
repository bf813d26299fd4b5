package analyzer

import (
	"sort"

	"regtrace/common"
	"regtrace/trace"
)

// Default addressing offsets for the index/data register pair.
const (
	DefaultIndexOffset = 0x0
	DefaultDataOffset  = 0x4
)

// Analyzer runs the single-pass trace analysis. The two addressing offsets
// are configuration, never derived from the data: a write to IndexOffset
// selects the register accessed through DataOffset.
type Analyzer struct {
	IndexOffset uint64
	DataOffset  uint64
	Log         common.Logger
}

// NewAnalyzer creates an analyzer with the conventional 0x0/0x4 index/data
// offsets and no logging.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		IndexOffset: DefaultIndexOffset,
		DataOffset:  DefaultDataOffset,
		Log:         common.NewNoOpLogger(),
	}
}

// NewAnalyzerWithOffsets creates an analyzer for a device that places its
// index/data register pair at non-default offsets.
func NewAnalyzerWithOffsets(indexOffset, dataOffset uint64) *Analyzer {
	return &Analyzer{
		IndexOffset: indexOffset,
		DataOffset:  dataOffset,
		Log:         common.NewNoOpLogger(),
	}
}

// Result is the full derived output of one analysis pass, consumed by the
// report package. All slices are in trace order unless noted.
type Result struct {
	EventCount int

	// Addressing offsets the pass was configured with, carried for the
	// report.
	IndexOffset uint64
	DataOffset  uint64

	// Timeline and per-offset value tracking, keyed by raw offset for every
	// event, the addressing offsets included.
	Timeline    []TimelineEntry
	Changes     map[uint64][]ChangeRecord
	FinalValues map[uint64]uint64 // Last written value per offset
	Offsets     []uint64          // Every offset touched, ascending

	// Index/data pairing.
	Pairs    []PairRecord
	Unpaired []UnpairedDataWrite

	// Classification, split by addressing scheme. Read-before-write lists are
	// sorted by key for deterministic report ordering.
	ReadBeforeWriteDirect   []ReadBeforeWriteRecord
	ReadBeforeWriteIndexed  []ReadBeforeWriteRecord
	DeviceControlledDirect  []DeviceControlledRecord
	DeviceControlledIndexed []DeviceControlledRecord
}

// Empty reports whether the trace contained no valid events. This is a
// reportable outcome, not an error.
func (r *Result) Empty() bool {
	return r.EventCount == 0
}

// Process runs the forward pass over the event sequence. Each event is
// visited exactly once, in Seq order; no lookahead, no reordering. Three
// instances of the keyed state machine carry the per-register state:
//
//   - an offset view over every event, feeding the timeline, the per-offset
//     change sequences and the final state;
//   - a direct view over every offset other than the two addressing offsets,
//     feeding read-before-write and device-controlled classification;
//   - an indexed view keyed by the pending index value, feeding the same
//     classification plus the pairing's DataChanged decision.
//
// Process never fails: an empty event slice yields an empty, valid Result.
func (a *Analyzer) Process(events []trace.AccessEvent) *Result {
	log := a.Log
	if log == nil {
		log = common.NewNoOpLogger()
	}

	offsets := newTracker()
	direct := newTracker()
	indexed := newTracker()

	var pendingIndex uint64
	haveIndex := false

	res := &Result{
		EventCount:  len(events),
		IndexOffset: a.IndexOffset,
		DataOffset:  a.DataOffset,
		Changes:     make(map[uint64][]ChangeRecord),
	}

	for _, ev := range events {
		switch ev.Op {
		case trace.OpWrite:
			out := offsets.write(ev.Offset, ev.Value)
			res.Timeline = append(res.Timeline, TimelineEntry{
				Seq:          ev.Seq,
				Op:           ev.Op,
				Offset:       ev.Offset,
				Value:        ev.Value,
				PrevValue:    out.prevValue,
				HasPrev:      out.hasPrev,
				ValueChanged: out.changed,
			})
			if out.changed {
				res.Changes[ev.Offset] = append(res.Changes[ev.Offset], ChangeRecord{
					Seq:      ev.Seq,
					OldValue: out.prevValue,
					HasOld:   out.hasPrev,
					NewValue: ev.Value,
				})
			}

			switch ev.Offset {
			case a.IndexOffset:
				// Register select: last write wins, superseded values are
				// not paired retroactively.
				pendingIndex = ev.Value
				haveIndex = true
			case a.DataOffset:
				if haveIndex {
					iout := indexed.write(pendingIndex, ev.Value)
					res.Pairs = append(res.Pairs, PairRecord{
						Seq:         ev.Seq,
						RegSelect:   pendingIndex,
						DataValue:   ev.Value,
						DataChanged: iout.changed,
					})
				} else {
					res.Unpaired = append(res.Unpaired, UnpairedDataWrite{Seq: ev.Seq, Value: ev.Value})
					log.Logf(common.SeverityDebug, "data write 0x%X at seq %d before any index write", ev.Value, ev.Seq)
				}
			default:
				direct.write(ev.Offset, ev.Value)
			}

		case trace.OpRead:
			prev, hasPrev := offsets.peek(ev.Offset)
			res.Timeline = append(res.Timeline, TimelineEntry{
				Seq:       ev.Seq,
				Op:        ev.Op,
				Offset:    ev.Offset,
				Value:     ev.Value,
				PrevValue: prev,
				HasPrev:   hasPrev,
			})

			switch ev.Offset {
			case a.IndexOffset:
				// Reads of the index register carry no classification signal.
			case a.DataOffset:
				if !haveIndex {
					// No key yet; excluded from indexed analysis.
					continue
				}
				rout := indexed.read(pendingIndex, ev.Value)
				if rout.firstObservation {
					res.ReadBeforeWriteIndexed = append(res.ReadBeforeWriteIndexed, ReadBeforeWriteRecord{
						Key: pendingIndex, Value: ev.Value, Seq: ev.Seq,
					})
				}
				if rout.deviceChange {
					res.DeviceControlledIndexed = append(res.DeviceControlledIndexed, DeviceControlledRecord{
						Key: pendingIndex, OldValue: rout.oldValue, NewValue: ev.Value, Seq: ev.Seq,
					})
				}
			default:
				rout := direct.read(ev.Offset, ev.Value)
				if rout.firstObservation {
					res.ReadBeforeWriteDirect = append(res.ReadBeforeWriteDirect, ReadBeforeWriteRecord{
						Key: ev.Offset, Value: ev.Value, Seq: ev.Seq,
					})
				}
				if rout.deviceChange {
					res.DeviceControlledDirect = append(res.DeviceControlledDirect, DeviceControlledRecord{
						Key: ev.Offset, OldValue: rout.oldValue, NewValue: ev.Value, Seq: ev.Seq,
					})
				}
			}
		}
	}

	res.FinalValues = offsets.currentValues()
	res.Offsets = offsets.touchedKeys()
	sortRecordsByKey(res.ReadBeforeWriteDirect)
	sortRecordsByKey(res.ReadBeforeWriteIndexed)

	log.Logf(common.SeverityInfo, "analyzed %d events across %d offsets, %d pairs",
		res.EventCount, len(res.Offsets), len(res.Pairs))
	return res
}

// ChangedOffsets returns the offsets with at least one recorded change,
// ascending.
func (r *Result) ChangedOffsets() []uint64 {
	keys := make([]uint64, 0, len(r.Changes))
	for key, changes := range r.Changes {
		if len(changes) > 0 {
			keys = append(keys, key)
		}
	}
	sortUint64s(keys)
	return keys
}

// UniqueChangeValues returns the distinct values an offset changed to, in
// order of first occurrence.
func (r *Result) UniqueChangeValues(offset uint64) []uint64 {
	return uniqueInOrder(r.Changes[offset], func(c ChangeRecord) uint64 { return c.NewValue })
}

// PairSelects returns the register select values seen in pairing, ascending.
func (r *Result) PairSelects() []uint64 {
	seen := make(map[uint64]bool)
	var keys []uint64
	for _, pair := range r.Pairs {
		if !seen[pair.RegSelect] {
			seen[pair.RegSelect] = true
			keys = append(keys, pair.RegSelect)
		}
	}
	sortUint64s(keys)
	return keys
}

// PairValues returns the distinct data values written for one register
// select value, in order of first occurrence.
func (r *Result) PairValues(regSelect uint64) []uint64 {
	seen := make(map[uint64]bool)
	var values []uint64
	for _, pair := range r.Pairs {
		if pair.RegSelect != regSelect || seen[pair.DataValue] {
			continue
		}
		seen[pair.DataValue] = true
		values = append(values, pair.DataValue)
	}
	return values
}

// SummarizeDeviceControlled groups device-controlled records by key. The
// returned summaries are sorted by key; each carries the changes in trace
// order and the sorted distinct-value set.
func SummarizeDeviceControlled(records []DeviceControlledRecord) []DeviceControlledSummary {
	byKey := make(map[uint64]*DeviceControlledSummary)
	var order []uint64
	for _, rec := range records {
		sum, ok := byKey[rec.Key]
		if !ok {
			sum = &DeviceControlledSummary{Key: rec.Key}
			byKey[rec.Key] = sum
			order = append(order, rec.Key)
		}
		sum.Changes = append(sum.Changes, rec)
	}
	sortUint64s(order)

	out := make([]DeviceControlledSummary, 0, len(order))
	for _, key := range order {
		sum := byKey[key]
		seen := make(map[uint64]bool)
		for _, c := range sum.Changes {
			if !seen[c.OldValue] {
				seen[c.OldValue] = true
				sum.Values = append(sum.Values, c.OldValue)
			}
			if !seen[c.NewValue] {
				seen[c.NewValue] = true
				sum.Values = append(sum.Values, c.NewValue)
			}
		}
		sortUint64s(sum.Values)
		out = append(out, *sum)
	}
	return out
}

func uniqueInOrder(changes []ChangeRecord, value func(ChangeRecord) uint64) []uint64 {
	seen := make(map[uint64]bool)
	var out []uint64
	for _, c := range changes {
		v := value(c)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func sortUint64s(v []uint64) {
	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
}

func sortRecordsByKey(recs []ReadBeforeWriteRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Key < recs[j].Key })
}
