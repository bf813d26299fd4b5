// Package report renders an analysis result as a sectioned, human-readable
// text report. Layout only; every section is a total function over the
// already-derived result data.
package report

import (
	"fmt"
	"io"
	"strings"

	"regtrace/analyzer"
)

// Options control the truncation limits of the longer report sections.
type Options struct {
	MaxChangeRows int // Device-controlled change rows shown per register
	MaxUniqueVals int // Unique values listed per offset before truncation
	MaxPairValues int // Data values listed per register select before truncation
	ValuesPerRow  int // Values per row in change-sequence listings
}

// DefaultOptions returns the limits used by the original report layout.
func DefaultOptions() Options {
	return Options{
		MaxChangeRows: 20,
		MaxUniqueVals: 10,
		MaxPairValues: 8,
		ValuesPerRow:  5,
	}
}

// Write renders the full report for res to w.
func Write(w io.Writer, res *analyzer.Result) {
	WriteWithOptions(w, res, DefaultOptions())
}

// WriteWithOptions renders the full report with explicit truncation limits.
func WriteWithOptions(w io.Writer, res *analyzer.Result, opts Options) {
	writeHeader(w, res)
	if res.Empty() {
		fmt.Fprintf(w, "No entries found.\n")
		writeFooter(w)
		return
	}

	writePairs(w, res)
	writePairCombinations(w, res, opts)
	writeChanges(w, res, opts)
	writeTimeline(w, res)
	writeChangesOnly(w, res)
	writeFinalState(w, res)
	writeReadBeforeWrite(w, res)
	writeDeviceControlled(w, res, opts)
	writeInitialValues(w, res)
	writeFooter(w)
}

// Summary returns the short console summary printed by the driver after a
// run, separate from the full report.
func Summary(res *analyzer.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total operations parsed: %d\n", res.EventCount)
	fmt.Fprintf(&sb, "Total index/data pairs found: %d\n", len(res.Pairs))
	fmt.Fprintf(&sb, "Offsets with value changes: %d\n", len(res.ChangedOffsets()))
	fmt.Fprintf(&sb, "Read-before-write registers: %d indexed, %d direct\n",
		len(res.ReadBeforeWriteIndexed), len(res.ReadBeforeWriteDirect))
	fmt.Fprintf(&sb, "Device-controlled registers: %d indexed, %d direct\n",
		len(analyzer.SummarizeDeviceControlled(res.DeviceControlledIndexed)),
		len(analyzer.SummarizeDeviceControlled(res.DeviceControlledDirect)))
	return sb.String()
}

func rule(c string, n int) string {
	return strings.Repeat(c, n)
}

func sectionHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule("=", 80), title, rule("=", 80))
}

func writeHeader(w io.Writer, res *analyzer.Result) {
	fmt.Fprintf(w, "%s\nREGISTER TRACE ANALYSIS REPORT\n%s\n\n", rule("=", 80), rule("=", 80))
	fmt.Fprintf(w, "Total operations in trace: %d\n", res.EventCount)
	fmt.Fprintf(w, "Unique offsets accessed: %d\n", len(res.Offsets))
	fmt.Fprintf(w, "Total index/data pairs: %d\n", len(res.Pairs))
	if len(res.Unpaired) > 0 {
		fmt.Fprintf(w, "Unpaired data writes (no index established): %d\n", len(res.Unpaired))
	}
	fmt.Fprintf(w, "\n")

	if len(res.Offsets) > 0 {
		parts := make([]string, len(res.Offsets))
		for i, off := range res.Offsets {
			parts[i] = fmt.Sprintf("0x%X", off)
		}
		fmt.Fprintf(w, "Offsets found: %s\n\n", strings.Join(parts, ", "))
	}
}

func writeFooter(w io.Writer) {
	fmt.Fprintf(w, "\n%s\nEND OF REPORT\n%s\n", rule("=", 80), rule("=", 80))
}

func writePairs(w io.Writer, res *analyzer.Result) {
	sectionHeader(w, fmt.Sprintf("SECTION 1: REGISTER SELECT (0x%X) AND DATA (0x%X) PAIRS",
		res.IndexOffset, res.DataOffset))
	fmt.Fprintf(w, "Every write to the data offset under an established register select.\n")
	fmt.Fprintf(w, "'*' marks writes whose data value CHANGED for that register\n\n")

	fmt.Fprintf(w, "%-6s %-16s %-16s %-10s\n", "#", "Register", "Data", "Changed")
	fmt.Fprintf(w, "%s\n", rule("-", 50))

	for i, pair := range res.Pairs {
		marker := ""
		if pair.DataChanged {
			marker = "*"
		}
		fmt.Fprintf(w, "%-6d 0x%-14X 0x%-14X %s\n", i+1, pair.RegSelect, pair.DataValue, marker)
	}
	fmt.Fprintf(w, "\nTotal pairs: %d\n", len(res.Pairs))

	if len(res.Unpaired) > 0 {
		fmt.Fprintf(w, "\nData writes before any register select (excluded from pairing):\n")
		for _, u := range res.Unpaired {
			fmt.Fprintf(w, "  Line %-6d 0x%X\n", u.Seq, u.Value)
		}
	}
}

func writePairCombinations(w io.Writer, res *analyzer.Result, opts Options) {
	sectionHeader(w, "SECTION 2: UNIQUE REGISTER/DATA COMBINATIONS")
	fmt.Fprintf(w, "Groups all data values written for each register select value\n")

	for _, sel := range res.PairSelects() {
		values := res.PairValues(sel)
		fmt.Fprintf(w, "\nRegister 0x%X:\n", sel)
		fmt.Fprintf(w, "  Data values written (%d unique): %s\n",
			len(values), hexList(values, opts.MaxPairValues))
	}
}

func writeChanges(w io.Writer, res *analyzer.Result, opts Options) {
	sectionHeader(w, "SECTION 3: VALUE CHANGES FOR EACH OFFSET")
	fmt.Fprintf(w, "Shows the sequence of value changes for each offset\n")

	for _, offset := range res.ChangedOffsets() {
		changes := res.Changes[offset]
		fmt.Fprintf(w, "\n%s\n", rule("-", 60))
		fmt.Fprintf(w, "OFFSET 0x%X - %d value changes\n", offset, len(changes))
		fmt.Fprintf(w, "%s\n", rule("-", 60))

		fmt.Fprintf(w, "Value sequence (in order of change):\n")
		perRow := opts.ValuesPerRow
		if perRow <= 0 {
			perRow = 1
		}
		for i := 0; i < len(changes); i += perRow {
			end := i + perRow
			if end > len(changes) {
				end = len(changes)
			}
			fmt.Fprintf(w, "  ")
			for j := i; j < end; j++ {
				if j > 0 {
					fmt.Fprintf(w, " -> ")
				}
				fmt.Fprintf(w, "0x%X", changes[j].NewValue)
			}
			fmt.Fprintf(w, "\n")
		}

		unique := res.UniqueChangeValues(offset)
		fmt.Fprintf(w, "\nUnique values (%d): %s\n", len(unique), hexList(unique, opts.MaxUniqueVals))
	}
}

func writeTimeline(w io.Writer, res *analyzer.Result) {
	sectionHeader(w, "SECTION 4: FULL TIMELINE (Changes Highlighted)")
	fmt.Fprintf(w, "Complete trace with '>>>' marking value changes\n\n")

	fmt.Fprintf(w, "%-4s %-7s %-6s %-10s %-14s %s\n", "", "#", "Op", "Offset", "Value", "Change")
	fmt.Fprintf(w, "%s\n", rule("-", 70))

	for _, entry := range res.Timeline {
		marker := "   "
		changeStr := ""
		if entry.ValueChanged {
			marker = ">>>"
			if entry.HasPrev {
				changeStr = fmt.Sprintf("0x%X -> 0x%X", entry.PrevValue, entry.Value)
			} else {
				changeStr = fmt.Sprintf("(new) -> 0x%X", entry.Value)
			}
		}
		fmt.Fprintf(w, "%s %-6d %-6s 0x%-8X 0x%-12X %s\n",
			marker, entry.Seq, entry.Op, entry.Offset, entry.Value, changeStr)
	}
}

func writeChangesOnly(w io.Writer, res *analyzer.Result) {
	sectionHeader(w, "SECTION 5: CHANGES ONLY (Compact View)")
	fmt.Fprintf(w, "Only shows lines where a value actually changed\n\n")

	fmt.Fprintf(w, "%-7s %-10s %-14s %-14s\n", "#", "Offset", "Old Value", "New Value")
	fmt.Fprintf(w, "%s\n", rule("-", 50))

	for _, entry := range res.Timeline {
		if !entry.ValueChanged {
			continue
		}
		oldStr := "(none)"
		if entry.HasPrev {
			oldStr = fmt.Sprintf("0x%X", entry.PrevValue)
		}
		fmt.Fprintf(w, "%-7d 0x%-8X %-14s 0x%-12X\n", entry.Seq, entry.Offset, oldStr, entry.Value)
	}
}

func writeFinalState(w io.Writer, res *analyzer.Result) {
	sectionHeader(w, "SECTION 6: FINAL STATE OF ALL OFFSETS")
	fmt.Fprintf(w, "The last written value for each offset at end of trace\n\n")

	fmt.Fprintf(w, "%-12s %-16s\n", "Offset", "Final Value")
	fmt.Fprintf(w, "%s\n", rule("-", 30))

	for _, offset := range res.Offsets {
		value, ok := res.FinalValues[offset]
		if !ok {
			continue // never written
		}
		fmt.Fprintf(w, "0x%-10X 0x%-14X\n", offset, value)
	}
}

func writeReadBeforeWrite(w io.Writer, res *analyzer.Result) {
	sectionHeader(w, "SECTION 7: REGISTERS READ BEFORE WRITE (Need Initial Values)")

	fmt.Fprintf(w, "\n%s\n", rule("-", 80))
	fmt.Fprintf(w, "INDEXED REGISTERS (Offset 0x%X, selected by value at Offset 0x%X)\n",
		res.DataOffset, res.IndexOffset)
	fmt.Fprintf(w, "%s\n", rule("-", 80))
	writeRBWTable(w, "Index", res.ReadBeforeWriteIndexed)
	fmt.Fprintf(w, "\nTotal: %d indexed registers\n", len(res.ReadBeforeWriteIndexed))

	fmt.Fprintf(w, "\n%s\n", rule("-", 80))
	fmt.Fprintf(w, "DIRECT REGISTERS (Not indexed through 0x%X/0x%X)\n",
		res.IndexOffset, res.DataOffset)
	fmt.Fprintf(w, "%s\n", rule("-", 80))
	writeRBWTable(w, "Offset", res.ReadBeforeWriteDirect)
	fmt.Fprintf(w, "\nTotal: %d direct registers\n", len(res.ReadBeforeWriteDirect))
}

func writeRBWTable(w io.Writer, keyLabel string, records []analyzer.ReadBeforeWriteRecord) {
	fmt.Fprintf(w, "%-18s %-22s %-10s\n", keyLabel, "Initial Value", "Line")
	fmt.Fprintf(w, "%s\n", rule("-", 55))
	for _, rec := range records {
		fmt.Fprintf(w, "0x%-16X 0x%-20X %d\n", rec.Key, rec.Value, rec.Seq)
	}
}

func writeDeviceControlled(w io.Writer, res *analyzer.Result, opts Options) {
	sectionHeader(w, "SECTION 8: DEVICE-CONTROLLED REGISTERS (Value changes without write)")
	fmt.Fprintf(w, "These registers change value between reads WITHOUT any write in between.\n")
	fmt.Fprintf(w, "The DEVICE itself is changing the value.\n")

	fmt.Fprintf(w, "\n%s\n", rule("-", 80))
	fmt.Fprintf(w, "INDEXED REGISTERS (Device changes value at 0x%X for given 0x%X index)\n",
		res.DataOffset, res.IndexOffset)
	fmt.Fprintf(w, "%s\n", rule("-", 80))
	indexed := analyzer.SummarizeDeviceControlled(res.DeviceControlledIndexed)
	writeDCSummaries(w, "Index", indexed, opts)
	fmt.Fprintf(w, "\nTotal: %d indexed registers with device-controlled changes\n", len(indexed))

	fmt.Fprintf(w, "\n%s\n", rule("-", 80))
	fmt.Fprintf(w, "DIRECT REGISTERS (Device changes value)\n")
	fmt.Fprintf(w, "%s\n", rule("-", 80))
	direct := analyzer.SummarizeDeviceControlled(res.DeviceControlledDirect)
	writeDCSummaries(w, "Offset", direct, opts)
	fmt.Fprintf(w, "\nTotal: %d direct registers with device-controlled changes\n", len(direct))
}

func writeDCSummaries(w io.Writer, keyLabel string, summaries []analyzer.DeviceControlledSummary, opts Options) {
	if len(summaries) == 0 {
		fmt.Fprintf(w, "  (None found)\n")
		return
	}
	for _, sum := range summaries {
		fmt.Fprintf(w, "\n%s 0x%X:\n", keyLabel, sum.Key)
		fmt.Fprintf(w, "  Total changes: %d\n", len(sum.Changes))
		fmt.Fprintf(w, "  Values observed: %s\n", hexList(sum.Values, len(sum.Values)))
		fmt.Fprintf(w, "  Change sequence:\n")

		max := opts.MaxChangeRows
		if max <= 0 || max > len(sum.Changes) {
			max = len(sum.Changes)
		}
		for _, change := range sum.Changes[:max] {
			fmt.Fprintf(w, "    Line %5d: 0x%X -> 0x%X\n", change.Seq, change.OldValue, change.NewValue)
		}
		if len(sum.Changes) > max {
			fmt.Fprintf(w, "    ... and %d more changes\n", len(sum.Changes)-max)
		}
	}
}

// writeInitialValues emits the hardware-model seed stanza: one assignment per
// read-before-write register, plus comments flagging the registers a static
// initial value cannot model.
func writeInitialValues(w io.Writer, res *analyzer.Result) {
	sectionHeader(w, "SECTION 9: INITIAL VALUE ASSIGNMENTS")

	fmt.Fprintf(w, "\n// Indexed registers (access via 0x%X index, 0x%X data)\n",
		res.IndexOffset, res.DataOffset)
	for _, rec := range res.ReadBeforeWriteIndexed {
		name := fmt.Sprintf("data_reg_%X", rec.Key)
		fmt.Fprintf(w, "%-28s <= 32'h%08X;\n", name, rec.Value)
	}

	fmt.Fprintf(w, "\n// Direct registers\n")
	for _, rec := range res.ReadBeforeWriteDirect {
		name := fmt.Sprintf("reg_%X", rec.Key)
		fmt.Fprintf(w, "%-28s <= 32'h%08X;\n", name, rec.Value)
	}

	fmt.Fprintf(w, "\n// Device-controlled registers need special handling:\n")
	fmt.Fprintf(w, "// their values change without host writes.\n")
	for _, sum := range analyzer.SummarizeDeviceControlled(res.DeviceControlledIndexed) {
		fmt.Fprintf(w, "// Index 0x%X: toggles between %s\n", sum.Key, hexList(sum.Values, len(sum.Values)))
	}
	for _, sum := range analyzer.SummarizeDeviceControlled(res.DeviceControlledDirect) {
		fmt.Fprintf(w, "// Offset 0x%X: toggles between %s\n", sum.Key, hexList(sum.Values, len(sum.Values)))
	}
}

// hexList joins values as 0x-formatted hex, truncating past max with a
// "+N more" tail.
func hexList(values []uint64, max int) string {
	if max <= 0 {
		max = len(values)
	}
	shown := values
	if len(shown) > max {
		shown = shown[:max]
	}
	parts := make([]string, len(shown))
	for i, v := range shown {
		parts[i] = fmt.Sprintf("0x%X", v)
	}
	out := strings.Join(parts, ", ")
	if len(values) > max {
		out += fmt.Sprintf(" ... +%d more", len(values)-max)
	}
	return out
}
