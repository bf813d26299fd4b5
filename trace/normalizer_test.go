package trace

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLine_ReadAndWrite(t *testing.T) {
	ev, ok := ParseLine("Read     0x8        0x1        0x4")
	if !ok {
		t.Fatal("expected read line to parse")
	}
	want := AccessEvent{Op: OpRead, Offset: 0x8, Value: 0x1, Length: 0x4}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Errorf("read event mismatch (-want +got):\n%s", diff)
	}

	ev, ok = ParseLine("Write 0x0 0x5 0x4")
	if !ok {
		t.Fatal("expected write line to parse")
	}
	if ev.Op != OpWrite || ev.Offset != 0x0 || ev.Value != 0x5 {
		t.Errorf("unexpected write event: %s", ev)
	}
}

func TestParseLine_BareHexFields(t *testing.T) {
	ev, ok := ParseLine("Write 1c deadbeef 4")
	if !ok {
		t.Fatal("expected bare hex line to parse")
	}
	if ev.Offset != 0x1C || ev.Value != 0xDEADBEEF || ev.Length != 4 {
		t.Errorf("unexpected event: %s", ev)
	}
}

func TestParseLine_SkipsDecoration(t *testing.T) {
	skipped := []string{
		"",
		"   ",
		"Operation Offset     Value      Length",
		"------------------------------------",
	}
	for _, line := range skipped {
		if _, ok := ParseLine(line); ok {
			t.Errorf("expected decoration line %q to be skipped", line)
		}
	}
}

func TestParseLine_SkipsMalformed(t *testing.T) {
	malformed := []string{
		"Read 0x8 0x1",                  // too few fields
		"read 0x8 0x1 0x4",              // operation keyword is case-sensitive
		"Poke 0x8 0x1 0x4",              // unknown operation
		"Read 0xZZ 0x1 0x4",             // bad offset
		"Read 0x8 junk 0x4",             // bad value
		"Read 0x8 0x1 bananas",          // bad length
		"Read 0x10000000000000000 0 0x4", // offset overflows uint64
	}
	for _, line := range malformed {
		if _, ok := ParseLine(line); ok {
			t.Errorf("expected malformed line %q to be skipped", line)
		}
	}
}

func TestNormalize_AssignsSequenceAcrossSkips(t *testing.T) {
	input := strings.Join([]string{
		"Operation Offset     Value      Length",
		"------------------------------------",
		"Write    0x0        0x5        0x4",
		"not a trace line",
		"Read     0x4        0x10       0x4",
		"",
		"Write    0x8        0x1        0x4",
	}, "\n")

	events, err := Normalize(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := []AccessEvent{
		{Seq: 0, Op: OpWrite, Offset: 0x0, Value: 0x5, Length: 0x4},
		{Seq: 1, Op: OpRead, Offset: 0x4, Value: 0x10, Length: 0x4},
		{Seq: 2, Op: OpWrite, Offset: 0x8, Value: 0x1, Length: 0x4},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("event sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	events, err := Normalize(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestNormalizeLines_MatchesNormalize(t *testing.T) {
	lines := []string{
		"Write 0x0 0x5 0x4",
		"garbage",
		"Read 0x4 0xA 0x4",
	}
	fromLines := NormalizeLines(lines)
	fromReader, err := Normalize(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if diff := cmp.Diff(fromReader, fromLines); diff != "" {
		t.Errorf("NormalizeLines diverges from Normalize (-reader +lines):\n%s", diff)
	}
}
