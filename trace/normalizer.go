package trace

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ParseLine parses one trace line into an AccessEvent (without a sequence
// number). The expected shape is four whitespace-separated fields:
//
//	Operation Offset Value Length
//
// with Operation one of the literal keywords "Read" or "Write" and the
// numeric fields hexadecimal (a leading "0x" is optional). Header and
// separator decoration emitted by the upstream extractor ("Operation ..."
// column header, dashed rules) and anything else that does not match the
// shape is rejected; the second return value reports whether the line parsed.
func ParseLine(line string) (AccessEvent, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "Operation") || strings.HasPrefix(trimmed, "----") {
		return AccessEvent{}, false
	}

	fields := strings.Fields(trimmed)
	if len(fields) < 4 {
		return AccessEvent{}, false
	}

	var op Op
	switch fields[0] {
	case "Read":
		op = OpRead
	case "Write":
		op = OpWrite
	default:
		return AccessEvent{}, false
	}

	offset, err := parseHex(fields[1])
	if err != nil {
		return AccessEvent{}, false
	}
	value, err := parseHex(fields[2])
	if err != nil {
		return AccessEvent{}, false
	}
	length, err := parseHex(fields[3])
	if err != nil {
		return AccessEvent{}, false
	}

	return AccessEvent{Op: op, Offset: offset, Value: value, Length: length}, true
}

// Normalize reads trace lines from r and returns the ordered event sequence.
// Lines that do not parse are skipped silently; best-effort extraction is the
// contract, a malformed line is never an error. The only error returned is a
// failure of the underlying reader. Empty input yields an empty slice.
func Normalize(r io.Reader) ([]AccessEvent, error) {
	var events []AccessEvent

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ev, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		ev.Seq = len(events)
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// NormalizeLines is Normalize over an in-memory line slice.
func NormalizeLines(lines []string) []AccessEvent {
	var events []AccessEvent
	for _, line := range lines {
		ev, ok := ParseLine(line)
		if !ok {
			continue
		}
		ev.Seq = len(events)
		events = append(events, ev)
	}
	return events
}

// parseHex parses a hexadecimal literal with an optional 0x/0X prefix.
// The upstream extractor emits "0x"-prefixed fields, but bare hex is accepted
// to stay resilient to slightly irregular trace dialects.
func parseHex(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, 64)
}
