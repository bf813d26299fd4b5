package common

import (
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newCapturedLogger() (*LogrusLogger, *test.Hook) {
	base, hook := test.NewNullLogger()
	base.SetLevel(log.DebugLevel)
	return NewLogrusLoggerWithEntry(base.WithField("component", "test")), hook
}

func TestLogrusLoggerSeverities(t *testing.T) {
	l, hook := newCapturedLogger()

	l.Debug("d")
	l.Info("i")
	l.Warning("w")
	l.Log(SeverityError, "e")

	entries := hook.AllEntries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	wantLevels := []log.Level{log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel}
	for i, entry := range entries {
		if entry.Level != wantLevels[i] {
			t.Errorf("entry %d: expected level %s, got %s", i, wantLevels[i], entry.Level)
		}
	}
}

func TestLogrusLoggerLogf(t *testing.T) {
	l, hook := newCapturedLogger()

	l.Logf(SeverityInfo, "analyzed %d events", 42)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Message != "analyzed 42 events" {
		t.Errorf("unexpected message: %q", entry.Message)
	}
	if entry.Data["component"] != "test" {
		t.Errorf("component field lost: %v", entry.Data)
	}
}

func TestLogrusLoggerErrorNilIsSilent(t *testing.T) {
	l, hook := newCapturedLogger()

	l.Error(nil)
	if hook.LastEntry() != nil {
		t.Error("nil error must not log")
	}

	l.Error(errors.New("boom"))
	entry := hook.LastEntry()
	if entry == nil || entry.Message != "boom" {
		t.Errorf("expected error entry, got %v", entry)
	}
}

func TestSeverityString(t *testing.T) {
	cases := map[Severity]string{
		SeverityDebug:   "DEBUG",
		SeverityInfo:    "INFO",
		SeverityWarning: "WARNING",
		SeverityError:   "ERROR",
		Severity(99):    "UNKNOWN",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
	}
}

func TestNoOpLoggerDoesNothing(t *testing.T) {
	// Mostly a compile-time check that NoOpLogger satisfies Logger.
	var l Logger = NewNoOpLogger()
	l.Debug("x")
	l.Logf(SeverityError, "y %d", 1)
	l.Error(errors.New("z"))
}
