// Package runner wires the pipeline together for the command line tools:
// load trace, normalize, analyze, render report.
package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/go-errors/errors"

	"regtrace/analyzer"
	"regtrace/common"
	"regtrace/report"
	"regtrace/trace"
)

// Config mirrors the command line arguments of the analysis tool.
type Config struct {
	TracePath string

	// Index/data addressing offsets. Leaving both zero selects the
	// conventional 0x0/0x4 pair.
	IndexOffset uint64
	DataOffset  uint64

	// Output receives the full report. Defaults to os.Stdout.
	Output io.Writer
	// Console receives the short run summary; nil disables it.
	Console io.Writer
	// Log receives progress messages. Defaults to a no-op logger.
	Log common.Logger
}

// Run executes one analysis pass end to end. A missing or unreadable trace
// is the only fatal condition; an empty trace still renders a valid report.
func Run(cfg Config) error {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	log := cfg.Log
	if log == nil {
		log = common.NewNoOpLogger()
	}

	file, err := os.Open(cfg.TracePath)
	if err != nil {
		return errors.WrapPrefix(err, "open trace", 0)
	}
	defer file.Close()

	events, err := trace.Normalize(file)
	if err != nil {
		return errors.WrapPrefix(err, "read trace", 0)
	}
	log.Logf(common.SeverityInfo, "normalized %d events from %s", len(events), cfg.TracePath)
	if len(events) == 0 {
		log.Warning("no valid entries found in trace")
	}

	indexOff, dataOff := cfg.IndexOffset, cfg.DataOffset
	if indexOff == 0 && dataOff == 0 {
		dataOff = analyzer.DefaultDataOffset
	}
	a := analyzer.NewAnalyzerWithOffsets(indexOff, dataOff)
	a.Log = log
	res := a.Process(events)

	report.Write(out, res)

	if cfg.Console != nil {
		fmt.Fprint(cfg.Console, report.Summary(res))
	}
	return nil
}
