package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"regtrace/common"
	"regtrace/internal/runner"
)

func main() {
	tracePath := flag.String("trace", "", "Path to the four-column access trace")
	outPath := flag.String("out", "", "Report output file (default stdout)")
	indexOff := flag.String("index_off", "0x0", "Offset of the index (register select) register")
	dataOff := flag.String("data_off", "0x4", "Offset of the data register")
	noSummary := flag.Bool("no_summary", false, "Do not print the run summary to stderr")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Parse()

	if *tracePath == "" {
		fmt.Println("Register Trace Analyzer : Error: Missing trace file on -trace option")
		os.Exit(1)
	}

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	indexOffset, err := parseOffset(*indexOff)
	if err != nil {
		fmt.Printf("Error: bad -index_off value %q: %v\n", *indexOff, err)
		os.Exit(1)
	}
	dataOffset, err := parseOffset(*dataOff)
	if err != nil {
		fmt.Printf("Error: bad -data_off value %q: %v\n", *dataOff, err)
		os.Exit(1)
	}
	if indexOffset == dataOffset {
		fmt.Println("Error: index and data offsets must differ")
		os.Exit(1)
	}

	cfg := runner.Config{
		TracePath:   *tracePath,
		IndexOffset: indexOffset,
		DataOffset:  dataOffset,
		Output:      os.Stdout,
		Log:         common.NewLogrusLogger("regtrace"),
	}
	if !*noSummary {
		cfg.Console = os.Stderr
	}

	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		cfg.Output = f
	}

	if err := runner.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// parseOffset accepts 0x-prefixed hex or plain decimal.
func parseOffset(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}
