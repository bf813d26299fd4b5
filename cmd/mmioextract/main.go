package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"regtrace/extract"
)

func main() {
	logPath := flag.String("log", "", "Path to the raw driver trace log")
	outPath := flag.String("out", "", "Extracted trace output file (default stdout)")
	format := flag.String("format", "mmio", "Raw log dialect: mmio or pcicfg")

	flag.Parse()

	if *logPath == "" {
		fmt.Println("MMIO Extractor : Error: Missing log file on -log option")
		os.Exit(1)
	}

	var f extract.Format
	switch *format {
	case "mmio":
		f = extract.FormatMMIORegion
	case "pcicfg":
		f = extract.FormatPCIConfig
	default:
		fmt.Printf("Error: unknown format %q (want mmio or pcicfg)\n", *format)
		os.Exit(1)
	}

	in, err := os.Open(*logPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	out := os.Stdout
	if *outPath != "" {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	count, err := extract.Run(in, out, f)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	log.WithFields(log.Fields{"format": f.String(), "records": count}).Info("extraction complete")
}
