package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"brc/mapreduce/report"
)

func printUsage(w io.Writer, name string) {
	fmt.Fprintf(w, `Usage of %s: %s <FILE>
Prints min/avg/max per key of a file of "<key>;<value>" lines.
Files ending in .gz or .zst are decompressed on the fly.
Options:
  -h                         Print this help message.
`, name, name)
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run is main without the process exit, so it can be tested.
func run(args []string, stdout, stderr io.Writer) int {
	flagSet := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() { printUsage(stderr, args[0]) }
	if err := flagSet.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if flagSet.NArg() != 1 {
		fmt.Fprintln(stderr, "exactly one input file is required")
		flagSet.Usage()
		return 2
	}

	logger := log.New(stderr, "[brc] ", log.LstdFlags|log.Lmsgprefix)
	j := &job{
		cfg:    DefaultConfig(),
		logger: logger,
	}
	filename := flagSet.Arg(0)
	res, err := j.runFile(context.Background(), filename)
	if err != nil {
		logger.Printf("aggregate %s failed: %v", filename, err)
		return 1
	}
	if err := report.Write(stdout, res); err != nil {
		logger.Printf("write report failed: %v", err)
		return 1
	}
	return 0
}
