// Command perf-regression compares two `go test -bench` outputs and fails when
// a tracked goGuard benchmark regresses past the threshold.
//
//	go test -run '^$' -bench . -count 5 ./... > new.txt
//	perf-regression -baseline old.txt -candidate new.txt
package main

import (
	"flag"
	"fmt"
	"os"
)

const defaultThreshold = 0.30

func main() {
	var (
		baselinePath  string
		candidatePath string
		trackedPath   string
		threshold     float64
	)

	flag.StringVar(&baselinePath, "baseline", "", "path to baseline benchmark output")
	flag.StringVar(&candidatePath, "candidate", "", "path to candidate benchmark output")
	flag.StringVar(&trackedPath, "tracked", "", "optional YAML file mapping benchmark names to tracked units")
	flag.Float64Var(&threshold, "threshold", defaultThreshold, "maximum allowed regression ratio (0.30 = +30%)")
	flag.Parse()

	if baselinePath == "" || candidatePath == "" {
		fmt.Fprintln(os.Stderr, "-baseline and -candidate are required")
		os.Exit(2)
	}
	if threshold < 0 {
		fmt.Fprintln(os.Stderr, "-threshold must be >= 0")
		os.Exit(2)
	}

	tracked := defaultTracked()
	if trackedPath != "" {
		var err error
		tracked, err = loadTracked(trackedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load tracked: %v\n", err)
			os.Exit(2)
		}
	}

	baseline, err := parseBenchmarkFile(baselinePath, tracked)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse baseline: %v\n", err)
		os.Exit(1)
	}
	candidate, err := parseBenchmarkFile(candidatePath, tracked)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse candidate: %v\n", err)
		os.Exit(1)
	}

	rows, failures := compare(tracked, baseline, candidate, threshold)

	fmt.Println("perf regression check:")
	fmt.Println("benchmark unit baseline candidate delta")
	for _, r := range rows {
		fmt.Printf("%s %s %.3f %.3f %+0.2f%%\n", r.Benchmark, r.Unit, r.Baseline, r.Candidate, r.Delta*100)
	}

	if len(failures) > 0 {
		fmt.Fprintln(os.Stderr, "performance regression threshold exceeded:")
		for _, failure := range failures {
			fmt.Fprintf(os.Stderr, "  - %s\n", failure)
		}
		os.Exit(1)
	}
}
