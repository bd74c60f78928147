package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// tracked maps a benchmark name (without the -GOMAXPROCS suffix) to the units
// compared for it.
type tracked map[string][]string

// samples holds every value seen per benchmark and unit across -count runs.
type samples map[string]map[string][]float64

type row struct {
	Benchmark string
	Unit      string
	Baseline  float64
	Candidate float64
	Delta     float64
}

// defaultTracked covers the hot paths of a Monitor. The metrics benchmarks run
// on every validation, so allocations there are tracked too.
func defaultTracked() tracked {
	return tracked{
		"BenchmarkMonitorValidateParallel":  {"ns/op", "allocs/op"},
		"BenchmarkMonitorValidateWithAudit": {"ns/op"},
		"BenchmarkMonitorHasPermission":     {"ns/op", "allocs/op"},
		"BenchmarkMonitorValidateUpload":    {"ns/op"},
		"BenchmarkMetricsIncRuleParallel":   {"ns/op", "allocs/op"},
		"BenchmarkRender":                   {"ns/op"},
	}
}

func loadTracked(path string) (tracked, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var t tracked
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("%s tracks no benchmarks", path)
	}
	for name, units := range t {
		if len(units) == 0 {
			return nil, fmt.Errorf("benchmark %s tracks no units", name)
		}
	}
	return t, nil
}

func parseBenchmarkFile(path string, t tracked) (samples, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseBenchmarks(file, t)
}

func parseBenchmarks(r io.Reader, t tracked) (samples, error) {
	out := samples{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "Benchmark") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		name := normalizeBenchmarkName(fields[0])
		if _, ok := t[name]; !ok {
			continue
		}
		if _, ok := out[name]; !ok {
			out[name] = map[string][]float64{}
		}

		// fields[1] is the iteration count; value/unit pairs follow.
		for i := 2; i+1 < len(fields); i += 2 {
			value, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				continue
			}
			out[name][fields[i+1]] = append(out[name][fields[i+1]], value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// compare returns one row per tracked benchmark and unit, sorted by name, and
// the failures: regressions past threshold and missing samples.
func compare(t tracked, baseline, candidate samples, threshold float64) ([]row, []string) {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		rows     []row
		failures []string
	)
	for _, name := range names {
		for _, unit := range t[name] {
			base := baseline[name][unit]
			cand := candidate[name][unit]
			if len(base) == 0 || len(cand) == 0 {
				failures = append(failures, fmt.Sprintf("missing samples for %s %s", name, unit))
				continue
			}

			b, c := median(base), median(cand)
			if b <= 0 {
				// A zero-alloc baseline regresses on any allocation.
				if unit == "allocs/op" && b == 0 {
					if c > 0 {
						failures = append(failures, fmt.Sprintf("%s %s went from 0 to %.0f", name, unit, c))
					}
					rows = append(rows, row{Benchmark: name, Unit: unit, Baseline: b, Candidate: c})
					continue
				}
				failures = append(failures, fmt.Sprintf("invalid baseline median for %s %s", name, unit))
				continue
			}

			delta := (c - b) / b
			rows = append(rows, row{Benchmark: name, Unit: unit, Baseline: b, Candidate: c, Delta: delta})
			if delta > threshold {
				failures = append(failures, fmt.Sprintf("%s %s regressed by %+0.2f%% (limit %+0.2f%%)", name, unit, delta*100, threshold*100))
			}
		}
	}
	return rows, failures
}

func normalizeBenchmarkName(raw string) string {
	if idx := strings.LastIndexByte(raw, '-'); idx > 0 {
		if _, err := strconv.Atoi(raw[idx+1:]); err == nil {
			return raw[:idx]
		}
	}
	return raw
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	copied := make([]float64, len(values))
	copy(copied, values)
	sort.Float64s(copied)

	mid := len(copied) / 2
	if len(copied)%2 == 1 {
		return copied[mid]
	}
	return (copied[mid-1] + copied[mid]) / 2
}
