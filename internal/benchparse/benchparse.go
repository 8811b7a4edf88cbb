// Package benchparse extracts latency and throughput metrics from the
// free-form text the streaming benchmark prints. Extraction is
// best-effort: unrecognized input yields zero fields, never an error, so
// callers can keep a sweep moving past a noisy or truncated report.
package benchparse

import (
	"regexp"
	"strconv"
)

var (
	// Matches "Avg:   7.63 us" and "Avg:   130.00 ns".
	latencyRE = regexp.MustCompile(`Avg:\s+([\d.]+)\s+(us|ns)`)
	// Matches the windowed rate samples, e.g. "(  95000/s)".
	throughputRE = regexp.MustCompile(`\(\s*(\d+)/s\)`)
)

type Report struct {
	LatencyUS    float64
	ThroughputHz float64
}

// Empty reports whether nothing recognizable was extracted.
func (r Report) Empty() bool {
	return r.LatencyUS == 0 && r.ThroughputHz == 0
}

// Parse scrapes a Report out of raw benchmark output. The first latency
// match wins; throughput is the mean of all windowed rate samples.
func Parse(text string) Report {
	var r Report

	if m := latencyRE.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if m[2] == "ns" {
				v /= 1000.0
			}
			r.LatencyUS = v
		}
	}

	var sum, n int
	for _, m := range throughputRE.FindAllStringSubmatch(text, -1) {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n > 0 {
		r.ThroughputHz = float64(sum) / float64(n)
	}
	return r
}
