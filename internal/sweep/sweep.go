// Package sweep characterizes how decoder latency and throughput scale
// with code distance by regenerating a dataset and re-running the
// streaming benchmark at each point.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qcutools/qcubench/internal/benchparse"
	"github.com/qcutools/qcubench/internal/dataset"
	"github.com/qcutools/qcubench/internal/result"
)

// ErrInterrupted reports a sweep stopped by user cancellation. Rows
// completed before the interrupt remain printed and persisted.
var ErrInterrupted = errors.New("sweep interrupted")

type Options struct {
	Distances   []int
	Shots       int
	Noise       float64
	FreqHz      int
	DurationS   int
	ThresholdUS float64

	// OutputDir holds the scratch dataset artifacts, overwritten at every
	// point and removed when the sweep ends.
	OutputDir string

	// RunDir, when set, receives one JSON row per completed point.
	RunDir string

	Generator *dataset.Generator
	BenchCmd  []string

	// RunBench overrides bench subprocess execution in tests.
	RunBench func(ctx context.Context, argv []string) ([]byte, error)

	// Stdout defaults to os.Stdout.
	Stdout io.Writer
}

// Run sweeps the configured distances in order, printing each row as soon
// as it is measured. The returned rows cover every completed point even
// when the sweep ends early.
func Run(ctx context.Context, opts *Options) ([]result.SweepRow, error) {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	artifacts := dataset.Artifacts{
		ModelPath: filepath.Join(opts.OutputDir, "scaling.dem"),
		ShotsPath: filepath.Join(opts.OutputDir, "scaling.b8"),
	}
	defer artifacts.Remove()

	fmt.Fprintf(out, "%-5s | %-10s | %-12s | %-15s | %s\n",
		"Dist", "Detectors", "Latency (us)", "Throughput (Hz)", "Status")
	fmt.Fprintln(out, strings.Repeat("-", 65))

	var rows []result.SweepRow
	for _, d := range opts.Distances {
		if ctx.Err() != nil {
			return rows, ErrInterrupted
		}
		row, err := runPoint(ctx, opts, d, artifacts)
		if err != nil {
			if ctx.Err() != nil {
				return rows, ErrInterrupted
			}
			return rows, err
		}
		rows = append(rows, *row)
		fmt.Fprintf(out, "%-5d | %-10d | %-12.2f | %-15.0f | [ %s ]\n",
			row.Distance, row.Detectors, row.LatencyUS, row.ThroughputHz, row.Status)
		if opts.RunDir != "" {
			if err := result.WriteRow(opts.RunDir, row); err != nil {
				log.Printf("warning: persisting point d=%d: %v", d, err)
			}
		}
	}
	fmt.Fprintln(out, strings.Repeat("-", 65))
	return rows, nil
}

func runPoint(ctx context.Context, opts *Options, d int, artifacts dataset.Artifacts) (*result.SweepRow, error) {
	// Every point has distinct parameters, so the existence shortcut in
	// Ensure would serve stale data here.
	p := dataset.Params{Distance: d, Shots: opts.Shots, Noise: opts.Noise}
	if err := opts.Generator.Generate(ctx, p, artifacts); err != nil {
		return nil, err
	}

	detectors := d * d
	argv := append([]string{}, opts.BenchCmd...)
	argv = append(argv,
		"--dem", artifacts.ModelPath,
		"--b8", artifacts.ShotsPath,
		"--freq", strconv.Itoa(opts.FreqHz),
		"--duration", strconv.Itoa(opts.DurationS),
		"--detectors", strconv.Itoa(detectors),
	)

	run := opts.RunBench
	if run == nil {
		run = runExec
	}
	raw, err := run(ctx, argv)
	if err != nil {
		return nil, fmt.Errorf("bench command %v: %w\n%s", argv, err, raw)
	}

	rep := benchparse.Parse(string(raw))
	if rep.Empty() {
		log.Printf("warning: no metrics recognized in bench output for d=%d", d)
	}

	status := result.StatusOK
	if rep.LatencyUS >= opts.ThresholdUS {
		status = result.StatusSlow
	}
	return &result.SweepRow{
		Distance:     d,
		Detectors:    detectors,
		LatencyUS:    rep.LatencyUS,
		ThroughputHz: rep.ThroughputHz,
		Status:       status,
	}, nil
}

func runExec(ctx context.Context, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	return cmd.CombinedOutput()
}
