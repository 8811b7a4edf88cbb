package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/qcutools/qcubench/internal/dataset"
	"github.com/qcutools/qcubench/internal/result"
	"github.com/qcutools/qcubench/internal/sweep"
	"github.com/spf13/cobra"
)

var (
	flagSweepDuration  int
	flagSweepThreshold float64
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep code distances and characterize latency scaling",
		RunE:  runSweep,
	}
	cmd.Flags().IntVar(&flagSweepDuration, "duration", 0, "seconds per benchmark run")
	cmd.Flags().Float64Var(&flagSweepThreshold, "threshold", 0, "soft-real-time latency budget (us)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSweepDuration > 0 {
		cfg.Sweep.DurationS = flagSweepDuration
	}
	if flagSweepThreshold > 0 {
		cfg.Sweep.ThresholdUS = flagSweepThreshold
	}

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	fmt.Printf("Run directory: %s\n\n", runDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = sweep.Run(ctx, &sweep.Options{
		Distances:   cfg.Sweep.Distances,
		Shots:       cfg.Sweep.Shots,
		Noise:       cfg.Sweep.Noise,
		FreqHz:      cfg.Sweep.FreqHz,
		DurationS:   cfg.Sweep.DurationS,
		ThresholdUS: cfg.Sweep.ThresholdUS,
		OutputDir:   cfg.Output.Dir,
		RunDir:      runDir,
		Generator:   &dataset.Generator{Cmd: cfg.Dataset.GeneratorCmd},
		BenchCmd:    cfg.Stream.BenchCmd,
	})
	if errors.Is(err, sweep.ErrInterrupted) {
		fmt.Println("\nSweep interrupted; completed points are preserved.")
	}
	return err
}
