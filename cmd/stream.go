package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/qcutools/qcubench/internal/benchparse"
	"github.com/spf13/cobra"
)

var flagStreamFreq int

func newStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Run one streaming benchmark invocation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if flagStreamFreq > 0 {
				cfg.Stream.FreqHz = flagStreamFreq
			}

			ctx := context.Background()
			artifacts, err := ensureDataset(ctx, cfg)
			if err != nil {
				return err
			}

			fmt.Println("--> Running host stream benchmark...")
			argv := append([]string{}, cfg.Stream.BenchCmd...)
			argv = append(argv,
				"--dem", artifacts.ModelPath,
				"--b8", artifacts.ShotsPath,
				"--freq", strconv.Itoa(cfg.Stream.FreqHz),
				"--duration", strconv.Itoa(cfg.Stream.DurationS),
			)
			bench := exec.CommandContext(ctx, argv[0], argv[1:]...)
			raw, err := bench.CombinedOutput()
			fmt.Print(string(raw))
			if err != nil {
				return fmt.Errorf("bench command %v: %w", argv, err)
			}

			rep := benchparse.Parse(string(raw))
			fmt.Printf("\nlatency: %.2f us  throughput: %.0f Hz\n", rep.LatencyUS, rep.ThroughputHz)
			return nil
		},
	}
	cmd.Flags().IntVar(&flagStreamFreq, "freq", 0, "event injection frequency (Hz)")
	return cmd
}
