package cmd

import (
	"context"
	"fmt"

	"github.com/qcutools/qcubench/internal/config"
	"github.com/qcutools/qcubench/internal/dataset"
	"github.com/spf13/cobra"
)

var (
	flagGenSize  int
	flagGenShots int
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate benchmark dataset artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if flagGenSize > 0 {
				cfg.Dataset.Size = flagGenSize
			}
			if flagGenShots > 0 {
				cfg.Dataset.Shots = flagGenShots
			}
			_, err = ensureDataset(context.Background(), cfg)
			return err
		},
	}
	cmd.Flags().IntVar(&flagGenSize, "size", 0, "code distance")
	cmd.Flags().IntVar(&flagGenShots, "shots", 0, "number of shots to sample")
	return cmd
}

// ensureDataset makes sure the shared bench dataset exists, generating it
// only when one of the files is missing.
func ensureDataset(ctx context.Context, cfg *config.Config) (dataset.Artifacts, error) {
	dem, b8 := cfg.BenchArtifactPaths()
	artifacts := dataset.Artifacts{ModelPath: dem, ShotsPath: b8}
	if !artifacts.Exist() {
		fmt.Println("--> Generating benchmark data (Stim)...")
	}
	gen := &dataset.Generator{Cmd: cfg.Dataset.GeneratorCmd}
	err := gen.Ensure(ctx, dataset.Params{
		Distance: cfg.Dataset.Size,
		Shots:    cfg.Dataset.Shots,
		Noise:    cfg.Dataset.Noise,
	}, artifacts)
	return artifacts, err
}
