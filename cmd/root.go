package cmd

import (
	"errors"
	"io/fs"

	"github.com/qcutools/qcubench/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "qcubench",
		Short: "Benchmark and HIL workflow manager for the QCU decoder",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "qcubench.yaml", "config file path")
	root.AddCommand(newGenCmd())
	root.AddCommand(newKernelCmd())
	root.AddCommand(newStreamCmd())
	root.AddCommand(newSweepCmd())
	root.AddCommand(newHilCmd())
	root.AddCommand(newReportCmd())
	return root
}

// loadConfig reads the config file, falling back to built-in defaults
// when it does not exist so the tool works from a bare checkout.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}
