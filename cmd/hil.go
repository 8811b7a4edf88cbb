package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/qcutools/qcubench/internal/hil"
	"github.com/spf13/cobra"
)

func newHilCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hil",
		Short: "Run a hardware-in-the-loop session against the Verilator sim",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			h := cfg.HIL
			fmt.Println("--> Building hardware simulation...")
			return hil.Run(ctx, &hil.Options{
				BuildCmd:      h.BuildCmd,
				SearchDir:     h.SearchDir,
				Pattern:       h.Pattern,
				Manifest:      h.Manifest,
				LaunchArgs:    h.LaunchArgs,
				LogPath:       h.LogPath,
				Endpoint:      h.Endpoint,
				Grace:         time.Duration(h.GraceSeconds) * time.Second,
				ControllerCmd: h.ControllerCmd,
			})
		},
	}
}
