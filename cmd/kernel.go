package cmd

import (
	"context"
	"fmt"

	"github.com/qcutools/qcubench/internal/firmware"
	"github.com/spf13/cobra"
)

var flagKernelSize int

func newKernelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kernel",
		Short: "Build the RISC-V firmware and boot it under QEMU",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if flagKernelSize > 0 {
				cfg.Dataset.Size = flagKernelSize
			}

			ctx := context.Background()
			if _, err := ensureDataset(ctx, cfg); err != nil {
				return err
			}

			fmt.Println("--> Building qcu_firmware (RISC-V)...")
			fw := cfg.Firmware
			return firmware.BuildAndBoot(ctx, &firmware.Options{
				EntryFile: fw.EntryFile,
				BuildCmd:  fw.BuildCmd,
				KernelBin: fw.KernelBin,
				QEMUBin:   fw.QEMU.Bin,
				Machine:   fw.QEMU.Machine,
				Memory:    fw.QEMU.Memory,
				CPU:       fw.QEMU.CPU,
				SMP:       fw.QEMU.SMP,
			})
		},
	}
	cmd.Flags().IntVar(&flagKernelSize, "size", 0, "code distance")
	return cmd
}
