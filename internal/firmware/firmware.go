// Package firmware cross-builds the bare-metal decoder kernel and boots
// it under QEMU with the console on the controlling terminal.
package firmware

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// ErrKernelMissing means the cross-build succeeded but the expected
// kernel binary is not where the target layout says it should be.
var ErrKernelMissing = errors.New("kernel binary missing after build")

// BuildError reports a failed cross-build with its captured output.
type BuildError struct {
	Cmd    []string
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("firmware build %v: %v\n%s", e.Cmd, e.Err, e.Output)
}

func (e *BuildError) Unwrap() error { return e.Err }

type Options struct {
	EntryFile string
	BuildCmd  []string
	KernelBin string

	QEMUBin string
	Machine string
	Memory  string
	CPU     string
	SMP     int

	// RunBuild and Boot override subprocess execution in tests.
	RunBuild func(ctx context.Context, argv []string) ([]byte, error)
	Boot     func(ctx context.Context, argv []string) error
}

// BuildAndBoot rebuilds the kernel and boots it under the emulator. The
// boot blocks for the lifetime of the emulated session.
func BuildAndBoot(ctx context.Context, opts *Options) error {
	// Touching the entry source defeats the build cache's mtime staleness
	// check, so the kernel is always relinked.
	if _, err := os.Stat(opts.EntryFile); err == nil {
		now := time.Now()
		os.Chtimes(opts.EntryFile, now, now)
	}

	runBuild := opts.RunBuild
	if runBuild == nil {
		runBuild = runExec
	}
	if out, err := runBuild(ctx, opts.BuildCmd); err != nil {
		return &BuildError{Cmd: opts.BuildCmd, Output: string(out), Err: err}
	}

	if _, err := os.Stat(opts.KernelBin); err != nil {
		return fmt.Errorf("%w: %s", ErrKernelMissing, opts.KernelBin)
	}

	fmt.Printf("--> Booting QEMU (SMP: %d cores)...\n", opts.SMP)
	argv := []string{
		opts.QEMUBin,
		"-machine", opts.Machine,
		"-m", opts.Memory,
		"-cpu", opts.CPU,
		"-bios", "none",
		"-smp", strconv.Itoa(opts.SMP),
		"-nographic",
		"-serial", "mon:stdio",
		"-kernel", opts.KernelBin,
	}
	boot := opts.Boot
	if boot == nil {
		boot = bootExec
	}
	return boot(ctx, argv)
}

func runExec(ctx context.Context, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	return cmd.CombinedOutput()
}

func bootExec(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("qemu %v: %w", argv, err)
	}
	return nil
}
