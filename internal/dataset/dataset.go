// Package dataset drives the external syndrome-data generator that
// produces the detector error model (.dem) and packed shot (.b8) files
// consumed by the decoder benchmarks.
package dataset

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Artifacts names the two files a generation run produces.
type Artifacts struct {
	ModelPath string
	ShotsPath string
}

// Exist reports whether both artifact files are already on disk.
func (a Artifacts) Exist() bool {
	if _, err := os.Stat(a.ModelPath); err != nil {
		return false
	}
	if _, err := os.Stat(a.ShotsPath); err != nil {
		return false
	}
	return true
}

// Remove deletes both artifact files. Best-effort; missing files are fine.
func (a Artifacts) Remove() {
	os.Remove(a.ModelPath)
	os.Remove(a.ShotsPath)
}

type Params struct {
	Distance int
	Shots    int
	Noise    float64
}

// GenerationError reports a failed generator invocation together with the
// command line and its captured output.
type GenerationError struct {
	Cmd    []string
	Output string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("dataset generation %v: %v\n%s", e.Cmd, e.Err, e.Output)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator invokes the external dataset generation command.
type Generator struct {
	// Cmd is the argv prefix, e.g. ["python3", "scripts/generate_stim_data.py"].
	Cmd []string

	// Run overrides subprocess execution in tests. It receives the full
	// argv and returns the combined output.
	Run func(ctx context.Context, argv []string) ([]byte, error)
}

// Ensure generates the artifacts unless both already exist. The shortcut
// makes repeated gen/kernel/stream invocations cheap; it is only safe when
// the parameters match the files on disk, which is why the sweep driver
// calls Generate directly instead.
func (g *Generator) Ensure(ctx context.Context, p Params, a Artifacts) error {
	if a.Exist() {
		return nil
	}
	return g.Generate(ctx, p, a)
}

// Generate always invokes the generator, overwriting any existing files.
func (g *Generator) Generate(ctx context.Context, p Params, a Artifacts) error {
	if p.Distance < 1 {
		return fmt.Errorf("distance must be at least 1, got %d", p.Distance)
	}
	if p.Shots < 1 {
		return fmt.Errorf("shots must be at least 1, got %d", p.Shots)
	}
	for _, path := range []string{a.ModelPath, a.ShotsPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}
		}
	}

	argv := append([]string{}, g.Cmd...)
	argv = append(argv,
		"--distance", strconv.Itoa(p.Distance),
		"--shots", strconv.Itoa(p.Shots),
		"--p", strconv.FormatFloat(p.Noise, 'g', -1, 64),
		"--dem", a.ModelPath,
		"--b8", a.ShotsPath,
	)

	run := g.Run
	if run == nil {
		run = runExec
	}
	out, err := run(ctx, argv)
	if err != nil {
		return &GenerationError{Cmd: argv, Output: string(out), Err: err}
	}
	return nil
}

func runExec(ctx context.Context, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	return cmd.CombinedOutput()
}
