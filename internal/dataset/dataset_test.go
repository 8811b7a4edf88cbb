package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qcutools/qcubench/internal/dataset"
)

func countingGenerator(calls *int, fail error) *dataset.Generator {
	return &dataset.Generator{
		Cmd: []string{"fake-gen"},
		Run: func(ctx context.Context, argv []string) ([]byte, error) {
			*calls++
			if fail != nil {
				return []byte("generator exploded"), fail
			}
			return nil, nil
		},
	}
}

func TestEnsureSkipsWhenArtifactsExist(t *testing.T) {
	dir := t.TempDir()
	a := dataset.Artifacts{
		ModelPath: filepath.Join(dir, "bench.dem"),
		ShotsPath: filepath.Join(dir, "bench.b8"),
	}
	os.WriteFile(a.ModelPath, []byte("dem"), 0o644)
	os.WriteFile(a.ShotsPath, []byte("b8"), 0o644)

	calls := 0
	gen := countingGenerator(&calls, nil)
	p := dataset.Params{Distance: 5, Shots: 100, Noise: 0.01}

	for i := 0; i < 2; i++ {
		if err := gen.Ensure(context.Background(), p, a); err != nil {
			t.Fatalf("Ensure: %v", err)
		}
	}
	if calls != 0 {
		t.Errorf("generator invoked %d times for existing artifacts, want 0", calls)
	}
}

func TestEnsureGeneratesWhenOneFileMissing(t *testing.T) {
	dir := t.TempDir()
	a := dataset.Artifacts{
		ModelPath: filepath.Join(dir, "bench.dem"),
		ShotsPath: filepath.Join(dir, "bench.b8"),
	}
	os.WriteFile(a.ModelPath, []byte("dem"), 0o644)

	calls := 0
	gen := countingGenerator(&calls, nil)
	if err := gen.Ensure(context.Background(), dataset.Params{Distance: 3, Shots: 10}, a); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if calls != 1 {
		t.Errorf("generator invoked %d times, want 1", calls)
	}
}

func TestGenerateArgv(t *testing.T) {
	dir := t.TempDir()
	a := dataset.Artifacts{
		ModelPath: filepath.Join(dir, "sub", "scaling.dem"),
		ShotsPath: filepath.Join(dir, "sub", "scaling.b8"),
	}
	var got []string
	gen := &dataset.Generator{
		Cmd: []string{"python3", "gen.py"},
		Run: func(ctx context.Context, argv []string) ([]byte, error) {
			got = append(got, argv...)
			return nil, nil
		},
	}
	if err := gen.Generate(context.Background(), dataset.Params{Distance: 7, Shots: 10000, Noise: 0.05}, a); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []string{
		"python3", "gen.py",
		"--distance", "7",
		"--shots", "10000",
		"--p", "0.05",
		"--dem", a.ModelPath,
		"--b8", a.ShotsPath,
	}
	if len(got) != len(want) {
		t.Fatalf("argv length: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("argv[%d]: got %q, want %q", i, got[i], want[i])
		}
	}

	// Generate must create the parent directory for its outputs.
	if _, err := os.Stat(filepath.Join(dir, "sub")); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
}

func TestGenerateRejectsBadParams(t *testing.T) {
	calls := 0
	gen := countingGenerator(&calls, nil)
	a := dataset.Artifacts{ModelPath: "x.dem", ShotsPath: "x.b8"}

	if err := gen.Generate(context.Background(), dataset.Params{Distance: 0, Shots: 10}, a); err == nil {
		t.Error("expected error for distance 0")
	}
	if err := gen.Generate(context.Background(), dataset.Params{Distance: 3, Shots: 0}, a); err == nil {
		t.Error("expected error for shots 0")
	}
	if calls != 0 {
		t.Errorf("generator invoked %d times for invalid params, want 0", calls)
	}
}

func TestGenerateFailureCarriesOutput(t *testing.T) {
	dir := t.TempDir()
	a := dataset.Artifacts{
		ModelPath: filepath.Join(dir, "bench.dem"),
		ShotsPath: filepath.Join(dir, "bench.b8"),
	}
	calls := 0
	gen := countingGenerator(&calls, errors.New("exit status 1"))

	err := gen.Generate(context.Background(), dataset.Params{Distance: 3, Shots: 10}, a)
	var genErr *dataset.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if !strings.Contains(genErr.Output, "generator exploded") {
		t.Errorf("captured output missing from error: %q", genErr.Output)
	}
	if !strings.Contains(err.Error(), "generator exploded") {
		t.Errorf("error message does not surface diagnostics: %v", err)
	}
}
