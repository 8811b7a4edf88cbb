package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qcutools/qcubench/internal/config"
)

func TestLoadMinimalFillsDefaults(t *testing.T) {
	cfg, err := config.Load("../../testdata/minimal.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Dir != "out" {
		t.Errorf("output dir: got %q, want %q", cfg.Output.Dir, "out")
	}
	if cfg.Dataset.Size != 5 {
		t.Errorf("dataset size default: got %d, want 5", cfg.Dataset.Size)
	}
	if cfg.Dataset.Shots != 10000 {
		t.Errorf("dataset shots default: got %d, want 10000", cfg.Dataset.Shots)
	}
	if len(cfg.Sweep.Distances) != 10 || cfg.Sweep.Distances[0] != 3 || cfg.Sweep.Distances[9] != 21 {
		t.Errorf("sweep distances default wrong: %v", cfg.Sweep.Distances)
	}
	if cfg.Sweep.ThresholdUS != 10.0 {
		t.Errorf("threshold default: got %f, want 10.0", cfg.Sweep.ThresholdUS)
	}
	if cfg.Firmware.QEMU.SMP != 4 {
		t.Errorf("qemu smp default: got %d, want 4", cfg.Firmware.QEMU.SMP)
	}
	if cfg.Firmware.KernelBin != filepath.Join("target", cfg.Firmware.Target, "release", "qcu_firmware") {
		t.Errorf("kernel bin default wrong: %q", cfg.Firmware.KernelBin)
	}
	if cfg.HIL.GraceSeconds != 5 {
		t.Errorf("grace default: got %d, want 5", cfg.HIL.GraceSeconds)
	}
	// The default HIL log lands inside the configured output dir.
	if cfg.HIL.LogPath != filepath.Join("out", "hil_sim.log") {
		t.Errorf("hil log path: got %q", cfg.HIL.LogPath)
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := config.Load("../../testdata/full.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.Dataset.GeneratorCmd; len(got) != 1 || got[0] != "./gen.sh" {
		t.Errorf("generator cmd not preserved: %v", got)
	}
	if cfg.Sweep.ThresholdUS != 8.5 {
		t.Errorf("threshold: got %f, want 8.5", cfg.Sweep.ThresholdUS)
	}
	if cfg.HIL.Manifest != "build/manifest.txt" {
		t.Errorf("manifest: got %q", cfg.HIL.Manifest)
	}
	if cfg.Firmware.KernelBin != "build/fw.bin" {
		t.Errorf("kernel bin override lost: %q", cfg.Firmware.KernelBin)
	}
	if cfg.Firmware.QEMU.SMP != 2 {
		t.Errorf("qemu smp: got %d, want 2", cfg.Firmware.QEMU.SMP)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load("nonexistent.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := config.Load("../../testdata/invalid.yaml")
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestRejectsBadDistances(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"even dataset size", "dataset:\n  size: 4\n"},
		{"negative dataset size", "dataset:\n  size: -3\n"},
		{"even sweep distance", "sweep:\n  distances: [3, 4, 5]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := config.Load(path); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Output.Dir != "output" {
		t.Errorf("output dir: got %q, want %q", cfg.Output.Dir, "output")
	}
	if cfg.Sweep.FreqHz != 100000 {
		t.Errorf("sweep freq: got %d, want 100000", cfg.Sweep.FreqHz)
	}
	dem, b8 := cfg.BenchArtifactPaths()
	if dem != filepath.Join("output", "bench.dem") || b8 != filepath.Join("output", "bench.b8") {
		t.Errorf("bench artifact paths wrong: %q %q", dem, b8)
	}
}
