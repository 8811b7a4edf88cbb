package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()

	cfgFile = filepath.Join(t.TempDir(), "does-not-exist.yaml")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Output.Dir != "output" {
		t.Errorf("expected default output dir, got %q", cfg.Output.Dir)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()

	cfgFile = "../testdata/minimal.yaml"
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Output.Dir != "out" {
		t.Errorf("expected configured output dir, got %q", cfg.Output.Dir)
	}
}

func TestLoadConfigInvalidStillErrors(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()

	cfgFile = "../testdata/invalid.yaml"
	if _, err := loadConfig(); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestEnsureDatasetReusesExistingFiles(t *testing.T) {
	orig := cfgFile
	defer func() { cfgFile = orig }()
	cfgFile = filepath.Join(t.TempDir(), "none.yaml")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Output.Dir = t.TempDir()
	// Point the generator at something that would fail loudly if invoked.
	cfg.Dataset.GeneratorCmd = []string{"false"}

	dem, b8 := cfg.BenchArtifactPaths()
	os.WriteFile(dem, []byte("dem"), 0o644)
	os.WriteFile(b8, []byte("b8"), 0o644)

	if _, err := ensureDataset(context.Background(), cfg); err != nil {
		t.Errorf("ensureDataset regenerated existing artifacts: %v", err)
	}
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()
	want := map[string]bool{
		"gen": false, "kernel": false, "stream": false,
		"sweep": false, "hil": false, "report": false,
	}
	for _, c := range root.Commands() {
		name := c.Name()
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
