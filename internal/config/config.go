package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Output   Output   `yaml:"output"`
	Dataset  Dataset  `yaml:"dataset"`
	Stream   Stream   `yaml:"stream"`
	Sweep    Sweep    `yaml:"sweep"`
	HIL      HIL      `yaml:"hil"`
	Firmware Firmware `yaml:"firmware"`
	Results  Results  `yaml:"results"`
}

type Output struct {
	Dir string `yaml:"dir"`
}

type Dataset struct {
	GeneratorCmd []string `yaml:"generator_cmd"`
	Size         int      `yaml:"size"`
	Shots        int      `yaml:"shots"`
	Noise        float64  `yaml:"noise"`
}

type Stream struct {
	BenchCmd  []string `yaml:"bench_cmd"`
	FreqHz    int      `yaml:"freq"`
	DurationS int      `yaml:"duration"`
}

type Sweep struct {
	Distances   []int   `yaml:"distances"`
	Shots       int     `yaml:"shots"`
	Noise       float64 `yaml:"noise"`
	FreqHz      int     `yaml:"freq"`
	DurationS   int     `yaml:"duration"`
	ThresholdUS float64 `yaml:"latency_threshold_us"`
}

type HIL struct {
	BuildCmd      []string `yaml:"build_cmd"`
	SearchDir     string   `yaml:"search_dir"`
	Pattern       string   `yaml:"pattern"`
	Manifest      string   `yaml:"manifest"`
	LaunchArgs    []string `yaml:"launch_args"`
	LogPath       string   `yaml:"log_path"`
	Endpoint      string   `yaml:"endpoint"`
	GraceSeconds  int      `yaml:"grace_seconds"`
	ControllerCmd []string `yaml:"controller_cmd"`
}

type Firmware struct {
	EntryFile string   `yaml:"entry_file"`
	Target    string   `yaml:"target"`
	BuildCmd  []string `yaml:"build_cmd"`
	KernelBin string   `yaml:"kernel_bin"`
	QEMU      QEMU     `yaml:"qemu"`
}

type QEMU struct {
	Bin     string `yaml:"bin"`
	Machine string `yaml:"machine"`
	Memory  string `yaml:"memory"`
	CPU     string `yaml:"cpu"`
	SMP     int    `yaml:"smp"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	validate(cfg)
	return cfg
}

// BenchArtifactPaths returns the shared dataset paths used by the ad-hoc
// gen/kernel/stream commands.
func (c *Config) BenchArtifactPaths() (dem, b8 string) {
	return filepath.Join(c.Output.Dir, "bench.dem"), filepath.Join(c.Output.Dir, "bench.b8")
}

// SweepArtifactPaths returns the scratch dataset paths the sweep driver
// overwrites at every point.
func (c *Config) SweepArtifactPaths() (dem, b8 string) {
	return filepath.Join(c.Output.Dir, "scaling.dem"), filepath.Join(c.Output.Dir, "scaling.b8")
}

func validate(cfg *Config) error {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "output"
	}

	d := &cfg.Dataset
	if len(d.GeneratorCmd) == 0 {
		d.GeneratorCmd = []string{"python3", "scripts/generate_stim_data.py"}
	}
	if d.Size == 0 {
		d.Size = 5
	}
	if err := checkDistance("dataset.size", d.Size); err != nil {
		return err
	}
	if d.Shots == 0 {
		d.Shots = 10000
	}
	if d.Shots < 1 {
		return fmt.Errorf("dataset.shots must be at least 1")
	}
	if d.Noise == 0 {
		d.Noise = 0.005
	}

	st := &cfg.Stream
	if len(st.BenchCmd) == 0 {
		st.BenchCmd = []string{"cargo", "run", "--quiet", "--release", "--bin", "qcu_host", "--", "stream"}
	}
	if st.FreqHz == 0 {
		st.FreqHz = 80000
	}
	if st.DurationS == 0 {
		st.DurationS = 10
	}

	sw := &cfg.Sweep
	if len(sw.Distances) == 0 {
		sw.Distances = []int{3, 5, 7, 9, 11, 13, 15, 17, 19, 21}
	}
	for _, dist := range sw.Distances {
		if err := checkDistance("sweep.distances", dist); err != nil {
			return err
		}
	}
	if sw.Shots == 0 {
		sw.Shots = 10000
	}
	if sw.Noise == 0 {
		sw.Noise = 0.05
	}
	if sw.FreqHz == 0 {
		sw.FreqHz = 100000
	}
	if sw.DurationS == 0 {
		sw.DurationS = 5
	}
	if sw.ThresholdUS == 0 {
		sw.ThresholdUS = 10.0
	}
	if sw.ThresholdUS < 0 {
		return fmt.Errorf("sweep.latency_threshold_us must be positive")
	}

	h := &cfg.HIL
	if len(h.BuildCmd) == 0 {
		h.BuildCmd = []string{"cargo", "build", "--release", "-p", "qcu_hw"}
	}
	if h.SearchDir == "" {
		h.SearchDir = "target/release/build"
	}
	if h.Pattern == "" {
		h.Pattern = "Vsim_main"
	}
	if h.LogPath == "" {
		h.LogPath = filepath.Join(cfg.Output.Dir, "hil_sim.log")
	}
	if h.Endpoint == "" {
		h.Endpoint = "127.0.0.1:8000"
	}
	if h.GraceSeconds == 0 {
		h.GraceSeconds = 5
	}
	if h.GraceSeconds < 0 {
		return fmt.Errorf("hil.grace_seconds must not be negative")
	}
	if len(h.ControllerCmd) == 0 {
		h.ControllerCmd = []string{"cargo", "run", "--release", "--bin", "qcu_host", "--", "hil", "--addr", h.Endpoint}
	}

	fw := &cfg.Firmware
	if fw.EntryFile == "" {
		fw.EntryFile = "crates/qcu_firmware/src/main.rs"
	}
	if fw.Target == "" {
		fw.Target = "riscv64gc-unknown-none-elf"
	}
	if len(fw.BuildCmd) == 0 {
		fw.BuildCmd = []string{
			"cargo", "build", "--release", "-p", "qcu_firmware",
			"--target", fw.Target, "-Z", "build-std=core,alloc",
		}
	}
	if fw.KernelBin == "" {
		fw.KernelBin = filepath.Join("target", fw.Target, "release", "qcu_firmware")
	}
	q := &fw.QEMU
	if q.Bin == "" {
		q.Bin = "qemu-system-riscv64"
	}
	if q.Machine == "" {
		q.Machine = "virt"
	}
	if q.Memory == "" {
		q.Memory = "128M"
	}
	if q.CPU == "" {
		q.CPU = "rv64"
	}
	if q.SMP == 0 {
		q.SMP = 4
	}
	if q.SMP < 1 {
		return fmt.Errorf("firmware.qemu.smp must be at least 1")
	}

	if cfg.Results.Dir == "" {
		cfg.Results.Dir = "results"
	}
	return nil
}

func checkDistance(field string, d int) error {
	if d < 1 {
		return fmt.Errorf("%s: distance must be at least 1, got %d", field, d)
	}
	if d%2 == 0 {
		return fmt.Errorf("%s: distance must be odd, got %d", field, d)
	}
	return nil
}
