package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/voxelsplace/voxedit/voxel"
)

// Config holds the editor and tooling settings read from editor.yaml.
type Config struct {
	ClearLayerResetsSelection bool   `yaml:"clear_layer_resets_selection"`
	Compression               string `yaml:"compression"`
	DefaultSize               []int  `yaml:"default_size"`
	FrameIntervalMs           int    `yaml:"frame_interval_ms"`
	BatchWorkers              int    `yaml:"batch_workers"`

	Export Export `yaml:"export"`
}

type Export struct {
	Generator string `yaml:"generator"`
}

func Default() Config {
	return Config{
		ClearLayerResetsSelection: true,
		Compression:               "zstd",
		DefaultSize:               []int{16, 16, 16},
		FrameIntervalMs:           16,
		BatchWorkers:              4,
		Export:                    Export{Generator: "voxtool"},
	}
}

// Load reads path on top of the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("editor.yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("editor.yaml: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := voxel.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	if len(c.DefaultSize) != 3 {
		return fmt.Errorf("default_size must have 3 entries, got %d", len(c.DefaultSize))
	}
	for i, n := range c.DefaultSize {
		if n < 1 {
			return fmt.Errorf("default_size[%d] must be >= 1", i)
		}
	}
	if c.FrameIntervalMs <= 0 {
		return fmt.Errorf("frame_interval_ms must be > 0")
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("batch_workers must be > 0")
	}
	return nil
}

func (c Config) ClearPolicy() voxel.ClearPolicy {
	return voxel.ClearPolicy{ResetSelection: c.ClearLayerResetsSelection}
}

// EncodeOptions falls back to no compression if the field does not parse;
// Load already rejected such configs.
func (c Config) EncodeOptions() voxel.EncodeOptions {
	comp, _ := voxel.ParseCompression(c.Compression)
	return voxel.EncodeOptions{Compression: comp}
}

func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// NewGrid allocates an empty grid of DefaultSize.
func (c Config) NewGrid() (*voxel.Grid, error) {
	if len(c.DefaultSize) != 3 {
		return nil, voxel.ErrInvalidSize
	}
	return voxel.New(c.DefaultSize[0], c.DefaultSize[1], c.DefaultSize[2])
}
