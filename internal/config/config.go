// Package config holds run configuration. Device and data-type defaults
// are explicit values threaded into model construction, never process
// globals.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// Config is the run configuration for model construction.
type Config struct {
	// Device selects where parameter tensors live: "cpu" (default),
	// "cuda", or "webgpu".
	Device string `yaml:"device"`

	// DType selects the default parameter data type: "float32"
	// (default) or "float64".
	DType string `yaml:"dtype"`

	// Seed seeds parameter initialization. Zero means unseeded.
	Seed int64 `yaml:"seed"`

	// Tokenizer names the tiktoken encoding used for text input.
	Tokenizer string `yaml:"tokenizer"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Device:    "cpu",
		DType:     "float32",
		Tokenizer: "cl100k_base",
	}
}

// Load reads and parses a YAML configuration file. Missing fields keep
// their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration bytes over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field names a supported value.
func (c Config) Validate() error {
	switch c.Device {
	case "cpu", "cuda", "webgpu":
	default:
		return fmt.Errorf("unsupported device %q", c.Device)
	}
	switch c.DType {
	case "float32", "float64":
	default:
		return fmt.Errorf("unsupported dtype %q", c.DType)
	}
	return nil
}

// ResolveDevice maps the configured device name to a tensor.Device.
func (c Config) ResolveDevice() tensor.Device {
	switch c.Device {
	case "cuda":
		return tensor.CUDA
	case "webgpu":
		return tensor.WebGPU
	default:
		return tensor.CPU
	}
}

// ResolveDType maps the configured dtype name to a tensor.DataType.
func (c Config) ResolveDType() tensor.DataType {
	if c.DType == "float64" {
		return tensor.Float64
	}
	return tensor.Float32
}
