package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel  = "m1"
	DefaultOutput = "params.json"
	DefaultTrials = 10000
	DefaultJobs   = 1
	DefaultSigma  = 1.0 / 6.0
)

// Config holds the settings of one calibration run. Zero Seed means seed
// from the clock, zero Population lets the optimizer pick its own.
type Config struct {
	Model      string  `yaml:"model"`
	LogDir     string  `yaml:"logdir"`
	Output     string  `yaml:"output"`
	Trials     int     `yaml:"trials"`
	Jobs       int     `yaml:"jobs"`
	Seed       int64   `yaml:"seed"`
	Sigma      float64 `yaml:"sigma"`
	Population int     `yaml:"population"`
	Study      string  `yaml:"study"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:  DefaultModel,
		Output: DefaultOutput,
		Trials: DefaultTrials,
		Jobs:   DefaultJobs,
		Sigma:  DefaultSigma,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
