// Package config loads the CLI configuration file.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the overall application configuration.
type Config struct {
	Printer PrinterConfig `yaml:"printer"`
	Label   LabelConfig   `yaml:"label"`
	Spooler SpoolerConfig `yaml:"spooler"`
	Logging LoggingConfig `yaml:"logging"`
}

// PrinterConfig identifies the target printer and its rendering parameters.
type PrinterConfig struct {
	Address  string `yaml:"address"`
	Model    string `yaml:"model"`
	Protocol string `yaml:"protocol"` // empty = auto-detect from model name
	Port     string `yaml:"port"`     // manual serial port override
	DPI      int    `yaml:"dpi"`
	Density  int    `yaml:"density"`
}

// LabelConfig holds the physical label dimensions.
type LabelConfig struct {
	WidthMM   float64 `yaml:"width_mm"`
	HeightMM  float64 `yaml:"height_mm"`
	GapMM     float64 `yaml:"gap_mm"`
	Direction int     `yaml:"direction"`
}

// SpoolerConfig tunes queue pacing.
type SpoolerConfig struct {
	ConnectRetries    int           `yaml:"connect_retries"`
	RetryDelayMS      int           `yaml:"retry_delay_ms"`
	InterLabelDelayMS int           `yaml:"inter_label_delay_ms"`
	RetryDelay        time.Duration `yaml:"-"`
	InterLabelDelay   time.Duration `yaml:"-"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// Load reads the configuration from path and applies defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Printer.DPI <= 0 {
		c.Printer.DPI = 203
	}
	if c.Printer.Density <= 0 {
		c.Printer.Density = 8
	}
	if c.Label.WidthMM <= 0 {
		c.Label.WidthMM = 56
	}
	if c.Label.HeightMM <= 0 {
		c.Label.HeightMM = 31
	}
	if c.Label.GapMM <= 0 {
		c.Label.GapMM = 3
	}
	if c.Spooler.ConnectRetries <= 0 {
		c.Spooler.ConnectRetries = 3
	}
	if c.Spooler.RetryDelayMS <= 0 {
		c.Spooler.RetryDelayMS = 1000
	}
	if c.Spooler.InterLabelDelayMS <= 0 {
		c.Spooler.InterLabelDelayMS = 500
	}
	c.Spooler.RetryDelay = time.Duration(c.Spooler.RetryDelayMS) * time.Millisecond
	c.Spooler.InterLabelDelay = time.Duration(c.Spooler.InterLabelDelayMS) * time.Millisecond
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}
