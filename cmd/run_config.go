package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/netsim/sim/trace"
)

// RunConfig describes one simulation run, loadable from a YAML or TOML file.
// Command-line flags override the values read from the file.
type RunConfig struct {
	Topology string       `yaml:"topology" toml:"topology"`
	Turns    int64        `yaml:"turns" toml:"turns"`
	Seed     int64        `yaml:"seed" toml:"seed"`
	LogLevel string       `yaml:"log_level" toml:"log_level"`
	Trace    string       `yaml:"trace" toml:"trace"`
	Report   ReportConfig `yaml:"report" toml:"report"`
}

// ReportConfig selects which reports a run prints.
// Explicit Turns take precedence over Interval; Interval 0 disables turn reports.
type ReportConfig struct {
	Structure bool    `yaml:"structure" toml:"structure"`
	Interval  int64   `yaml:"interval" toml:"interval"`
	Turns     []int64 `yaml:"turns" toml:"turns"`
}

// DefaultRunConfig returns the values used when neither file nor flags set them.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Turns:    10,
		Seed:     42,
		LogLevel: "warn",
		Trace:    string(trace.TraceLevelNone),
		Report:   ReportConfig{Interval: 1},
	}
}

// LoadRunConfig reads path on top of DefaultRunConfig. Files ending in .toml
// are decoded as TOML, everything else as YAML. Unknown keys are errors in
// both formats.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("reading run config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return RunConfig{}, fmt.Errorf("parsing run config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return RunConfig{}, fmt.Errorf("parsing run config: unknown keys %v", keys)
		}
	} else {
		// Strict field checking: typos must cause errors
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return RunConfig{}, fmt.Errorf("parsing run config: %w", err)
		}
	}

	if cfg.Topology != "" && !filepath.IsAbs(cfg.Topology) {
		cfg.Topology = filepath.Join(filepath.Dir(path), cfg.Topology)
	}
	logrus.Debugf("Loaded run config from %s: %+v", path, cfg)
	return cfg, nil
}

// Validate checks that all values are usable.
func (c RunConfig) Validate() error {
	if c.Topology == "" {
		return fmt.Errorf("topology file not provided")
	}
	if c.Turns < 0 {
		return fmt.Errorf("turns must be non-negative, got %d", c.Turns)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q", c.Trace)
	}
	if c.Report.Interval < 0 {
		return fmt.Errorf("report interval must be non-negative, got %d", c.Report.Interval)
	}
	for _, t := range c.Report.Turns {
		if t < 1 {
			return fmt.Errorf("report turns must be >= 1, got %d", t)
		}
	}
	return nil
}
