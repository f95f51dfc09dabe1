// Package config loads the optional jpamb.yaml configuration file:
// the worklist pass cap, the concrete step cap, and the supervisor's
// wait-with-timeout deadline. Config is optional everywhere — the
// zero value of Config yields the spec's documented defaults, filled
// in by Load the same way the pack's config loaders return
// DefaultConfig() when the file is simply absent, and fill in
// per-field zero-value defaults (not a full-struct replace) when it
// is present but partial.
package config

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"jpamb/internal/absint"
	"jpamb/internal/analyzer"
)

// Config holds the tunable bounds spec §4.5/§4.6/§5 document defaults
// for. A zero Config is valid: Load and Defaults both apply
// DefaultPassCap/DefaultStepCap/DefaultDeadline wherever a field was
// left unset.
type Config struct {
	PassCap  int           `yaml:"pass_cap"`
	StepCap  int           `yaml:"step_cap"`
	Deadline time.Duration `yaml:"deadline"`
}

// DefaultDeadline bounds one supervisor worker run when jpamb.yaml
// does not say otherwise.
const DefaultDeadline = 10 * time.Second

// Defaults returns the spec's documented defaults: 100 worklist
// passes, 10^5 concrete steps, a 10s supervisor deadline.
func Defaults() Config {
	return Config{
		PassCap:  absint.DefaultPassCap,
		StepCap:  analyzer.DefaultStepCap,
		Deadline: DefaultDeadline,
	}
}

// Load reads path if it exists, layering its fields over Defaults().
// A missing file is not an error: it returns Defaults() unchanged,
// matching the pack's "return defaults if the file doesn't exist"
// convention.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, errors.Wrapf(err, "config: reading %s", path)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Config{}, errors.Wrapf(err, "config: parsing %s", path)
	}

	if parsed.PassCap != 0 {
		cfg.PassCap = parsed.PassCap
	}
	if parsed.StepCap != 0 {
		cfg.StepCap = parsed.StepCap
	}
	if parsed.Deadline != 0 {
		cfg.Deadline = parsed.Deadline
	}
	return cfg, nil
}
