package pulse

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the handful of settings every downstream cmd/ tool
// needs to drive a Detector: the stream's sample rate, an optional manual
// level-limit override, and optional constant overrides for the five
// tunable thresholds in Limits. A zero value for any of these fields means
// "not set" and is resolved against DefaultLimits/DefaultConfig - none of
// the five thresholds are ever legitimately zero, so this is unambiguous.
type Config struct {
	SampleRate uint32 `yaml:"sample_rate"`
	LevelLimit int16  `yaml:"level_limit"`

	MinPulseSamples int `yaml:"min_pulse_samples"`
	MinGapMS        int `yaml:"min_gap_ms"`
	MaxGapMS        int `yaml:"max_gap_ms"`
	MaxGapRatio     int `yaml:"max_gap_ratio"`
	MinPulses       int `yaml:"min_pulses"`
}

// DefaultConfig matches a typical rtl_433-class front end: 250 kHz
// sample rate, adaptive threshold (no manual level limit), and the
// design's default Limits (no overrides).
func DefaultConfig() Config {
	return Config{SampleRate: 250000, LevelLimit: 0}
}

// LoadConfig reads a YAML config file, falling back to DefaultConfig for
// any field left unset in the file (a zero sample rate is nonsensical,
// so it is treated as "not set").
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	return cfg, nil
}

// Limits resolves the config's threshold overrides against DefaultLimits,
// ready to assign directly to a Detector's Limits field.
func (c Config) Limits() Limits {
	return Limits{
		PDMinPulseSamples: c.MinPulseSamples,
		PDMinGapMS:        c.MinGapMS,
		PDMaxGapMS:        c.MaxGapMS,
		PDMaxGapRatio:     c.MaxGapRatio,
		PDMinPulses:       c.MinPulses,
	}.resolve()
}
