// Package config loads the optional .rune.yaml run-configuration file
// consulted by the CLI before starting the REPL or running a file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the run-time knobs a .rune.yaml may override. Every field
// has a spec-mandated default; absence of the file is not an error.
type Config struct {
	// Prompt is the REPL's prompt string.
	Prompt string `yaml:"prompt"`
	// ClockOffset is added to every clock() reading, for reproducible
	// scripted runs against a fixed epoch.
	ClockOffset float64 `yaml:"clock_offset"`
}

// Default returns the configuration used when no .rune.yaml is present.
func Default() Config {
	return Config{Prompt: "> ", ClockOffset: 0}
}

// Load reads path and overlays its fields onto Default(). A missing file
// is not an error and yields Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
