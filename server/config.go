package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the host process configuration. Every field has a usable
// default; a YAML file only needs the overrides.
type Config struct {
	Addr string `yaml:"addr"`

	// TurnSeconds is the per-turn clock. 0 disables the timer.
	TurnSeconds int `yaml:"turnSeconds"`

	// ExtendSeconds is added to the clock after each successful placement.
	ExtendSeconds int `yaml:"extendSeconds"`

	MaxLevels int `yaml:"maxLevels"`
	WinTarget int `yaml:"winTarget"`

	AllowedOrigins []string `yaml:"allowedOrigins"`

	// TauntPerSecond / TauntBurst shape the per-connection taunt budget.
	TauntPerSecond int `yaml:"tauntPerSecond"`
	TauntBurst     int `yaml:"tauntBurst"`
}

func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		TurnSeconds:    60,
		ExtendSeconds:  15,
		MaxLevels:      5,
		WinTarget:      3,
		TauntPerSecond: 1,
		TauntBurst:     3,
	}
}

// LoadConfig reads a YAML file over the defaults. A missing path means
// defaults only.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
