package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var Defaults []byte

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	_ = yaml.Unmarshal(Defaults, &cfg)
	applyDefaults(&cfg)
	return cfg
}
