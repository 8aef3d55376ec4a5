package compiler

import "gopkg.in/yaml.v3"

// Config is the driver's on-disk `polygen.yaml` configuration: which
// backends to register and where each one writes its output. The CLI
// loads this so a project's backend/output wiring lives in a config
// file rather than a growing pile of repeated flags (§6's CLI surface
// names flags as the interface; this is the config-file shape those
// flags can also be read from, per the teacher's own config-over-flags
// idiom for anything beyond a one-off invocation).
type Config struct {
	Emitters []EmitterConfig `yaml:"emitters"`
}

// EmitterConfig names one registered backend and its output directory.
type EmitterConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

// LoadConfig parses a polygen.yaml document.
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
