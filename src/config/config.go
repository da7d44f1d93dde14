package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".openapi-mock-build.yml"

// DefaultPort is the mock server listen port baked into built images
// unless overridden by config or the --port flag.
const DefaultPort = 3000

// Config holds file-based defaults for the build pipeline.
// Command-line flags override anything set here.
type Config struct {
	Registry    string `yaml:"registry"`     // default registry host[:port]
	Port        int    `yaml:"port"`         // mock server listen port
	Push        bool   `yaml:"push"`         // push after build when a registry is set
	SkipSecrets bool   `yaml:"skip_secrets"` // disable the pre-build secret scan
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns sensible defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port: DefaultPort,
		Push: true,
	}
}
