package config

import (
	"bytes"
	"os"
	"path/filepath"

	"code.launchcurve.io/launchcurve/api"
	"code.launchcurve.io/launchcurve/broker"
	"code.launchcurve.io/launchcurve/extdex"
	"code.launchcurve.io/launchcurve/launchtime"
	"code.launchcurve.io/launchcurve/pool"
	"code.launchcurve.io/launchcurve/registry"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const configFile = "launchcurve.toml"

// Config is the top-level configuration, one section per service.
type Config struct {
	API      api.Config
	Broker   broker.Config
	Pool     pool.Config
	Registry registry.Config
	Extdex   extdex.Config
	Time     launchtime.Config
}

// NewDefaultConfig returns the whole tree of defaults.
func NewDefaultConfig() Config {
	return Config{
		API:      api.NewDefaultConfig(),
		Broker:   broker.NewDefaultConfig(),
		Pool:     pool.NewDefaultConfig(),
		Registry: registry.NewDefaultConfig(),
		Extdex:   extdex.NewDefaultConfig(),
		Time:     launchtime.NewDefaultConfig(),
	}
}

// Read loads the configuration file from the given directory.
func Read(path string) (*Config, error) {
	buf, err := os.ReadFile(filepath.Join(path, configFile))
	if err != nil {
		return nil, errors.Wrap(err, "unable to read configuration")
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}
	return &cfg, nil
}

// Write serializes the configuration into the given directory,
// refusing to overwrite an existing file.
func Write(path string, cfg Config) error {
	confPath := filepath.Join(path, configFile)
	if _, err := os.Stat(confPath); err == nil {
		return errors.Errorf("configuration already exists at path: %v", confPath)
	}

	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "unable to encode configuration")
	}
	return os.WriteFile(confPath, buf.Bytes(), 0o600)
}
