package launchtime

import (
	"code.launchcurve.io/launchcurve/config/encoding"
	"code.launchcurve.io/launchcurve/logging"
)

// Config represents the configuration of the time service.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
