package extdex

import (
	"code.launchcurve.io/launchcurve/config/encoding"
	"code.launchcurve.io/launchcurve/logging"
)

const namedLogger = "extdex"

// Config represents the configuration of the external exchange router.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
