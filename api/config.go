package api

import (
	"code.launchcurve.io/launchcurve/config/encoding"
	"code.launchcurve.io/launchcurve/logging"
)

const namedLogger = "api"

// Config represents the configuration of the HTTP API service.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	IP    string            `long:"ip" description:"bind to address"`
	Port  int               `long:"port" description:"bind on port"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
		IP:    "0.0.0.0",
		Port:  1793,
	}
}
