// Package launchtime provides the single source of wall time for the
// engines, so time-dependent behaviour (trade timestamps, the LP
// unlock) can be driven from one place.
package launchtime

import "time"

// Svc is the wall clock time service.
type Svc struct {
	config Config
}

// New instantiates a new time service.
func New(conf Config) *Svc {
	return &Svc{config: conf}
}

// ReloadConf reloads the configuration.
func (s *Svc) ReloadConf(conf Config) {
	s.config = conf
}

// GetTimeNow returns the current UTC time, truncated to the second.
func (s *Svc) GetTimeNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
