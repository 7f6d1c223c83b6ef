package am

import (
	"github.com/smuchow1962/conversion-table-manager/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port != nil && *c.Server.Port == 0 {
		return errors.Newf("server.port cannot be 0 (omit for default port %d)", DefaultServerPort)
	}
	if c.Server.Port != nil && (*c.Server.Port < 0 || *c.Server.Port > 65535) {
		return errors.Newf("server.port must be between 1 and 65535, got %d", *c.Server.Port)
	}

	// Rate limit: 0 = unlimited, negative = invalid
	if c.Server.RateLimit < 0 {
		return errors.Newf("server.rate_limit must be >= 0, got %f", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return errors.Newf("server.burst must be >= 1 when rate limiting, got %d", c.Server.Burst)
	}

	switch c.Display.Format {
	case FormatText, FormatJSON:
	default:
		return errors.Newf("display.format must be %q or %q, got %q", FormatText, FormatJSON, c.Display.Format)
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	if c.Tables.Watch && len(c.Tables.Paths) == 0 {
		return errors.WithHint(
			errors.New("tables.watch is set but tables.paths is empty"),
			"add a file or directory to tables.paths",
		)
	}

	for i, p := range c.Tables.Paths {
		if p == "" {
			return errors.Newf("tables.paths[%d] is empty", i)
		}
	}

	return nil
}
