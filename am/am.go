// Package am loads ctm's configuration: built-in defaults, then
// ~/.ctm/ctm.toml, then the nearest ctm.toml walking up from the working
// directory, then CTM_* environment variables.
package am

// Config represents the ctm configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" yaml:"database" json:"database"`
	Tables   TablesConfig   `mapstructure:"tables" toml:"tables" yaml:"tables" json:"tables"`
	Display  DisplayConfig  `mapstructure:"display" toml:"display" yaml:"display" json:"display"`
	Server   ServerConfig   `mapstructure:"server" toml:"server" yaml:"server" json:"server"`
	Log      LogConfig      `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
}

// DatabaseConfig configures the SQLite table store
type DatabaseConfig struct {
	// Path is the SQLite file; empty disables the store
	Path string `mapstructure:"path" toml:"path" yaml:"path" json:"path"`
}

// TablesConfig selects where unit tables come from
type TablesConfig struct {
	// Builtin registers the shipped tables
	Builtin bool `mapstructure:"builtin" toml:"builtin" yaml:"builtin" json:"builtin"`
	// Paths lists table files or directories
	Paths []string `mapstructure:"paths" toml:"paths" yaml:"paths" json:"paths"`
	// Watch reloads Paths on change while serving
	Watch bool `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
}

// DisplayConfig controls CLI output. Round rounds results to the table's
// precision; Format is text or json.
type DisplayConfig struct {
	Round  bool   `mapstructure:"round" toml:"round" yaml:"round" json:"round"`
	Format string `mapstructure:"format" toml:"format" yaml:"format" json:"format"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	// Port: nil = DefaultServerPort, 0 is invalid
	Port *int `mapstructure:"port" toml:"port" yaml:"port" json:"port"`
	// RateLimit is requests per second; 0 = unlimited
	RateLimit float64 `mapstructure:"rate_limit" toml:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	Burst     int     `mapstructure:"burst" toml:"burst" yaml:"burst" json:"burst"`
}

// LogConfig configures the global logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"`
}

// DefaultServerPort is used when server.port is not set
const DefaultServerPort = 8777

// Display formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ServerPort returns the configured port or the default
func (c *Config) ServerPort() int {
	if c.Server.Port == nil {
		return DefaultServerPort
	}
	return *c.Server.Port
}

// StoreEnabled reports whether a database path is configured
func (c *Config) StoreEnabled() bool {
	return c.Database.Path != ""
}
