package am

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. CTM_DATABASE_PATH
	EnvPrefix = "CTM"

	// ConfigFileName is the name searched for in the project and user dirs
	ConfigFileName = "ctm.toml"

	// UserConfigDir is created under the home directory
	UserConfigDir = ".ctm"

	// DefaultDirPermissions is used for ~/.ctm
	DefaultDirPermissions = 0o755
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())

	v.SetDefault("tables.builtin", true)
	v.SetDefault("tables.paths", []string{})
	v.SetDefault("tables.watch", false)

	v.SetDefault("display.round", true)
	v.SetDefault("display.format", FormatText)

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.rate_limit", 50.0)
	v.SetDefault("server.burst", 100)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// DefaultDatabasePath is ~/.ctm/ctm.db, or ctm.db when there is no home
// directory
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ctm.db"
	}
	return filepath.Join(home, UserConfigDir, "ctm.db")
}
