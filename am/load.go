package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/smuchow1962/conversion-table-manager/errors"
)

var (
	globalConfig  *Config
	viperInstance *viper.Viper
)

// Load reads the configuration once and caches it
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of
// the defaults, ignoring other files and the environment
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = make(map[string]SourceInfo)
	loadedFiles = nil
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for ctm.toml by walking up the directory tree.
// Returns the path to the first file found, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// userConfig returns ~/.ctm/ctm.toml, or empty when there is no home
func userConfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, ConfigFileName)
}

// mergeConfigFiles merges configuration files in precedence order
// (user < project). Environment variables still win over both.
func mergeConfigFiles(v *viper.Viper) {
	type candidate struct {
		path   string
		source ConfigSource
	}
	candidates := []candidate{
		{userConfig(), SourceUser},
		{findProjectConfig(), SourceProject},
	}

	for _, c := range candidates {
		if c.path == "" {
			continue
		}
		if _, err := os.Stat(c.path); err != nil {
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(c.path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}

		settings := fileViper.AllSettings()
		if err := v.MergeConfigMap(settings); err != nil {
			continue
		}
		trackSources(settings, "", SourceInfo{Source: c.source, Path: c.path})
		loadedFiles = append(loadedFiles, c.path)
	}
}

// ConfigFilesUsed returns the files merged into the active configuration,
// lowest precedence first
func ConfigFilesUsed() []string {
	initViper()
	out := make([]string, len(loadedFiles))
	copy(out, loadedFiles)
	return out
}
