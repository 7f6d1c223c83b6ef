package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.ctm/ctm.toml
	SourceProject     ConfigSource = "project"     // nearest ctm.toml
	SourceEnvironment ConfigSource = "environment" // CTM_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// ConfigIntrospection describes the active configuration
type ConfigIntrospection struct {
	ConfigFiles []string      `json:"config_files"`
	Settings    []SettingInfo `json:"settings"`
}

// ConfigSources maps dotted keys to the file that last set them
var ConfigSources = make(map[string]SourceInfo)

var loadedFiles []string

func trackSources(settings map[string]interface{}, prefix string, info SourceInfo) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			trackSources(nested, fullKey, info)
			continue
		}
		ConfigSources[fullKey] = info
	}
}

// EnvKey returns the environment variable that overrides key
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// GetConfigIntrospection returns every effective setting with its source
func GetConfigIntrospection() *ConfigIntrospection {
	v := GetViper()

	introspection := &ConfigIntrospection{
		ConfigFiles: ConfigFilesUsed(),
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[key]; ok {
			info = si
		}
		if env := EnvKey(key); os.Getenv(env) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: env}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}

	return introspection
}
