// Package config defines the frozen Settings record loaded once at startup,
// read from a YAML key/value file on top of built-in defaults. Only the
// path of that file comes from the command line or the environment.
package config

import (
	"os"

	yaml "gopkg.in/yaml.v3"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
	types "github.com/mutablelogic/go-server/pkg/types"
)

// Settings is the complete, immutable startup configuration. Nothing in the
// server reloads it; a settings change requires a restart.
type Settings struct {
	HTTPVersion string `yaml:"http_version"`
	ServerName  string `yaml:"server_name"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`

	FileDir      string `yaml:"file_dir"`
	MetadataPath string `yaml:"metadata_path"`
	TemplatePath string `yaml:"template_path"`

	MetadataIDKey   string `yaml:"metadata_id_key"`
	MetadataDataKey string `yaml:"metadata_data_key"`
}

// defaults mirror the required settings, tuned for a first run with
// no settings file at all.
func defaults() Settings {
	return Settings{
		HTTPVersion:     "HTTP/1.1",
		ServerName:      "filebox",
		Host:            "localhost",
		Port:            8087,
		FileDir:         "./data/files",
		MetadataPath:    "./data/metadata.json",
		TemplatePath:    "./data/templates.json",
		MetadataIDKey:   "currentId",
		MetadataDataKey: "data",
	}
}

// Load reads a YAML settings file at path, overlaying it onto defaults. A
// missing file is not an error; the defaults are returned unchanged.
func Load(path string) (Settings, error) {
	s := defaults()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return Settings{}, ferrors.ConfigError("config: cannot read settings file: " + err.Error())
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, ferrors.ConfigError("config: cannot parse settings file: " + err.Error())
	}
	return s, s.validate()
}

// validate enforces that every required setting is non-empty and well-formed.
func (s Settings) validate() error {
	switch {
	case s.HTTPVersion == "":
		return ferrors.ConfigError("config: http_version is required")
	case s.ServerName == "":
		return ferrors.ConfigError("config: server_name is required")
	case s.Host == "":
		return ferrors.ConfigError("config: host is required")
	case s.Port <= 0:
		return ferrors.ConfigError("config: port must be positive")
	case s.FileDir == "":
		return ferrors.ConfigError("config: file_dir is required")
	case s.MetadataPath == "":
		return ferrors.ConfigError("config: metadata_path is required")
	case s.TemplatePath == "":
		return ferrors.ConfigError("config: template_path is required")
	case s.MetadataIDKey == "":
		return ferrors.ConfigError("config: metadata_id_key is required")
	case s.MetadataDataKey == "":
		return ferrors.ConfigError("config: metadata_data_key is required")
	case !types.IsIdentifier(s.MetadataIDKey):
		return ferrors.ConfigError("config: metadata_id_key must be a valid identifier")
	case !types.IsIdentifier(s.MetadataDataKey):
		return ferrors.ConfigError("config: metadata_data_key must be a valid identifier")
	}
	return nil
}
