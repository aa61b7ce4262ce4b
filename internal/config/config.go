// Package config provides configuration management for mcpsync using Viper.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// DirEnv overrides the directory searched for config.yaml.
const DirEnv = "MCPSYNC_CONFIG_DIR"

// Missing-env policy values accepted in clients.<name>.missing_env.
const (
	PolicyFail = "fail"
	PolicyWarn = "warn"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version        int                     `mapstructure:"version" yaml:"version"`
	DefaultClients []string                `mapstructure:"default_clients" yaml:"default_clients"`
	RegistryDir    string                  `mapstructure:"registry_dir" yaml:"registry_dir"`
	EnvFiles       []string                `mapstructure:"env_files" yaml:"env_files"`
	Clients        map[string]ClientConfig `mapstructure:"clients" yaml:"clients"`
}

// ClientConfig holds per-client overrides. Fields that do not apply to a
// client are ignored (claude has no config_path, codex and goose no scope).
type ClientConfig struct {
	ConfigPath string `mapstructure:"config_path" yaml:"config_path"`
	MissingEnv string `mapstructure:"missing_env" yaml:"missing_env"`
	Scope      string `mapstructure:"scope" yaml:"scope"`
	Binary     string `mapstructure:"binary" yaml:"binary"`
}

// Init initializes Viper with default configuration.
// It resets any previous Viper state, so it is safe to call more than once.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if dir := os.Getenv(DirEnv); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.AppConfigDir())

	viper.SetEnvPrefix("MCPSYNC")
	viper.AutomaticEnv()

	for key, value := range defaults() {
		viper.SetDefault(key, value)
	}
}

func defaults() map[string]any {
	return map[string]any{
		"version":                    1,
		"default_clients":            paths.Clients(),
		"registry_dir":               "",
		"env_files":                  []string{},
		"clients.codex.missing_env":  PolicyWarn,
		"clients.claude.missing_env": PolicyFail,
		"clients.claude.scope":       "user",
		"clients.claude.binary":      "claude",
		"clients.goose.missing_env":  PolicyWarn,
	}
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file and a missing file
// is an error. If path is empty, the default locations are searched and a
// missing file yields the defaults. The result is validated.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// implicit load falls back to defaults
		case path != "" && isMissing(path):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "validating config")
	}

	return &cfg, nil
}

// FileUsed returns the config file read by the last Load, or "" when the
// defaults applied.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

func isMissing(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

// Default returns the configuration produced by the built-in defaults alone.
func Default() *Config {
	return &Config{
		Version:        1,
		DefaultClients: paths.Clients(),
		Clients: map[string]ClientConfig{
			paths.ClientCodex:  {MissingEnv: PolicyWarn},
			paths.ClientClaude: {MissingEnv: PolicyFail, Scope: "user", Binary: "claude"},
			paths.ClientGoose:  {MissingEnv: PolicyWarn},
		},
	}
}

// Client returns the settings for the named client, filling any blank field
// from the built-in defaults.
func (c *Config) Client(name string) ClientConfig {
	def := Default().Clients[name]
	if c == nil {
		return def
	}
	cc := c.Clients[name]
	if cc.MissingEnv == "" {
		cc.MissingEnv = def.MissingEnv
	}
	if cc.Binary == "" {
		cc.Binary = def.Binary
	}
	if cc.Scope == "" {
		cc.Scope = def.Scope
	}
	return cc
}

// CuratedDir returns the registry directory with "~" expanded, or the
// default curated directory when unset.
func (c *Config) CuratedDir(home string) string {
	if c == nil || c.RegistryDir == "" {
		return paths.CuratedDir()
	}
	return filepath.Clean(paths.ExpandHome(c.RegistryDir, home))
}

// EnvFilePaths returns env_files with "~" expanded.
func (c *Config) EnvFilePaths(home string) []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.EnvFiles))
	for _, f := range c.EnvFiles {
		if f == "" {
			continue
		}
		out = append(out, paths.ExpandHome(f, home))
	}
	return out
}
