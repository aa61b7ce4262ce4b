// Package config provides configuration management for the mcpsync CLI.
//
// This package handles loading and validating mcpsync's own configuration
// file. It is distinct from the client configuration files (Codex TOML,
// Goose YAML) which are managed by the client adapters.
//
// # Configuration File
//
// The default configuration file location is ~/.config/mcpsync/config.yaml.
// Every key may also be set from the environment with the MCPSYNC_ prefix.
//
//	version: 1
//	default_clients: [codex, claude, goose]
//	registry_dir: ~/mcp/curated   # optional
//	env_files: [~/.config/mcpsync/secrets.env]
//	clients:
//	  codex:  { config_path: "", missing_env: warn }
//	  claude: { scope: user, missing_env: fail, binary: claude }
//	  goose:  { config_path: "", missing_env: warn }
//
// # Loading Configuration
//
// Call [Init] once before [Load]. An empty path searches the default
// locations and falls back to defaults when no file exists:
//
//	config.Init()
//	cfg, err := config.Load("")
//
// Loaded configurations are validated with [Validate].
package config
