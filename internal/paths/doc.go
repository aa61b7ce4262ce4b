// Package paths resolves the locations of client configuration files and
// of mcpsync's own configuration.
//
// # XDG Base Directory Compliance
//
// mcpsync's own files live under the XDG config home as resolved by
// github.com/adrg/xdg:
//
//	paths.AppConfigDir()  // <ConfigHome>/mcpsync/
//	paths.CuratedDir()    // <ConfigHome>/mcpsync/curated/
//
// # Client Configuration Files
//
//	| Client | Store                  | Default location                             |
//	|--------|------------------------|----------------------------------------------|
//	| codex  | TOML                   | ~/.codex/config.toml (else ~/.codex/mcp.toml) |
//	| goose  | YAML                   | $XDG_CONFIG_HOME/goose/config.yaml           |
//	| claude | external `claude` CLI  | (none)                                       |
//
// Goose deliberately reads $XDG_CONFIG_HOME directly and falls back to
// ~/.config on every OS, matching where Goose itself looks.
//
// # Error Handling
//
// Functions that accept a client parameter return empty strings for
// unknown clients. Use [ValidClient] to check validity before calling.
package paths
