// Package goose integrates MCP servers into Goose's YAML configuration.
//
// Servers live under the extensions mapping of
// $XDG_CONFIG_HOME/goose/config.yaml:
//
//	extensions:
//	  github:
//	    enabled: true
//	    type: stdio
//	    name: github
//	    cmd: npx
//	    args: ["-y", "@modelcontextprotocol/server-github"]
//	    env_keys: ["GITHUB_TOKEN"]
//
// Only variable names are stored; Goose resolves their values when it
// launches the extension.
package goose
