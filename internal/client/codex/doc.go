// Package codex manages MCP servers in the Codex CLI configuration file
// (~/.codex/config.toml, falling back to ~/.codex/mcp.toml).
//
// Servers live under the mcp_servers table:
//
//	[mcp_servers.github]
//	command = "docker"
//	args = ["run", "--pull=always", "-i", "--rm", "-e", "GITHUB_TOKEN", "ghcr.io/github/github-mcp-server"]
//
// Codex filters the environment it passes to servers through
// shell_environment_policy.include_only, so the adapter keeps that
// allow-list in step with the variables each server needs: it is extended
// on integrate and pruned on disintegrate. See [EnsurePolicy] and
// [PrunePolicy].
package codex
