// Package claude integrates MCP servers through the claude command-line
// tool (`claude mcp add|remove|list`).
package claude
