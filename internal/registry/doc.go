// Package registry looks up server definitions by name.
//
// The only built-in source is [Curated], a directory of YAML files, one per
// server:
//
//	name: github
//	description: GitHub issues and pull requests
//	command: npx -y @modelcontextprotocol/server-github
//	env_keys: [GITHUB_TOKEN]
//	metadata:
//	  clients:
//	    codex:
//	      command: docker run -i --rm ghcr.io/github/github-mcp-server
//	      env_keys: [GITHUB_PERSONAL_ACCESS_TOKEN]
//
// A [Resolver] chains several sources; the first source that knows a name
// wins.
package registry
