// Package mcp defines the client-neutral description of an MCP server.
//
// A [ServerSpec] is what the user asks for: a name, a one-line command and
// the environment variables the server needs. Client adapters translate it
// into their own configuration format. A [Server] is the reverse view: an
// entry as it currently exists in a client's configuration.
//
//	spec := mcp.ServerSpec{
//	    Name:    "github",
//	    Command: "npx -y @modelcontextprotocol/server-github",
//	    EnvKeys: []string{"GITHUB_TOKEN"},
//	}
//	if err := spec.Validate(); err != nil {
//	    return err
//	}
//
// Specs that come from a registry entry are built with [FromRegistry], which
// applies the entry's per-client overrides.
package mcp
