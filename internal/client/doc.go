// Package client defines the contract shared by client adapters and wires
// the concrete adapters together.
//
// A [Client] adds and removes MCP servers in one AI assistant's
// configuration. The [Registry] maps client names to lazily built adapters;
// [NewRegistry] builds one from the application config so every adapter
// sees the same environment lookup, home directory and registry.
//
// # Client Detection
//
// Use a [Detector] to report whether a client appears to be installed:
//
//	d := &client.Detector{Home: home}
//	for _, result := range d.DetectAll() {
//	    fmt.Printf("%s: %s (%s)\n", result.Name, result.Status, result.Location)
//	}
package client
