// Package integration applies integrate and disintegrate requests across
// servers and clients.
//
// A [Dispatcher] resolves a [mcp.ServerSpec] for every requested name,
// either from the request itself or from a registry, and hands it to each
// requested client in turn. Work runs sequentially in request order. A
// failure is recorded against its (client, name) pair and never stops the
// remaining pairs; the resulting [Report] says whether anything failed.
package integration
