package client

import (
	"context"

	"github.com/thoreinstein/mcpsync/internal/mcp"
)

// Client is implemented by every client adapter.
//
// Integrate and Disintegrate report whether the client's configuration
// changed. Both are idempotent: repeating a call that already took effect
// returns false and leaves the configuration untouched.
type Client interface {
	// Name returns the client identifier (codex, claude, goose).
	Name() string

	// List returns the names of the configured servers.
	List(ctx context.Context) ([]string, error)

	// Integrate adds or updates spec.
	Integrate(ctx context.Context, spec mcp.ServerSpec) (bool, error)

	// Disintegrate removes the server called name.
	Disintegrate(ctx context.Context, name string) (bool, error)
}

// Inspector is implemented by clients that can describe their configured
// servers in detail.
type Inspector interface {
	Servers(ctx context.Context) ([]mcp.Server, error)
}

// FileBacked is implemented by clients that edit a configuration file.
type FileBacked interface {
	ConfigPath() string
}
