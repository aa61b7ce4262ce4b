// Package backup keeps a one-time safety copy of client configuration files.
//
// The first time mcpsync rewrites a file it copies the original next to it
// with a ".bak" suffix:
//
//	~/.codex/config.toml      -> ~/.codex/config.toml.bak
//	~/.config/goose/config.yaml -> ~/.config/goose/config.yaml.bak
//
// Later writes leave an existing ".bak" untouched, so the sidecar always
// holds the file as it was before mcpsync first touched it. Restoring is a
// plain copy back; see [Restore].
package backup
