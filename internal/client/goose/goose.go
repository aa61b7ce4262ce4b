package goose

import (
	"context"
	"log/slog"
	"maps"

	"github.com/thoreinstein/mcpsync/internal/envresolve"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/internal/shellcmd"
	"github.com/thoreinstein/mcpsync/internal/store"
)

// Name is the client identifier.
const Name = paths.ClientGoose

const (
	extensionsKey = "extensions"
	typeStdio     = "stdio"
)

// Extension is a server as stored under extensions.
type Extension struct {
	Enabled bool     `json:"enabled"`
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Cmd     string   `json:"cmd"`
	Args    []string `json:"args"`
	EnvKeys []string `json:"env_keys,omitempty"`
}

func extensionFromMap(m map[string]any) *Extension {
	e := &Extension{
		Args:    store.Strings(m["args"]),
		EnvKeys: store.Strings(m["env_keys"]),
	}
	e.Enabled, _ = m["enabled"].(bool)
	e.Type, _ = m["type"].(string)
	e.Name, _ = m["name"].(string)
	e.Cmd, _ = m["cmd"].(string)
	return e
}

// apply writes the managed fields of e over base. Keys Goose added on its
// own, such as timeout or description, are kept.
func (e Extension) apply(base map[string]any) map[string]any {
	out := maps.Clone(base)
	if out == nil {
		out = map[string]any{}
	}
	out["enabled"] = e.Enabled
	out["type"] = e.Type
	out["name"] = e.Name
	out["cmd"] = e.Cmd
	args := make([]any, len(e.Args))
	for i, a := range e.Args {
		args[i] = a
	}
	out["args"] = args
	if len(e.EnvKeys) > 0 {
		keys := make([]any, len(e.EnvKeys))
		for i, k := range e.EnvKeys {
			keys[i] = k
		}
		out["env_keys"] = keys
	} else {
		delete(out, "env_keys")
	}
	return out
}

// Adapter integrates servers into a Goose YAML file.
type Adapter struct {
	store  *store.Store
	lookup envresolve.LookupFunc
	home   string
	policy envresolve.MissingPolicy
	logger *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithStore sets the backing store.
func WithStore(s *store.Store) Option {
	return func(a *Adapter) { a.store = s }
}

// WithLookup sets where environment values come from. It is consulted for
// XDG_CONFIG_HOME and for the missing-variable check.
func WithLookup(lookup envresolve.LookupFunc) Option {
	return func(a *Adapter) { a.lookup = lookup }
}

// WithHome sets the home directory.
func WithHome(home string) Option {
	return func(a *Adapter) { a.home = home }
}

// WithMissingPolicy sets the policy for unset required variables.
func WithMissingPolicy(p envresolve.MissingPolicy) Option {
	return func(a *Adapter) { a.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/goose/config.yaml, or
// ~/.config/goose/config.yaml when XDG_CONFIG_HOME is unset.
func DefaultConfigPath(home string, lookup envresolve.LookupFunc) string {
	return paths.GooseConfigPath(home, lookup)
}

// New returns an Adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{policy: envresolve.PolicyWarn}
	for _, opt := range opts {
		opt(a)
	}
	if a.lookup == nil {
		a.lookup = envresolve.OSLookup()
	}
	if a.home == "" {
		a.home = paths.Home()
	}
	if a.store == nil {
		a.store = store.NewYAML(DefaultConfigPath(a.home, a.lookup))
	}
	return a
}

func (a *Adapter) Name() string { return Name }

// ConfigPath returns the file the adapter manages.
func (a *Adapter) ConfigPath() string { return a.store.Path() }

func (a *Adapter) log(ctx context.Context) *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return logging.FromContext(ctx)
}

// List returns the configured extension names in sorted order.
func (a *Adapter) List(_ context.Context) ([]string, error) {
	doc, err := a.store.Read()
	if err != nil {
		return nil, err
	}
	extensions, _ := store.Section(doc, extensionsKey)
	return store.Keys(extensions), nil
}

// Get returns the extension stored under name.
func (a *Adapter) Get(_ context.Context, name string) (*Extension, error) {
	doc, err := a.store.Read()
	if err != nil {
		return nil, err
	}
	extensions, _ := store.Section(doc, extensionsKey)
	raw, ok := store.Section(extensions, name)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "goose extension %q", name)
	}
	return extensionFromMap(raw), nil
}

// Servers describes every configured extension.
func (a *Adapter) Servers(_ context.Context) ([]mcp.Server, error) {
	doc, err := a.store.Read()
	if err != nil {
		return nil, err
	}
	extensions, _ := store.Section(doc, extensionsKey)
	out := make([]mcp.Server, 0, len(extensions))
	for _, name := range store.Keys(extensions) {
		raw, ok := store.Section(extensions, name)
		if !ok {
			continue
		}
		e := extensionFromMap(raw)
		out = append(out, mcp.Server{
			Name:    name,
			Client:  Name,
			Command: e.Cmd,
			Args:    e.Args,
			EnvKeys: e.EnvKeys,
			Enabled: e.Enabled,
		})
	}
	return out, nil
}

// Integrate writes spec as an enabled stdio extension. It returns false
// without writing when the stored extension already matches.
func (a *Adapter) Integrate(ctx context.Context, spec mcp.ServerSpec) (bool, error) {
	if err := spec.Validate(); err != nil {
		return false, err
	}
	spec = spec.Normalize()
	logger := a.log(ctx).With("client", Name, "server", spec.Name)

	cmd, err := shellcmd.Tokenize(spec.Command, a.home)
	if err != nil {
		return false, err
	}

	res := envresolve.New(a.lookup).Resolve(envresolve.Request{
		Required:  spec.EnvKeys,
		Optional:  spec.OptionalEnvKeys,
		Overrides: spec.Env,
	})
	if err := a.policy.Check(Name, res, logger); err != nil {
		return false, err
	}

	doc, err := a.store.Read()
	if err != nil {
		return false, err
	}
	extensions := store.EnsureSection(doc, extensionsKey)
	current, exists := store.Section(extensions, spec.Name)

	next := Extension{
		Enabled: true,
		Type:    typeStdio,
		Name:    spec.Name,
		Cmd:     cmd.Executable,
		Args:    cmd.Args,
		EnvKeys: mcp.UniqueKeys(append(append([]string{}, spec.EnvKeys...), spec.OptionalEnvKeys...)),
	}.apply(current)

	if exists && store.Equal(current, next) {
		logger.Debug("extension already up to date")
		return false, nil
	}

	extensions[spec.Name] = next
	if err := a.store.Write(doc); err != nil {
		return false, err
	}
	logger.Info("integrated extension", "path", a.store.Path())
	return true, nil
}

// Disintegrate deletes extensions.<name>. It returns false when name is not
// configured.
func (a *Adapter) Disintegrate(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, &errors.InvalidSpecError{Field: "name", Reason: "is required"}
	}
	logger := a.log(ctx).With("client", Name, "server", name)

	doc, err := a.store.Read()
	if err != nil {
		return false, err
	}
	extensions, ok := store.Section(doc, extensionsKey)
	if !ok {
		return false, nil
	}
	if _, ok := extensions[name]; !ok {
		logger.Debug("extension not configured")
		return false, nil
	}

	delete(extensions, name)
	if err := a.store.Write(doc); err != nil {
		return false, err
	}
	logger.Info("removed extension", "path", a.store.Path())
	return true, nil
}
