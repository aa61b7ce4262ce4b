package codex

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/thoreinstein/mcpsync/internal/dockerrun"
	"github.com/thoreinstein/mcpsync/internal/envresolve"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/internal/registry"
	"github.com/thoreinstein/mcpsync/internal/shellcmd"
	"github.com/thoreinstein/mcpsync/internal/store"
)

// Name is the client identifier.
const Name = paths.ClientCodex

// Finder looks up registry entries. *registry.Resolver satisfies it.
type Finder interface {
	Find(ctx context.Context, name string) (*registry.Entry, error)
}

// Entry is a server as stored under mcp_servers.
type Entry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// apply writes the managed fields of e over base. Other keys of an existing
// table, such as startup_timeout_ms, are kept.
func (e Entry) apply(base map[string]any) map[string]any {
	m := maps.Clone(base)
	if m == nil {
		m = map[string]any{}
	}
	m[commandField] = e.Command
	if len(e.Args) > 0 {
		m[argsField] = toAny(e.Args)
	} else {
		delete(m, argsField)
	}
	if len(e.Env) > 0 {
		env := make(map[string]any, len(e.Env))
		for k, v := range e.Env {
			env[k] = v
		}
		m[envField] = env
	} else {
		delete(m, envField)
	}
	return m
}

func entryFromMap(m map[string]any) *Entry {
	e := &Entry{Args: store.Strings(m[argsField])}
	e.Command, _ = m[commandField].(string)
	if env, ok := store.Section(m, envField); ok {
		e.Env = make(map[string]string, len(env))
		for k, v := range env {
			if s, ok := v.(string); ok {
				e.Env[k] = s
			}
		}
	}
	return e
}

// Adapter integrates servers into a Codex TOML file.
type Adapter struct {
	store    *store.Store
	lookup   envresolve.LookupFunc
	home     string
	policy   envresolve.MissingPolicy
	registry Finder
	logger   *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithStore sets the backing store. The default is a TOML store at
// DefaultConfigPath(home).
func WithStore(s *store.Store) Option {
	return func(a *Adapter) { a.store = s }
}

// WithLookup sets where ambient environment values come from.
func WithLookup(lookup envresolve.LookupFunc) Option {
	return func(a *Adapter) { a.lookup = lookup }
}

// WithHome sets the directory used for "~" and $HOME expansion.
func WithHome(home string) Option {
	return func(a *Adapter) { a.home = home }
}

// WithMissingPolicy sets the policy for unset required variables.
func WithMissingPolicy(p envresolve.MissingPolicy) Option {
	return func(a *Adapter) { a.policy = p }
}

// WithRegistry sets the registry consulted for curated env keys on
// disintegrate.
func WithRegistry(f Finder) Option {
	return func(a *Adapter) { a.registry = f }
}

// WithLogger sets the logger. By default the logger carried by the call's
// context is used.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// DefaultConfigPath returns ~/.codex/config.toml when it exists, otherwise
// ~/.codex/mcp.toml.
func DefaultConfigPath(home string) string {
	return paths.CodexConfigPath(home)
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
		a.store = store.NewTOML(DefaultConfigPath(a.home))
	}
	return a
}

// Name returns "codex".
func (a *Adapter) Name() string { return Name }

// ConfigPath returns the file the adapter manages.
func (a *Adapter) ConfigPath() string { return a.store.Path() }

func (a *Adapter) log(ctx context.Context) *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return logging.FromContext(ctx)
}

// List returns the configured server names in sorted order.
func (a *Adapter) List(_ context.Context) ([]string, error) {
	doc, err := a.store.Read()
	if err != nil {
		return nil, err
	}
	servers, _ := store.Section(doc, serversKey)
	return store.Keys(servers), nil
}

// Get returns the entry for name, or an error matching errors.ErrNotFound.
func (a *Adapter) Get(_ context.Context, name string) (*Entry, error) {
	doc, err := a.store.Read()
	if err != nil {
		return nil, err
	}
	raw, ok := lookupServer(doc, name)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "codex server %q", name)
	}
	return entryFromMap(raw), nil
}

// Servers describes every configured server.
func (a *Adapter) Servers(_ context.Context) ([]mcp.Server, error) {
	doc, err := a.store.Read()
	if err != nil {
		return nil, err
	}
	servers, _ := store.Section(doc, serversKey)
	out := make([]mcp.Server, 0, len(servers))
	for _, name := range store.Keys(servers) {
		raw, ok := store.Section(servers, name)
		if !ok {
			continue
		}
		e := entryFromMap(raw)
		out = append(out, mcp.Server{
			Name:    name,
			Client:  Name,
			Command: e.Command,
			Args:    e.Args,
			Env:     e.Env,
			EnvKeys: ReferencedKeys(raw),
			Enabled: true,
		})
	}
	return out, nil
}

// AllowList returns shell_environment_policy.include_only.
func (a *Adapter) AllowList(_ context.Context) ([]string, error) {
	doc, err := a.store.Read()
	if err != nil {
		return nil, err
	}
	return AllowList(doc), nil
}

// MissingFromAllowList returns the variables referenced by configured
// servers that include_only does not list, in server order.
func (a *Adapter) MissingFromAllowList(_ context.Context) ([]string, error) {
	doc, err := a.store.Read()
	if err != nil {
		return nil, err
	}
	allow := AllowList(doc)
	var missing []string
	for _, key := range referencedByAll(doc) {
		if !slices.Contains(allow, key) {
			missing = append(missing, key)
		}
	}
	return missing, nil
}

// EnsureAllowList extends include_only with every variable a configured
// server references and writes the file when that changed it.
func (a *Adapter) EnsureAllowList(ctx context.Context) (bool, error) {
	doc, err := a.store.Read()
	if err != nil {
		return false, err
	}
	if !EnsurePolicy(doc, referencedByAll(doc)) {
		return false, nil
	}
	if err := a.store.Write(doc); err != nil {
		return false, err
	}
	a.log(ctx).Info("updated environment allow-list", "client", Name, "path", a.store.Path())
	return true, nil
}

// Integrate writes spec under mcp_servers, with every resolved variable in
// its env table, keeping any other keys of an existing table, and extends the allow-list with its variables. It returns
// false when the stored entry already matches; the allow-list is still
// brought up to date in that case.
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

	overrideKeys := slices.Sorted(maps.Keys(spec.Env))
	args := cmd.Args
	if dockerrun.Applies(cmd.Executable, args) {
		forwarded := mcp.UniqueKeys(append(slices.Clone(overrideKeys), spec.EnvKeys...))
		args = dockerrun.Rewrite(cmd.Executable, args, forwarded)
		logger.Debug("rewrote docker run arguments", "args", args)
	}

	doc, err := a.store.Read()
	if err != nil {
		return false, err
	}

	current, exists := lookupServer(doc, spec.Name)
	entry := Entry{Command: cmd.Executable, Args: args, Env: res.Values}.apply(current)

	policyKeys := spec.AllEnvKeys()
	if exists && store.Equal(compact(current), entry) {
		if EnsurePolicy(doc, policyKeys) {
			logger.Info("updated environment allow-list", "path", a.store.Path())
			if err := a.store.Write(doc); err != nil {
				return false, err
			}
		}
		logger.Debug("server already up to date")
		return false, nil
	}

	store.EnsureSection(doc, serversKey)[spec.Name] = entry
	EnsurePolicy(doc, policyKeys)
	if err := a.store.Write(doc); err != nil {
		return false, err
	}
	logger.Info("integrated server", "path", a.store.Path())
	return true, nil
}

// Disintegrate removes name from mcp_servers and prunes allow-list entries
// that no surviving server references. It returns false when name is not
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
	current, ok := lookupServer(doc, name)
	if !ok {
		logger.Debug("server not configured")
		return false, nil
	}

	keys := ReferencedKeys(current)
	keys = mcp.UniqueKeys(append(keys, a.curatedKeys(ctx, name)...))

	servers, _ := store.Section(doc, serversKey)
	delete(servers, name)

	referenced := referencedByAll(doc)
	if PrunePolicy(doc, keys, func(k string) bool { return slices.Contains(referenced, k) }) {
		logger.Debug("pruned environment allow-list")
	}

	if err := a.store.Write(doc); err != nil {
		return false, err
	}
	logger.Info("removed server", "path", a.store.Path())
	return true, nil
}

// curatedKeys returns the codex env keys the registry lists for name.
// Registry failures are ignored.
func (a *Adapter) curatedKeys(ctx context.Context, name string) []string {
	if a.registry == nil {
		return nil
	}
	entry, err := a.registry.Find(ctx, name)
	if err != nil || entry == nil {
		return nil
	}
	block := entry.ForClient(Name)
	return append(slices.Clone(block.EnvKeys), block.OptionalEnvKeys...)
}

// referencedByAll returns the variables referenced by every configured
// server, in server name order.
func referencedByAll(doc store.Document) []string {
	servers, _ := store.Section(doc, serversKey)
	var keys []string
	for _, name := range store.Keys(servers) {
		if raw, ok := store.Section(servers, name); ok {
			keys = append(keys, ReferencedKeys(raw)...)
		}
	}
	return dedupe(keys)
}

func lookupServer(doc store.Document, name string) (map[string]any, bool) {
	servers, ok := store.Section(doc, serversKey)
	if !ok {
		return nil, false
	}
	return store.Section(servers, name)
}

// compact drops empty args and env so they compare equal to omitted ones.
func compact(entry map[string]any) map[string]any {
	out := maps.Clone(entry)
	if args, ok := out[argsField].([]any); ok && len(args) == 0 {
		delete(out, argsField)
	}
	if env, ok := store.Section(out, envField); ok && len(env) == 0 {
		delete(out, envField)
	}
	return out
}
