package claude

import (
	"context"
	"log/slog"
	"os/exec"
	"regexp"
	"slices"
	"strings"

	"github.com/thoreinstein/mcpsync/internal/envresolve"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/internal/redact"
	"github.com/thoreinstein/mcpsync/internal/shellcmd"
)

// Name is the client identifier.
const Name = paths.ClientClaude

// DefaultBinary is the executable invoked when no other is configured.
const DefaultBinary = "claude"

// Scope selects which Claude configuration a server is registered in.
type Scope string

const (
	ScopeUser      Scope = "user"
	ScopeWorkspace Scope = "workspace"
	// ScopeNone omits the --scope flag.
	ScopeNone Scope = ""
)

// ParseScope converts a config value into a Scope. "none" selects
// ScopeNone.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(s))); sc {
	case ScopeUser, ScopeWorkspace, ScopeNone:
		return sc, nil
	case "none":
		return ScopeNone, nil
	}
	return "", errors.Newf("unknown claude scope %q (want user or workspace)", s)
}

var listLine = regexp.MustCompile(`^([A-Za-z0-9_-]+):`)

// notConfigured matches the messages claude prints when removing a server
// it does not know.
var notConfigured = regexp.MustCompile(`(?i)no (mcp )?server|not found`)

// Adapter integrates servers by delegating to the claude CLI.
type Adapter struct {
	runner Runner
	binary string
	scope  Scope
	lookup envresolve.LookupFunc
	home   string
	policy envresolve.MissingPolicy
	logger *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

func WithRunner(r Runner) Option {
	return func(a *Adapter) { a.runner = r }
}

func WithScope(s Scope) Option {
	return func(a *Adapter) { a.scope = s }
}

func WithLookup(lookup envresolve.LookupFunc) Option {
	return func(a *Adapter) { a.lookup = lookup }
}

func WithHome(home string) Option {
	return func(a *Adapter) { a.home = home }
}

func WithMissingPolicy(p envresolve.MissingPolicy) Option {
	return func(a *Adapter) { a.policy = p }
}

// WithBinary sets the claude executable name or path.
func WithBinary(binary string) Option {
	return func(a *Adapter) { a.binary = binary }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// New returns an Adapter registering servers in the user scope and
// failing on missing required variables unless configured otherwise.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		binary: DefaultBinary,
		scope:  ScopeUser,
		policy: envresolve.PolicyFail,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.runner == nil {
		a.runner = NewExecRunner()
	}
	if a.binary == "" {
		a.binary = DefaultBinary
	}
	if a.lookup == nil {
		a.lookup = envresolve.OSLookup()
	}
	if a.home == "" {
		a.home = paths.Home()
	}
	return a
}

func (a *Adapter) Name() string { return Name }

// Binary returns the claude executable the adapter runs.
func (a *Adapter) Binary() string { return a.binary }

// Scope returns the scope servers are added to.
func (a *Adapter) Scope() Scope { return a.scope }

// LookPath reports the resolved path of the claude executable.
func (a *Adapter) LookPath() (string, error) {
	return exec.LookPath(a.binary)
}

func (a *Adapter) log(ctx context.Context) *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return logging.FromContext(ctx)
}

// run invokes claude and converts a non-zero exit into an
// *errors.ExternalToolError.
func (a *Adapter) run(ctx context.Context, args ...string) (Result, error) {
	a.log(ctx).Debug("running claude", "binary", a.binary, "args", redact.Args(args))
	res, err := a.runner.Run(ctx, a.binary, args...)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		return res, &errors.ExternalToolError{
			Tool:     a.binary,
			Args:     redact.Args(args),
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return res, nil
}

// ParseList extracts server names from `claude mcp list` output. Lines
// are expected to look like "name: command - ✓ Connected".
func ParseList(out string) []string {
	names := []string{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Checking") {
			continue
		}
		if m := listLine.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

// ListScope runs `claude mcp list`, restricted to scope unless it is
// ScopeNone.
func (a *Adapter) ListScope(ctx context.Context, scope Scope) ([]string, error) {
	args := []string{"mcp", "list"}
	if scope != ScopeNone {
		args = append(args, "--scope="+string(scope))
	}
	res, err := a.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return ParseList(res.Stdout), nil
}

// ListScopes lists the user and workspace scopes. When both are empty the
// unscoped listing is reported under ScopeUser.
func (a *Adapter) ListScopes(ctx context.Context) (map[Scope][]string, error) {
	user, err := a.ListScope(ctx, ScopeUser)
	if err != nil {
		return nil, err
	}
	workspace, err := a.ListScope(ctx, ScopeWorkspace)
	if err != nil {
		return nil, err
	}
	if len(user) == 0 && len(workspace) == 0 {
		all, err := a.ListScope(ctx, ScopeNone)
		if err != nil {
			return nil, err
		}
		return map[Scope][]string{ScopeUser: all, ScopeWorkspace: {}}, nil
	}
	return map[Scope][]string{ScopeUser: user, ScopeWorkspace: workspace}, nil
}

// List returns every server name across scopes, user scope first, without
// duplicates.
func (a *Adapter) List(ctx context.Context) ([]string, error) {
	scopes, err := a.ListScopes(ctx)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, scope := range []Scope{ScopeUser, ScopeWorkspace} {
		for _, name := range scopes[scope] {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// Servers describes every listed server. The claude CLI does not report
// commands in a stable format, so only names and scopes are filled in.
func (a *Adapter) Servers(ctx context.Context) ([]mcp.Server, error) {
	scopes, err := a.ListScopes(ctx)
	if err != nil {
		return nil, err
	}
	var out []mcp.Server
	seen := map[string]bool{}
	for _, scope := range []Scope{ScopeUser, ScopeWorkspace} {
		for _, name := range scopes[scope] {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, mcp.Server{Name: name, Client: Name, Enabled: true, Scope: string(scope)})
		}
	}
	return out, nil
}

// AddArgs builds the `claude mcp add` argument list for spec with the given
// resolved values.
func (a *Adapter) AddArgs(spec mcp.ServerSpec, cmd shellcmd.Command, keys []string, values map[string]string) []string {
	args := []string{"mcp", "add", spec.Name}
	if a.scope != ScopeNone {
		args = append(args, "--scope", string(a.scope))
	}
	for _, key := range keys {
		if v, ok := values[key]; ok {
			args = append(args, "-e", key+"="+v)
		}
	}
	args = append(args, "--")
	return append(args, cmd.Argv()...)
}

// Integrate registers spec with `claude mcp add`. Resolved variables are
// passed as -e KEY=VALUE. It returns true when claude exits zero.
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

	if _, err := a.run(ctx, a.AddArgs(spec, cmd, res.Keys, res.Values)...); err != nil {
		return false, err
	}
	logger.Info("integrated server", "scope", string(a.scope))
	return true, nil
}

// Disintegrate runs `claude mcp remove`. It returns false when claude
// reports that the server is not configured.
func (a *Adapter) Disintegrate(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, &errors.InvalidSpecError{Field: "name", Reason: "is required"}
	}
	logger := a.log(ctx).With("client", Name, "server", name)

	args := []string{"mcp", "remove", name}
	if a.scope != ScopeNone {
		args = append(args, "--scope", string(a.scope))
	}
	res, err := a.run(ctx, args...)
	if err != nil {
		var toolErr *errors.ExternalToolError
		if errors.As(err, &toolErr) && notConfigured.MatchString(res.Stderr+res.Stdout) {
			logger.Debug("server not configured")
			return false, nil
		}
		return false, err
	}
	logger.Info("removed server", "scope", string(a.scope))
	return true, nil
}
