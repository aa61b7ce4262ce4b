package client

import (
	"log/slog"

	"github.com/thoreinstein/mcpsync/internal/client/claude"
	"github.com/thoreinstein/mcpsync/internal/client/codex"
	"github.com/thoreinstein/mcpsync/internal/client/goose"
	"github.com/thoreinstein/mcpsync/internal/config"
	"github.com/thoreinstein/mcpsync/internal/envresolve"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/internal/store"
)

// Options carries the dependencies shared by every adapter.
type Options struct {
	// Config supplies per-client settings. Nil means config.Default().
	Config *config.Config

	// Home is the user's home directory. Empty means paths.Home().
	Home string

	// Lookup resolves environment values. Nil means the process environment.
	Lookup envresolve.LookupFunc

	// Registry is consulted by the Codex adapter when pruning variables.
	Registry codex.Finder

	// Runner executes the claude binary. Nil means os/exec.
	Runner claude.Runner

	// Logger overrides the logger carried by the call context.
	Logger *slog.Logger
}

// NewRegistry returns a Registry holding the codex, claude and goose
// adapters configured from opts. Invalid per-client settings are reported
// when the client is first requested.
func NewRegistry(opts Options) *Registry {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Home == "" {
		opts.Home = paths.Home()
	}
	if opts.Lookup == nil {
		opts.Lookup = envresolve.OSLookup()
	}

	r := NewEmptyRegistry()
	// Names are valid and unique, so registration cannot fail.
	_ = r.Register(paths.ClientCodex, func() (Client, error) { return newCodex(opts) })
	_ = r.Register(paths.ClientClaude, func() (Client, error) { return newClaude(opts) })
	_ = r.Register(paths.ClientGoose, func() (Client, error) { return newGoose(opts) })
	return r
}

func policyFor(opts Options, name string, def envresolve.MissingPolicy) (envresolve.MissingPolicy, error) {
	p, err := envresolve.ParsePolicy(opts.Config.Client(name).MissingEnv, def)
	if err != nil {
		return "", errors.Wrapf(err, "clients.%s.missing_env", name)
	}
	return p, nil
}

func newCodex(opts Options) (Client, error) {
	policy, err := policyFor(opts, paths.ClientCodex, envresolve.PolicyWarn)
	if err != nil {
		return nil, err
	}
	path := opts.Config.Client(paths.ClientCodex).ConfigPath
	if path == "" {
		path = codex.DefaultConfigPath(opts.Home)
	}

	copts := []codex.Option{
		codex.WithStore(store.NewTOML(paths.ExpandHome(path, opts.Home))),
		codex.WithLookup(opts.Lookup),
		codex.WithHome(opts.Home),
		codex.WithMissingPolicy(policy),
	}
	if opts.Registry != nil {
		copts = append(copts, codex.WithRegistry(opts.Registry))
	}
	if opts.Logger != nil {
		copts = append(copts, codex.WithLogger(opts.Logger))
	}
	return codex.New(copts...), nil
}

func newGoose(opts Options) (Client, error) {
	policy, err := policyFor(opts, paths.ClientGoose, envresolve.PolicyWarn)
	if err != nil {
		return nil, err
	}
	path := opts.Config.Client(paths.ClientGoose).ConfigPath
	if path == "" {
		path = goose.DefaultConfigPath(opts.Home, opts.Lookup)
	}

	gopts := []goose.Option{
		goose.WithStore(store.NewYAML(paths.ExpandHome(path, opts.Home))),
		goose.WithLookup(opts.Lookup),
		goose.WithHome(opts.Home),
		goose.WithMissingPolicy(policy),
	}
	if opts.Logger != nil {
		gopts = append(gopts, goose.WithLogger(opts.Logger))
	}
	return goose.New(gopts...), nil
}

func newClaude(opts Options) (Client, error) {
	policy, err := policyFor(opts, paths.ClientClaude, envresolve.PolicyFail)
	if err != nil {
		return nil, err
	}
	cc := opts.Config.Client(paths.ClientClaude)
	scope, err := claude.ParseScope(cc.Scope)
	if err != nil {
		return nil, errors.Wrap(err, "clients.claude.scope")
	}

	copts := []claude.Option{
		claude.WithScope(scope),
		claude.WithBinary(cc.Binary),
		claude.WithLookup(opts.Lookup),
		claude.WithHome(opts.Home),
		claude.WithMissingPolicy(policy),
	}
	if opts.Runner != nil {
		copts = append(copts, claude.WithRunner(opts.Runner))
	}
	if opts.Logger != nil {
		copts = append(copts, claude.WithLogger(opts.Logger))
	}
	return claude.New(copts...), nil
}
