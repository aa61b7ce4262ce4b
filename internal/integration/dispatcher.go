package integration

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/internal/registry"
)

// ClientFactory returns the adapter for a client name. *client.Registry
// satisfies it.
type ClientFactory interface {
	Get(name string) (client.Client, error)
}

// SpecSource looks up server definitions. *registry.Resolver satisfies it.
type SpecSource interface {
	Find(ctx context.Context, name string) (*registry.Entry, error)
}

// Request names the servers and clients an operation applies to. Command
// and the env fields only matter for Integrate.
type Request struct {
	Names   []string
	Clients []string

	// Command, when set, defines the server directly and the registry is
	// not consulted.
	Command string

	// EnvKeys and OptionalEnvKeys are added to the spec's own lists.
	EnvKeys         []string
	OptionalEnvKeys []string

	// Env holds explicit values that take precedence over the environment.
	Env map[string]string
}

// Dispatcher runs requests against client adapters.
type Dispatcher struct {
	factory        ClientFactory
	source         SpecSource
	defaultClients []string
	logger         *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDefaultClients sets the clients used when a request names none.
func WithDefaultClients(clients []string) Option {
	return func(d *Dispatcher) { d.defaultClients = slices.Clone(clients) }
}

// WithLogger sets the logger. By default the logger carried by the call's
// context is used.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New returns a Dispatcher. source may be nil, in which case every request
// must carry a Command.
func New(factory ClientFactory, source SpecSource, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		factory:        factory,
		source:         source,
		defaultClients: paths.Clients(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) log(ctx context.Context) *slog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return logging.FromContext(ctx)
}

func (d *Dispatcher) clients(req Request) []string {
	if len(req.Clients) > 0 {
		return req.Clients
	}
	return d.defaultClients
}

// Integrate adds every requested server to every requested client.
func (d *Dispatcher) Integrate(ctx context.Context, req Request) *Report {
	report := &Report{}
	clients := d.clients(req)
	logger := d.log(ctx)

	for _, name := range req.Names {
		entry, err := d.lookup(ctx, name, req)
		if err != nil {
			logger.Debug("no spec for server", "server", name, "error", err)
			for _, c := range clients {
				report.add(c, name, false, err)
			}
			continue
		}

		for _, c := range clients {
			if err := ctx.Err(); err != nil {
				report.add(c, name, false, err)
				continue
			}
			adapter, err := d.factory.Get(c)
			if err != nil {
				report.add(c, name, false, err)
				continue
			}
			changed, err := adapter.Integrate(ctx, d.specFor(name, c, entry, req))
			report.add(c, name, changed, err)
		}
	}
	return report
}

// Disintegrate removes every requested server from every requested client.
func (d *Dispatcher) Disintegrate(ctx context.Context, req Request) *Report {
	report := &Report{}
	for _, name := range req.Names {
		for _, c := range d.clients(req) {
			if err := ctx.Err(); err != nil {
				report.add(c, name, false, err)
				continue
			}
			adapter, err := d.factory.Get(c)
			if err != nil {
				report.add(c, name, false, err)
				continue
			}
			changed, err := adapter.Disintegrate(ctx, name)
			report.add(c, name, changed, err)
		}
	}
	return report
}

// lookup returns the registry entry for name. It returns a nil entry and
// no error when the request carries its own command.
func (d *Dispatcher) lookup(ctx context.Context, name string, req Request) (*registry.Entry, error) {
	if req.Command != "" {
		return nil, nil
	}
	if d.source == nil {
		return nil, errors.Wrapf(errors.ErrSpecNotFound, "%q (no registry configured and no --command given)", name)
	}
	entry, err := d.source.Find(ctx, name)
	if errors.Is(err, errors.ErrNotFound) || (err == nil && entry == nil) {
		return nil, errors.Wrapf(errors.ErrSpecNotFound, "%q is not in the registry; pass --command to define it", name)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// specFor builds the spec for one client. Registry entries may carry
// per-client commands, so the spec is rebuilt for every client.
func (d *Dispatcher) specFor(name, clientName string, entry *registry.Entry, req Request) mcp.ServerSpec {
	spec := mcp.ServerSpec{Name: name, Command: req.Command}
	if entry != nil {
		spec = mcp.FromRegistry(entry, clientName)
		spec.Name = name
	}
	spec.EnvKeys = append(spec.EnvKeys, req.EnvKeys...)
	spec.OptionalEnvKeys = append(spec.OptionalEnvKeys, req.OptionalEnvKeys...)
	if len(req.Env) > 0 {
		if spec.Env == nil {
			spec.Env = map[string]string{}
		}
		maps.Copy(spec.Env, req.Env)
	}
	return spec
}
