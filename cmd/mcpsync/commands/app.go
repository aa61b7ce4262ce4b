package commands

import (
	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/client/claude"
	"github.com/thoreinstein/mcpsync/internal/config"
	"github.com/thoreinstein/mcpsync/internal/envresolve"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/integration"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/internal/registry"
)

// app holds the long-lived collaborators shared by the subcommands.
type app struct {
	home       string
	lookup     envresolve.LookupFunc
	curated    *registry.Curated
	resolver   *registry.Resolver
	clients    *client.Registry
	dispatcher *integration.Dispatcher
}

// newApp wires the registry, the adapters and the dispatcher from cfg.
// Values from env_files and --env-file apply only to variables the process
// environment leaves unset or empty.
func newApp(cfg *config.Config, envFiles []string, runner claude.Runner) (*app, error) {
	home := paths.Home()

	lookup := envresolve.OSLookup()
	files := append(cfg.EnvFilePaths(home), envFiles...)
	if len(files) > 0 {
		dotenv, err := envresolve.FromDotenv(files...)
		if err != nil {
			return nil, errors.NewUserError(err, "Check env_files in the config and any --env-file paths")
		}
		lookup = envresolve.Chain(lookup, dotenv)
	}

	curated := registry.NewCurated(cfg.CuratedDir(home))
	resolver := registry.NewResolver(curated)

	clients := client.NewRegistry(client.Options{
		Config:   cfg,
		Home:     home,
		Lookup:   lookup,
		Registry: resolver,
		Runner:   runner,
	})

	dispatcher := integration.New(clients, resolver, integration.WithDefaultClients(cfg.DefaultClients))

	return &app{
		home:       home,
		lookup:     lookup,
		curated:    curated,
		resolver:   resolver,
		clients:    clients,
		dispatcher: dispatcher,
	}, nil
}
