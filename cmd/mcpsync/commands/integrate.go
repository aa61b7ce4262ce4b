package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/integration"
)

type integrateOptions struct {
	command         string
	envKeys         []string
	optionalEnvKeys []string
	env             []string
}

func newIntegrateCmd(root *rootOptions) *cobra.Command {
	o := &integrateOptions{}
	c := &cobra.Command{
		Use:   "integrate NAME...",
		Short: "Add MCP servers to client configurations",
		Long: `Add or update MCP servers in the targeted clients.

Each NAME is looked up in the curated registry, which may define a different
command per client. Use --command to define a server that is not in the
registry; the command line is split the way a POSIX shell would split it.

Environment variables listed with --env-key must resolve, either from --env,
the process environment or an env file. What happens when one does not depends
on the client's missing_env policy. --optional-env-key variables are passed
through only when set.

Running the same integrate twice leaves every configuration untouched.`,
		Example: `  # Add a registry server to the default clients
  mcpsync integrate github

  # Add an ad-hoc docker server to Codex
  mcpsync integrate db --client codex \
    --command "docker run -i --rm ghcr.io/acme/db-mcp:latest" \
    --env-key DB_URL

  # Provide a value explicitly
  mcpsync integrate search --env SEARCH_API_KEY=sk-test`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			req, err := o.request(args, root.clients)
			if err != nil {
				return err
			}
			report := root.app.dispatcher.Integrate(c.Context(), req)
			if !root.quiet {
				printReport(c.OutOrStdout(), report, "integrated", "already up to date")
			}
			return reportError(report)
		},
	}

	f := c.Flags()
	f.StringVar(&o.command, "command", "",
		"command line that starts the server (bypasses the registry)")
	f.StringArrayVar(&o.envKeys, "env-key", nil,
		"required environment variable (repeatable)")
	f.StringArrayVar(&o.optionalEnvKeys, "optional-env-key", nil,
		"environment variable passed when set (repeatable)")
	f.StringArrayVar(&o.env, "env", nil,
		"explicit value in KEY=VALUE format (repeatable)")
	return c
}

func (o *integrateOptions) request(names, clients []string) (integration.Request, error) {
	if o.command != "" && len(names) > 1 {
		return integration.Request{}, errors.NewUserError(
			errors.New("--command defines a single server"),
			"Run integrate once per server when using --command")
	}

	env, err := parseEnvPairs(o.env)
	if err != nil {
		return integration.Request{}, err
	}

	return integration.Request{
		Names:           names,
		Clients:         clients,
		Command:         strings.TrimSpace(o.command),
		EnvKeys:         o.envKeys,
		OptionalEnvKeys: o.optionalEnvKeys,
		Env:             env,
	}, nil
}

// parseEnvPairs parses KEY=VALUE flags. Values may contain '='.
func parseEnvPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.NewUserError(
				errors.Newf("invalid --env %q", pair),
				"Use KEY=VALUE")
		}
		env[key] = value
	}
	return env, nil
}
