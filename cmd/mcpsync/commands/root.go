// Package commands implements the CLI commands for mcpsync.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/cmd"
	"github.com/thoreinstein/mcpsync/internal/client/claude"
	"github.com/thoreinstein/mcpsync/internal/config"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// debugEnv raises the log level when no -v flag is given: "1" or "true"
// for debug, "2" for trace.
const debugEnv = "MCPSYNC_DEBUG"

// rootOptions holds the persistent flags and the state built from them
// before a subcommand runs.
type rootOptions struct {
	configPath string
	clients    []string
	envFiles   []string
	verbosity  int
	quiet      bool
	logFormat  string
	logFile    string

	// runner replaces os/exec for the claude adapter in tests.
	runner claude.Runner

	cfg       *config.Config
	cfgErr    error
	logCloser io.Closer
	app       *app
}

// NewRootCmd builds the mcpsync command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "mcpsync",
		Short: "Keep MCP server definitions in sync across AI assistants",
		Long: `mcpsync registers Model Context Protocol servers with the AI assistants
installed on this machine: Codex, Claude Code and Goose.

Servers are described once, either in the curated registry or on the command
line, and mcpsync writes each client's own configuration: the Codex TOML file,
the Goose YAML file, and the claude CLI for Claude Code. Every operation is
idempotent, so running the same command twice changes nothing the second time.

Use --client to target specific clients, or omit it to use default_clients
from the config file.`,
		Example: `  # Add a registry server to every default client
  mcpsync integrate github

  # Add an ad-hoc server to Codex only
  mcpsync integrate search --client codex --command "npx -y search-mcp" --env-key SEARCH_API_KEY

  # Show what each client has configured
  mcpsync list

  # Check configuration health
  mcpsync doctor`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       cmd.Version,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return o.setup(c)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if o.logCloser != nil {
				return o.logCloser.Close()
			}
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
	}
	root.SetVersionTemplate("mcpsync version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "",
		"config file (default: $XDG_CONFIG_HOME/mcpsync/config.yaml)")
	pf.StringSliceVarP(&o.clients, "client", "c", nil,
		"target client(s): "+strings.Join(paths.Clients(), ", ")+" (default: default_clients)")
	pf.StringArrayVar(&o.envFiles, "env-file", nil,
		"dotenv file consulted after the process environment (repeatable)")
	pf.CountVarP(&o.verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	pf.BoolVarP(&o.quiet, "quiet", "q", false,
		"suppress non-error output")
	pf.StringVar(&o.logFormat, "log-format", "text",
		"log format: text, json")
	pf.StringVar(&o.logFile, "log-file", "",
		"also write JSON logs to a rotating file")

	root.AddCommand(
		newIntegrateCmd(o),
		newDisintegrateCmd(o),
		newListCmd(o),
		newRegistryCmd(o),
		newDoctorCmd(o),
		newProfileCmd(),
		newVersionCmd(),
	)
	return root
}

// setup configures logging, loads the config file and builds the
// adapters. Config errors are fatal except for doctor, which reports them.
func (o *rootOptions) setup(c *cobra.Command) error {
	if err := o.setupLogging(c); err != nil {
		return err
	}
	if c.Name() == "help" || c.Name() == "version" {
		return nil
	}

	config.Init()
	o.cfg, o.cfgErr = config.Load(o.configPath)
	if o.cfgErr != nil {
		if c.Name() != "doctor" {
			return errors.NewConfigError(o.cfgErr)
		}
		o.cfg = config.Default()
	}

	if err := validateClients(o.clients); err != nil {
		return err
	}

	a, err := newApp(o.cfg, o.envFiles, o.runner)
	if err != nil {
		return err
	}
	o.app = a
	return nil
}

// setupLogging configures the logger carried by the command context.
func (o *rootOptions) setupLogging(c *cobra.Command) error {
	if o.quiet && o.verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if o.quiet {
		level = slog.LevelError
	} else {
		v := o.verbosity
		if v == 0 {
			switch os.Getenv(debugEnv) {
			case "1", "true":
				v = 2
			case "2":
				v = 3
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format := logging.Format(o.logFormat)
	if format != logging.FormatText && format != logging.FormatJSON {
		return errors.NewUserError(errors.Newf("invalid --log-format %q", o.logFormat), "Use text or json")
	}

	handler := logging.NewFormatHandler(c.ErrOrStderr(), format, level)
	if o.logFile != "" {
		fileHandler, closer, err := logging.NewFileHandler(logging.FileConfig{Path: o.logFile}, level)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		o.logCloser = closer
		handler = logging.NewMultiHandler(handler, fileHandler)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c.SetContext(logging.NewContext(ctx, logger))
	return nil
}

func validateClients(clients []string) error {
	var invalid []string
	for _, name := range clients {
		if !paths.ValidClient(name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	err := errors.Newf("invalid client(s): %s (valid: %s)",
		strings.Join(invalid, ", "),
		strings.Join(paths.Clients(), ", "))
	return errors.NewUserError(err, "Run 'mcpsync --help' to see valid clients")
}

// targetClients returns the --client values, or the configured defaults.
func (o *rootOptions) targetClients() []string {
	if len(o.clients) > 0 {
		return o.clients
	}
	return o.cfg.DefaultClients
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return errors.Wrap(NewRootCmd().ExecuteContext(ctx), "executing root command")
}
