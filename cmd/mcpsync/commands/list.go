package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/redact"
)

type listOptions struct {
	json        bool
	showSecrets bool
}

// clientListing is one client's servers in list output.
type clientListing struct {
	Client  string       `json:"client"`
	Servers []mcp.Server `json:"servers"`
	Error   string       `json:"error,omitempty"`
}

func newListCmd(root *rootOptions) *cobra.Command {
	o := &listOptions{}
	c := &cobra.Command{
		Use:   "list",
		Short: "List the MCP servers each client has configured",
		Long: `List the MCP servers configured in each targeted client.

Claude Code servers are shown with their scope. Environment values that look
like secrets are masked unless --show-secrets is given. A client that cannot
be read is reported and the others are still listed.`,
		Example: `  # List every default client
  mcpsync list

  # Codex only, as JSON
  mcpsync list --client codex --json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			listings, err := collectListings(c.Context(), root.app.clients, root.targetClients(), o.showSecrets)
			if o.json {
				if encErr := writeListJSON(c.OutOrStdout(), listings); encErr != nil {
					return encErr
				}
			} else {
				if tabErr := writeListTable(c.OutOrStdout(), listings); tabErr != nil {
					return tabErr
				}
			}
			return err
		},
	}
	c.Flags().BoolVar(&o.json, "json", false, "output in JSON format")
	c.Flags().BoolVar(&o.showSecrets, "show-secrets", false, "reveal masked secrets in env values")
	return c
}

// collectListings reads every client. Failures are recorded on the
// listing and joined into the returned error.
func collectListings(ctx context.Context, clients *client.Registry, names []string, showSecrets bool) ([]clientListing, error) {
	logger := logging.FromContext(ctx)
	listings := make([]clientListing, 0, len(names))
	var errs []error

	for _, name := range names {
		listing := clientListing{Client: name, Servers: []mcp.Server{}}
		servers, err := listServers(ctx, clients, name)
		if err != nil {
			logger.Warn("cannot list client", "client", name, "error", err)
			listing.Error = err.Error()
			errs = append(errs, errors.Wrapf(err, "listing %s", name))
		}
		for _, s := range servers {
			if !showSecrets {
				s.Env = redact.Env(s.Env)
			}
			listing.Servers = append(listing.Servers, s)
		}
		listings = append(listings, listing)
	}
	return listings, errors.Join(errs...)
}

func listServers(ctx context.Context, clients *client.Registry, name string) ([]mcp.Server, error) {
	adapter, err := clients.Get(name)
	if err != nil {
		return nil, err
	}
	if inspector, ok := adapter.(client.Inspector); ok {
		return inspector.Servers(ctx)
	}
	names, err := adapter.List(ctx)
	if err != nil {
		return nil, err
	}
	servers := make([]mcp.Server, 0, len(names))
	for _, n := range names {
		servers = append(servers, mcp.Server{Name: n, Client: name, Enabled: true})
	}
	return servers, nil
}

func writeListJSON(w io.Writer, listings []clientListing) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(listings), "encoding JSON")
}

func writeListTable(w io.Writer, listings []clientListing) error {
	header := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)
	nameColor := color.New(color.FgGreen)

	for i, l := range listings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, header.Sprintf("Client: %s", l.Client))

		if l.Error != "" {
			fmt.Fprintf(w, "  %s\n", color.RedString("error: %s", l.Error))
			continue
		}
		if len(l.Servers) == 0 {
			fmt.Fprintf(w, "  %s\n", dim.Sprint("(no MCP servers configured)"))
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  NAME\tCOMMAND\tENV\tSTATUS")
		for _, s := range l.Servers {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				nameColor.Sprint(s.Name),
				truncate(commandLine(s), 50),
				strings.Join(envNames(s), ","),
				status(s))
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "flushing tabwriter")
		}
	}
	return nil
}

func commandLine(s mcp.Server) string {
	return strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
}

// envNames lists variable names only; values never reach the table.
func envNames(s mcp.Server) []string {
	if len(s.EnvKeys) > 0 {
		return s.EnvKeys
	}
	names := make([]string, 0, len(s.Env))
	for k := range s.Env {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func status(s mcp.Server) string {
	st := "enabled"
	if !s.Enabled {
		st = "disabled"
	}
	if s.Scope != "" {
		st += " (" + s.Scope + ")"
	}
	return st
}

// truncate truncates a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
