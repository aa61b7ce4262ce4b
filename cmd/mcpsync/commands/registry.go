package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpsync/internal/editor"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/internal/registry"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

func newRegistryCmd(root *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "registry",
		Short: "Browse the curated server registry",
		Long: `Browse the curated registry of MCP server definitions.

The registry is a directory of YAML files, one server per file, read from
registry_dir (default: $XDG_CONFIG_HOME/mcpsync/curated). Each file names the
server, its command and the environment variables it needs, and may override
the command per client under metadata.clients.`,
		Example: `  mcpsync registry list
  mcpsync registry show github
  mcpsync registry search git --interactive`,
		RunE: func(c *cobra.Command, _ []string) error {
			return c.Help()
		},
	}
	c.AddCommand(
		newRegistryListCmd(root),
		newRegistryShowCmd(root),
		newRegistrySearchCmd(root),
		newRegistryEditCmd(root),
	)
	return c
}

func newRegistryListCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "list",
		Short: "List registry entries",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			entries, err := root.app.resolver.List(c.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeEntriesJSON(c.OutOrStdout(), entries)
			}
			return writeEntriesTable(c.OutOrStdout(), entries)
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return c
}

func newRegistryShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a registry entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			entry, err := root.app.resolver.Find(c.Context(), args[0])
			if errors.Is(err, errors.ErrNotFound) {
				return errors.NewUserError(err, "Run 'mcpsync registry list' to see available servers")
			}
			if err != nil {
				return err
			}
			return writeEntry(c.OutOrStdout(), entry)
		},
	}
}

func newRegistrySearchCmd(root *rootOptions) *cobra.Command {
	var interactive bool
	c := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search registry entries by name or description",
		Long: `Search registry entries whose name or description contains QUERY,
ignoring case. With --interactive, pick an entry with a fuzzy finder and show
its definition.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			} else if !interactive {
				return errors.NewUserError(errors.New("a query is required"), "Pass a QUERY or use --interactive")
			}
			entries, err := root.app.resolver.Search(c.Context(), query)
			if err != nil {
				return err
			}
			if interactive {
				return pickEntry(c.OutOrStdout(), entries)
			}
			return writeEntriesTable(c.OutOrStdout(), entries)
		},
	}
	c.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose an entry with a fuzzy finder")
	return c
}

func writeEntriesJSON(w io.Writer, entries []*registry.Entry) error {
	if entries == nil {
		entries = []*registry.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(entries), "encoding JSON")
}

func writeEntriesTable(w io.Writer, entries []*registry.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No registry entries found.")
		return nil
	}

	bold := color.New(color.Bold)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, bold.Sprint("NAME")+"\t"+bold.Sprint("DESCRIPTION")+"\t"+bold.Sprint("CLIENT OVERRIDES"))
	for _, e := range entries {
		overrides := e.Clients()
		slices.Sort(overrides)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, truncate(e.Description, 60), strings.Join(overrides, ","))
	}
	return errors.Wrap(tw.Flush(), "flushing tabwriter")
}

// writeEntry prints the entry as YAML, headed by the file it came from.
func writeEntry(w io.Writer, e *registry.Entry) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "encoding entry")
	}
	if e.Path != "" {
		fmt.Fprintf(w, "# %s\n", e.Path)
	}
	_, err = w.Write(data)
	return err
}

func pickEntry(w io.Writer, entries []*registry.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No registry entries found.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			return entries[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			e := entries[i]
			return fmt.Sprintf("Name: %s\nCommand: %s\nEnv: %s\n\n%s",
				e.Name,
				e.Command,
				strings.Join(e.EnvKeys, ", "),
				e.Description,
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}
	return writeEntry(w, entries[idx])
}

// entryTemplate seeds a new registry file.
const entryTemplate = `name: %s
description: ""
command: ""
env_keys: []
optional_env_keys: []
`

func newRegistryEditCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit NAME",
		Short: "Open a registry entry in $EDITOR",
		Long: `Open the registry file for NAME in $EDITOR (or $VISUAL), creating it from a
template when it does not exist. The file is parsed again after the editor
exits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			name := args[0]
			path, err := entryPath(c, root.app.resolver, root.app.curated, name)
			if err != nil {
				return err
			}

			ed := editor.New()
			ed.Stdin = c.InOrStdin()
			ed.Stdout = c.OutOrStdout()
			ed.Stderr = c.ErrOrStderr()
			fmt.Fprintf(c.OutOrStdout(), "Location: %s\n", path)
			if err := ed.Open(c.Context(), path); err != nil {
				return errors.NewSystemError(err, "Set $EDITOR to a working editor")
			}

			if _, err := root.app.curated.Find(c.Context(), name); err != nil {
				return errors.NewUserError(err, "Fix the file and run 'mcpsync registry edit "+name+"' again")
			}
			return nil
		},
	}
}

// entryPath returns the file holding name, creating it from the template
// when no entry exists.
func entryPath(c *cobra.Command, resolver *registry.Resolver, curated *registry.Curated, name string) (string, error) {
	entry, err := resolver.Find(c.Context(), name)
	switch {
	case err == nil && entry.Path != "":
		return entry.Path, nil
	case err != nil && !errors.Is(err, errors.ErrNotFound):
		return "", err
	}

	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", errors.NewUserError(errors.Newf("invalid entry name %q", name), "Use a plain name such as 'github'")
	}
	path := filepath.Join(curated.Dir(), name+".yaml")
	if err := paths.EnsureDir(curated.Dir(), 0); err != nil {
		return "", errors.Wrap(err, "creating registry directory")
	}
	if err := fileutil.AtomicWriteFile(path, []byte(fmt.Sprintf(entryTemplate, name)), 0o600); err != nil {
		return "", err
	}
	return path, nil
}
