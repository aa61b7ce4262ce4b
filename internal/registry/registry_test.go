package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

const githubEntry = `name: github
description: GitHub issues and pull requests
command: npx -y @modelcontextprotocol/server-github
env_keys: [GITHUB_TOKEN]
optional_env_keys: [GITHUB_HOST]
metadata:
  homepage: https://github.com/github/github-mcp-server
  clients:
    codex:
      command: docker run -i --rm ghcr.io/github/github-mcp-server
      env_keys: [GITHUB_PERSONAL_ACCESS_TOKEN]
`

func writeCurated(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

func TestCurated_Find(t *testing.T) {
	dir := writeCurated(t, map[string]string{
		"github.yaml":  githubEntry,
		"time.yml":     "description: Current time\ncommand: uvx mcp-server-time\n",
		"aliased.yaml": "name: fetch\ncommand: uvx mcp-server-fetch\n",
		"broken.yaml":  "name: [unclosed\n",
		"notes.txt":    "name: ignored\n",
	})
	src := NewCurated(dir)
	ctx := t.Context()

	t.Run("by file name", func(t *testing.T) {
		e, err := src.Find(ctx, "github")
		require.NoError(t, err)
		assert.Equal(t, "github", e.Name)
		assert.Equal(t, []string{"GITHUB_TOKEN"}, e.EnvKeys)
		assert.Equal(t, filepath.Join(dir, "github.yaml"), e.Path)
		assert.Equal(t, "https://github.com/github/github-mcp-server", e.Metadata.Extra["homepage"])
	})

	t.Run("yml extension and name from file", func(t *testing.T) {
		e, err := src.Find(ctx, "time")
		require.NoError(t, err)
		assert.Equal(t, "time", e.Name)
		assert.Equal(t, "uvx mcp-server-time", e.Command)
	})

	t.Run("by name field", func(t *testing.T) {
		e, err := src.Find(ctx, "fetch")
		require.NoError(t, err)
		assert.Equal(t, "uvx mcp-server-fetch", e.Command)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := src.Find(ctx, "broken")
		assert.True(t, errors.Is(err, errors.ErrConfigParse), "got %v", err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := src.Find(ctx, "nope")
		assert.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		_, err := src.Find(ctx, "../github")
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})
}

func TestCurated_List(t *testing.T) {
	dir := writeCurated(t, map[string]string{
		"b.yaml":      "name: beta\n",
		"a.yaml":      "name: alpha\n",
		"broken.yaml": "name: [\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0700))

	entries, err := NewCurated(dir).List(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, "beta", entries[1].Name)
}

func TestCurated_MissingDir(t *testing.T) {
	src := NewCurated(filepath.Join(t.TempDir(), "absent"))

	entries, err := src.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = src.Find(t.Context(), "github")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestEntry_ForClient(t *testing.T) {
	dir := writeCurated(t, map[string]string{"github.yaml": githubEntry})
	e, err := NewCurated(dir).Find(t.Context(), "github")
	require.NoError(t, err)

	codex := e.ForClient("codex")
	assert.Equal(t, "docker run -i --rm ghcr.io/github/github-mcp-server", codex.Command)
	assert.Equal(t, []string{"GITHUB_PERSONAL_ACCESS_TOKEN"}, codex.EnvKeys)
	assert.Equal(t, []string{"GITHUB_HOST"}, codex.OptionalEnvKeys, "unset field falls back to top level")

	goose := e.ForClient("goose")
	assert.Equal(t, "npx -y @modelcontextprotocol/server-github", goose.Command)
	assert.Equal(t, []string{"GITHUB_TOKEN"}, goose.EnvKeys)

	assert.Equal(t, []string{"codex"}, e.Clients())
}

type stubSource struct {
	name    string
	entries []*Entry
	err     error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Find(_ context.Context, name string) (*Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, e := range s.entries {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (s *stubSource) List(context.Context) ([]*Entry, error) {
	return s.entries, s.err
}

func TestResolver(t *testing.T) {
	first := &stubSource{name: "first", entries: []*Entry{
		{Name: "github", Description: "primary"},
		{Name: "time", Description: "Clock and timezone tools"},
	}}
	second := &stubSource{name: "second", entries: []*Entry{
		{Name: "github", Description: "shadowed"},
		{Name: "fetch", Description: "HTTP fetcher"},
	}}
	r := NewResolver(first, nil, second)
	ctx := t.Context()

	e, err := r.Find(ctx, "github")
	require.NoError(t, err)
	assert.Equal(t, "primary", e.Description)

	e, err = r.Find(ctx, "fetch")
	require.NoError(t, err)
	assert.Equal(t, "HTTP fetcher", e.Description)

	_, err = r.Find(ctx, "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	all, err := r.List(ctx)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"fetch", "github", "time"}, names)

	found, err := r.Search(ctx, "TIMEZONE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "time", found[0].Name)

	found, err = r.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestResolver_SourceError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := NewResolver(&stubSource{name: "bad", err: boom})

	_, err := r.Find(t.Context(), "x")
	assert.True(t, errors.Is(err, boom))

	_, err = r.List(t.Context())
	assert.True(t, errors.Is(err, boom))
}
