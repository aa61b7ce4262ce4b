package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

func TestCurated_Scan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.yaml"), []byte("name: good\ncommand: good-server\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("name: [unclosed\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	entries, problems, err := NewCurated(dir).Scan()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].Name)
	require.Len(t, problems, 1)
	assert.True(t, errors.Is(problems[0], errors.ErrConfigParse))
}

func TestCurated_ScanMissingDir(t *testing.T) {
	entries, problems, err := NewCurated(filepath.Join(t.TempDir(), "absent")).Scan()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, problems)
}
