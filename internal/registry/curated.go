package registry

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// Source finds registry entries.
type Source interface {
	Name() string
	Find(ctx context.Context, name string) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
}

var yamlExts = []string{".yaml", ".yml"}

// Curated reads entries from a directory of YAML files.
type Curated struct {
	dir string
}

// NewCurated returns a Curated source rooted at dir.
func NewCurated(dir string) *Curated {
	return &Curated{dir: dir}
}

// Name returns "curated".
func (c *Curated) Name() string { return "curated" }

// Dir returns the directory the source reads.
func (c *Curated) Dir() string { return c.dir }

// Find returns the entry for name. It first tries <dir>/<name>.yaml (or
// .yml), then any file whose name field matches. An unknown name yields an
// error matching errors.ErrNotFound; a malformed file yields a
// *errors.ConfigParseError.
func (c *Curated) Find(ctx context.Context, name string) (*Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, errors.Wrapf(errors.ErrNotFound, "registry entry %q", name)
	}

	for _, ext := range yamlExts {
		path := filepath.Join(c.dir, name+ext)
		ok, err := fileutil.Exists(path)
		if err != nil {
			return nil, err
		}
		if ok {
			return readEntry(path)
		}
	}

	entries, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "registry entry %q", name)
}

// List returns every readable entry sorted by name. A missing directory is
// an empty registry. Files that fail to parse are skipped with a warning.
func (c *Curated) List(ctx context.Context) ([]*Entry, error) {
	entries, problems, err := c.Scan()
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)
	for _, p := range problems {
		logger.Warn("skipping registry entry", "error", p)
	}
	return entries, nil
}

// Scan reads every YAML file in the directory. Readable entries are
// returned sorted by name; each file that could not be read or parsed
// contributes one error to problems.
func (c *Curated) Scan() (entries []*Entry, problems []error, err error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, errors.Wrapf(err, "reading registry directory %s", c.dir)
	}

	for _, de := range dirEntries {
		if de.IsDir() || !slices.Contains(yamlExts, filepath.Ext(de.Name())) {
			continue
		}
		entry, err := readEntry(filepath.Join(c.dir, de.Name()))
		if err != nil {
			problems = append(problems, err)
			continue
		}
		entries = append(entries, entry)
	}

	sortEntries(entries)
	return entries, problems, nil
}

func readEntry(path string) (*Entry, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var entry Entry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return nil, &errors.ConfigParseError{Path: path, Err: err}
	}
	if strings.TrimSpace(entry.Name) == "" {
		entry.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	entry.Name = strings.TrimSpace(entry.Name)
	entry.Path = path
	return &entry, nil
}

func sortEntries(entries []*Entry) {
	slices.SortStableFunc(entries, func(a, b *Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
}
