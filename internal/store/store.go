package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// FilePerm is the mode of every file written by a Store.
const FilePerm os.FileMode = 0o600

// Store reads and writes one configuration file with a fixed Codec.
type Store struct {
	path  string
	codec Codec
	perm  os.FileMode
}

// New returns a Store for path using codec.
func New(path string, codec Codec) *Store {
	return &Store{path: path, codec: codec, perm: FilePerm}
}

// NewTOML returns a Store for a TOML file.
func NewTOML(path string) *Store {
	return New(path, TOML{})
}

// NewYAML returns a Store for a YAML file.
func NewYAML(path string) *Store {
	return New(path, YAML{})
}

// Path returns the file the store manages.
func (s *Store) Path() string {
	return s.path
}

// Codec returns the store's codec.
func (s *Store) Codec() Codec {
	return s.codec
}

// Read loads the document. A missing, empty or whitespace-only file yields
// an empty Document. A file that does not decode yields a
// *errors.ConfigParseError.
func (s *Store) Read() (Document, error) {
	data, ok, err := fileutil.ReadIfExists(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.path)
	}
	if !ok || strings.TrimSpace(string(data)) == "" {
		return Document{}, nil
	}

	doc, err := s.codec.Unmarshal(data)
	if err != nil {
		return nil, &errors.ConfigParseError{Path: s.path, Err: err}
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Write persists doc. The parent directory is created with mode 0700 and
// the previous file, if any, is copied once to its ".bak" sidecar before
// the atomic replace. Every failure is a *errors.ConfigWriteError.
func (s *Store) Write(doc Document) error {
	if doc == nil {
		doc = Document{}
	}

	data, err := s.codec.Marshal(doc)
	if err != nil {
		return &errors.ConfigWriteError{Path: s.path, Err: errors.Wrapf(err, "encoding %s", s.codec.Name())}
	}

	if err := paths.EnsureDir(filepath.Dir(s.path), paths.DefaultDirPerm); err != nil {
		return &errors.ConfigWriteError{Path: s.path, Err: err}
	}

	if _, err := backup.EnsureSidecar(s.path); err != nil {
		return &errors.ConfigWriteError{Path: s.path, Err: err}
	}

	if err := fileutil.AtomicWriteFile(s.path, data, s.perm); err != nil {
		return &errors.ConfigWriteError{Path: s.path, Err: err}
	}
	return nil
}

// MergeAndWrite deep-merges patch into the current document, writes the
// result and returns it.
func (s *Store) MergeAndWrite(patch Document) (Document, error) {
	current, err := s.Read()
	if err != nil {
		return nil, err
	}
	merged := DeepMerge(current, patch)
	if err := s.Write(merged); err != nil {
		return nil, err
	}
	return merged, nil
}
