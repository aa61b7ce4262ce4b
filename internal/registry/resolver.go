package registry

import (
	"context"
	"strings"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// Resolver consults sources in order.
type Resolver struct {
	sources []Source
}

// NewResolver returns a Resolver over sources. Nil sources are ignored.
func NewResolver(sources ...Source) *Resolver {
	r := &Resolver{}
	for _, s := range sources {
		if s != nil {
			r.sources = append(r.sources, s)
		}
	}
	return r
}

// Find returns the first entry named name. Sources reporting
// errors.ErrNotFound are skipped; any other error is returned.
func (r *Resolver) Find(ctx context.Context, name string) (*Entry, error) {
	for _, src := range r.sources {
		entry, err := src.Find(ctx, name)
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				continue
			}
			return nil, errors.Wrapf(err, "%s registry", src.Name())
		}
		if entry != nil {
			return entry, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "registry entry %q", name)
}

// List returns the entries of all sources sorted by name. When two sources
// define the same name the earlier source wins.
func (r *Resolver) List(ctx context.Context) ([]*Entry, error) {
	seen := map[string]bool{}
	var out []*Entry
	for _, src := range r.sources {
		entries, err := src.List(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "%s registry", src.Name())
		}
		for _, e := range entries {
			if seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

// Search returns entries whose name or description contains query,
// ignoring case. An empty query matches everything.
func (r *Resolver) Search(ctx context.Context, query string) ([]*Entry, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries, nil
	}
	var out []*Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}
	return out, nil
}
