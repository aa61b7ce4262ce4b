package client

import (
	"sync"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// Sentinel errors for registry operations.
var (
	// ErrClientAlreadyRegistered is returned when attempting to register
	// a client with a name that is already in use.
	ErrClientAlreadyRegistered = errors.New("client already registered")

	// ErrInvalidClientName is returned when attempting to register
	// a client with an invalid name.
	ErrInvalidClientName = errors.New("invalid client name")
)

// Constructor builds a Client on first use.
type Constructor func() (Client, error)

// Registry manages client registration and lookup.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	ctors   map[string]Constructor
	clients map[string]Client
}

// NewEmptyRegistry creates a registry with no clients.
func NewEmptyRegistry() *Registry {
	return &Registry{
		ctors:   make(map[string]Constructor),
		clients: make(map[string]Client),
	}
}

// Register adds a client constructor under name.
// Returns an error if:
//   - The name is not a supported client (per paths.ValidClient)
//   - A client with the same name is already registered
func (r *Registry) Register(name string, ctor Constructor) error {
	if !paths.ValidClient(name) || ctor == nil {
		return errors.Wrapf(ErrInvalidClientName, "registering %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[name]; exists {
		return errors.Wrapf(ErrClientAlreadyRegistered, "registering %q", name)
	}

	r.ctors[name] = ctor
	return nil
}

// Get returns the client registered under name, building it on first use.
// An unknown name yields *errors.UnsupportedClientError.
func (r *Registry) Get(name string) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[name]; ok {
		return c, nil
	}
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, &errors.UnsupportedClientError{Client: name}
	}
	c, err := ctor()
	if err != nil {
		return nil, errors.Wrapf(err, "building %s client", name)
	}
	r.clients[name] = c
	return c, nil
}

// Has returns true if name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.ctors[name]
	return ok
}

// Names returns all registered client names in the order defined by
// paths.Clients().
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for _, name := range paths.Clients() {
		if _, ok := r.ctors[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Available returns the registered clients that detection reports as
// installed, in the order defined by paths.Clients().
func (r *Registry) Available(d *Detector) []string {
	var names []string
	for _, name := range r.Names() {
		if res := d.Detect(name); res != nil && res.Status == StatusInstalled {
			names = append(names, name)
		}
	}
	return names
}
