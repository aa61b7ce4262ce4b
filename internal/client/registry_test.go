package client

import (
	"context"
	"sync"
	"testing"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// fakeClient is a test implementation of the Client interface.
type fakeClient struct {
	name string
}

func (f *fakeClient) Name() string                                       { return f.name }
func (f *fakeClient) List(context.Context) ([]string, error)             { return []string{}, nil }
func (f *fakeClient) Disintegrate(context.Context, string) (bool, error) { return false, nil }
func (f *fakeClient) Integrate(context.Context, mcp.ServerSpec) (bool, error) {
	return true, nil
}

func ctorFor(name string, calls *int) Constructor {
	return func() (Client, error) {
		*calls++
		return &fakeClient{name: name}, nil
	}
}

func TestNewEmptyRegistry(t *testing.T) {
	r := NewEmptyRegistry()
	if got := r.Names(); got != nil {
		t.Errorf("Names() = %v, want nil", got)
	}
	if r.Has(paths.ClientCodex) {
		t.Error("Has(codex) = true on empty registry")
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewEmptyRegistry()
	var calls int

	if err := r.Register(paths.ClientGoose, ctorFor("goose", &calls)); err != nil {
		t.Fatalf("Register(goose) error = %v", err)
	}
	if err := r.Register(paths.ClientCodex, ctorFor("codex", &calls)); err != nil {
		t.Fatalf("Register(codex) error = %v", err)
	}

	if err := r.Register(paths.ClientCodex, ctorFor("codex", &calls)); !errors.Is(err, ErrClientAlreadyRegistered) {
		t.Errorf("duplicate Register() error = %v, want ErrClientAlreadyRegistered", err)
	}
	if err := r.Register("vim", ctorFor("vim", &calls)); !errors.Is(err, ErrInvalidClientName) {
		t.Errorf("Register(vim) error = %v, want ErrInvalidClientName", err)
	}
	if err := r.Register(paths.ClientClaude, nil); !errors.Is(err, ErrInvalidClientName) {
		t.Errorf("Register(nil ctor) error = %v, want ErrInvalidClientName", err)
	}

	want := []string{"codex", "goose"}
	got := r.Names()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if calls != 0 {
		t.Errorf("constructors called %d times before Get, want 0", calls)
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewEmptyRegistry()
	var calls int
	if err := r.Register(paths.ClientCodex, ctorFor("codex", &calls)); err != nil {
		t.Fatal(err)
	}

	first, err := r.Get(paths.ClientCodex)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := r.Get(paths.ClientCodex)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first != second {
		t.Error("Get() returned different instances")
	}
	if calls != 1 {
		t.Errorf("constructor called %d times, want 1", calls)
	}

	_, err = r.Get("vim")
	var unsupported *errors.UnsupportedClientError
	if !errors.As(err, &unsupported) || unsupported.Client != "vim" {
		t.Errorf("Get(vim) error = %v, want UnsupportedClientError", err)
	}
}

func TestRegistry_GetConstructorError(t *testing.T) {
	r := NewEmptyRegistry()
	boom := errors.New("boom")
	if err := r.Register(paths.ClientClaude, func() (Client, error) { return nil, boom }); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get(paths.ClientClaude); !errors.Is(err, boom) {
		t.Errorf("Get() error = %v, want boom", err)
	}
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r := NewEmptyRegistry()
	var calls int
	if err := r.Register(paths.ClientGoose, ctorFor("goose", &calls)); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Get(paths.ClientGoose); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("constructor called %d times, want 1", calls)
	}
}
