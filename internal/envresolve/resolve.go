package envresolve

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// Request names the variables a server needs.
type Request struct {
	// Required keys are reported in Missing when they have no value.
	Required []string
	// Optional keys are resolved when available and never reported missing.
	Optional []string
	// Overrides are explicit values; they win even when empty.
	Overrides map[string]string
}

// Resolution is the outcome of resolving a Request.
type Resolution struct {
	// Values holds every key that resolved to a value.
	Values map[string]string
	// Keys lists resolved names: override keys sorted, then required, then
	// optional, without duplicates.
	Keys []string
	// Missing lists required keys with no value, in request order.
	Missing []string
}

// Resolver resolves Requests against a LookupFunc.
type Resolver struct {
	lookup LookupFunc
}

// New returns a Resolver. A nil lookup reads the process environment.
func New(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = OSLookup()
	}
	return &Resolver{lookup: lookup}
}

// Resolve applies override-then-ambient precedence to req.
func (r *Resolver) Resolve(req Request) Resolution {
	res := Resolution{Values: map[string]string{}}
	seen := map[string]bool{}

	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			res.Keys = append(res.Keys, key)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(req.Overrides)) {
		if key == "" {
			continue
		}
		res.Values[key] = req.Overrides[key]
		add(key)
	}

	for _, key := range req.Required {
		key = strings.TrimSpace(key)
		if key == "" || seen[key] {
			continue
		}
		if v, ok := r.ambient(key); ok {
			res.Values[key] = v
			add(key)
			continue
		}
		if !slices.Contains(res.Missing, key) {
			res.Missing = append(res.Missing, key)
		}
	}

	for _, key := range req.Optional {
		key = strings.TrimSpace(key)
		if key == "" || seen[key] {
			continue
		}
		if v, ok := r.ambient(key); ok {
			res.Values[key] = v
			add(key)
		}
	}

	return res
}

func (r *Resolver) ambient(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// MissingPolicy decides what happens when required variables are missing.
type MissingPolicy string

const (
	// PolicyFail turns missing variables into an error.
	PolicyFail MissingPolicy = "fail"
	// PolicyWarn logs missing variables and continues.
	PolicyWarn MissingPolicy = "warn"
)

// ParsePolicy converts a config value into a MissingPolicy. An empty value
// yields def.
func ParsePolicy(s string, def MissingPolicy) (MissingPolicy, error) {
	switch MissingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case PolicyFail:
		return PolicyFail, nil
	case PolicyWarn:
		return PolicyWarn, nil
	}
	return "", errors.Newf("unknown missing-env policy %q (want fail or warn)", s)
}

// Check applies the policy to res on behalf of client. Under PolicyFail a
// non-empty Missing list is returned as *errors.MissingEnvError; otherwise
// it is logged as a warning and Check returns nil.
func (p MissingPolicy) Check(client string, res Resolution, logger *slog.Logger) error {
	if len(res.Missing) == 0 {
		return nil
	}
	if p == PolicyFail {
		return &errors.MissingEnvError{Client: client, Keys: slices.Clone(res.Missing)}
	}
	if logger != nil {
		logger.Warn("required environment variables are not set",
			"client", client,
			"vars", strings.Join(res.Missing, ","))
	}
	return nil
}
