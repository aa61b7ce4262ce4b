package mcp

import (
	"maps"
	"slices"
	"strings"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/registry"
)

// TransportStdio is the only transport the supported clients launch.
const TransportStdio = "stdio"

// ServerSpec describes a server to integrate.
type ServerSpec struct {
	// Name is the key under which clients store the server.
	Name string `json:"name" yaml:"name"`

	// Command is the full command line, executable first.
	Command string `json:"command" yaml:"command"`

	// EnvKeys are variables the server requires.
	EnvKeys []string `json:"env_keys,omitempty" yaml:"env_keys,omitempty"`

	// OptionalEnvKeys are variables forwarded when available.
	OptionalEnvKeys []string `json:"optional_env_keys,omitempty" yaml:"optional_env_keys,omitempty"`

	// Env holds explicit values that take precedence over the environment.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Validate reports an *errors.InvalidSpecError when Name or Command is blank.
func (s ServerSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &errors.InvalidSpecError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(s.Command) == "" {
		return &errors.InvalidSpecError{Field: "command", Reason: "is required"}
	}
	return nil
}

// Normalize returns a copy with Name and Command trimmed and the key lists
// trimmed, stripped of empty entries and deduplicated in first-seen order.
func (s ServerSpec) Normalize() ServerSpec {
	out := ServerSpec{
		Name:            strings.TrimSpace(s.Name),
		Command:         strings.TrimSpace(s.Command),
		EnvKeys:         UniqueKeys(s.EnvKeys),
		OptionalEnvKeys: UniqueKeys(s.OptionalEnvKeys),
	}
	if len(s.Env) > 0 {
		out.Env = maps.Clone(s.Env)
	}
	return out
}

// AllEnvKeys returns the sorted Env keys followed by EnvKeys and
// OptionalEnvKeys, without duplicates.
func (s ServerSpec) AllEnvKeys() []string {
	keys := slices.Sorted(maps.Keys(s.Env))
	keys = append(keys, s.EnvKeys...)
	keys = append(keys, s.OptionalEnvKeys...)
	return UniqueKeys(keys)
}

// UniqueKeys trims keys, drops empty ones and removes duplicates while
// keeping the first occurrence. Comparison is case-sensitive.
func UniqueKeys(keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FromRegistry builds the spec for client from a registry entry, using the
// entry's client-specific block where one exists.
func FromRegistry(entry *registry.Entry, client string) ServerSpec {
	if entry == nil {
		return ServerSpec{}
	}
	block := entry.ForClient(client)
	return ServerSpec{
		Name:            entry.Name,
		Command:         block.Command,
		EnvKeys:         slices.Clone(block.EnvKeys),
		OptionalEnvKeys: slices.Clone(block.OptionalEnvKeys),
	}.Normalize()
}
