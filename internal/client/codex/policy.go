package codex

import (
	"slices"
	"strings"

	"github.com/thoreinstein/mcpsync/internal/store"
)

// Document keys owned by the adapter.
const (
	serversKey   = "mcp_servers"
	policyKey    = "shell_environment_policy"
	inheritKey   = "inherit"
	ignoreKey    = "ignore_default_excludes"
	includeKey   = "include_only"
	inheritAll   = "all"
	envFlag      = "-e"
	commandField = "command"
	argsField    = "args"
	envField     = "env"
)

// BaseAllowList is always present in include_only and never pruned.
var BaseAllowList = []string{
	"PATH",
	"HOME",
	"LOGNAME",
	"USER",
	"USERNAME",
	"SHELL",
	"PWD",
	"TMP",
	"TMPDIR",
	"TEMP",
	"TERM",
	"LANG",
	"LC_*",
}

// IsBase reports whether key belongs to BaseAllowList.
func IsBase(key string) bool {
	return slices.Contains(BaseAllowList, key)
}

// EnsurePolicy makes shell_environment_policy inherit everything, ignore
// the default excludes and allow BaseAllowList plus keys. Existing entries
// keep their order, duplicates are removed and new keys are appended. It
// reports whether doc changed.
func EnsurePolicy(doc store.Document, keys []string) bool {
	policy, ok := store.Section(doc, policyKey)
	changed := false
	if !ok {
		policy = map[string]any{}
	}

	if s, _ := policy[inheritKey].(string); s == "" {
		policy[inheritKey] = inheritAll
		changed = true
	}
	if b, _ := policy[ignoreKey].(bool); !b {
		policy[ignoreKey] = true
		changed = true
	}

	current := store.Strings(policy[includeKey])
	include := dedupe(current)
	if len(include) != len(current) {
		changed = true
	}

	desired := append(slices.Clone(BaseAllowList), keys...)
	for _, key := range desired {
		key = strings.TrimSpace(key)
		if key == "" || slices.Contains(include, key) {
			continue
		}
		include = append(include, key)
		changed = true
	}

	if !changed {
		return false
	}
	policy[includeKey] = toAny(include)
	doc[policyKey] = policy
	return true
}

// PrunePolicy removes keys from include_only unless they are base names or
// stillReferenced reports them in use. An emptied include_only is deleted.
// It reports whether doc changed.
func PrunePolicy(doc store.Document, keys []string, stillReferenced func(string) bool) bool {
	policy, ok := store.Section(doc, policyKey)
	if !ok || len(keys) == 0 {
		return false
	}

	include := store.Strings(policy[includeKey])
	kept := include[:0:0]
	for _, key := range include {
		if slices.Contains(keys, key) && !IsBase(key) && (stillReferenced == nil || !stillReferenced(key)) {
			continue
		}
		kept = append(kept, key)
	}
	if len(kept) == len(include) {
		return false
	}

	if len(kept) == 0 {
		delete(policy, includeKey)
	} else {
		policy[includeKey] = toAny(kept)
	}
	return true
}

// AllowList returns include_only from doc.
func AllowList(doc store.Document) []string {
	policy, ok := store.Section(doc, policyKey)
	if !ok {
		return nil
	}
	return store.Strings(policy[includeKey])
}

// ReferencedKeys returns the variable names a server entry refers to: the
// keys of its env table and the names passed with "-e NAME" or
// "-e NAME=value" in its args.
func ReferencedKeys(entry map[string]any) []string {
	var keys []string
	if env, ok := store.Section(entry, envField); ok {
		keys = append(keys, store.Keys(env)...)
	}
	args := store.Strings(entry[argsField])
	for i := 0; i+1 < len(args); i++ {
		if args[i] != envFlag {
			continue
		}
		name, _, _ := strings.Cut(args[i+1], "=")
		if name != "" {
			keys = append(keys, name)
		}
		i++
	}
	return dedupe(keys)
}

func dedupe(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

func toAny(keys []string) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}
