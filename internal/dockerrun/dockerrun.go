// Package dockerrun adjusts "docker run" argument lists so containerized
// MCP servers receive forwarded environment variables and fresh images.
package dockerrun

import (
	"path/filepath"
	"slices"
	"strings"
)

// PullAlways is inserted after "run" for images not tagged ":local".
const PullAlways = "--pull=always"

// LocalTagSuffix marks locally built images that must not be pulled.
const LocalTagSuffix = ":local"

// Applies reports whether executable is docker and args contain "run".
func Applies(executable string, args []string) bool {
	return filepath.Base(executable) == "docker" && slices.Contains(args, "run")
}

// Rewrite returns a copy of args with --pull=always inserted after "run"
// (unless present or the image ends in ":local") and a "-e KEY" pair
// inserted before the last non-flag argument for every key not already
// forwarded. Keys are added in the order given. When Applies is false the
// copy is returned unchanged. Rewrite is idempotent.
func Rewrite(executable string, args []string, envKeys []string) []string {
	out := slices.Clone(args)
	if !Applies(executable, out) {
		return out
	}

	image := ""
	if len(out) > 0 {
		image = out[len(out)-1]
	}
	if !strings.HasSuffix(image, LocalTagSuffix) && !slices.Contains(out, PullAlways) {
		at := slices.Index(out, "run") + 1
		out = slices.Insert(out, at, PullAlways)
	}

	seen := map[string]bool{}
	for _, key := range envKeys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if forwards(out, key) {
			continue
		}
		out = slices.Insert(out, lastPositional(out), "-e", key)
	}
	return out
}

// forwards reports whether args already contain the pair "-e key".
func forwards(args []string, key string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "-e" && args[i+1] == key {
			return true
		}
	}
	return false
}

// lastPositional returns the index of the last argument not starting with
// "-", or len(args) when there is none.
func lastPositional(args []string) int {
	for i := len(args) - 1; i >= 0; i-- {
		if !strings.HasPrefix(args[i], "-") {
			return i
		}
	}
	return len(args)
}
