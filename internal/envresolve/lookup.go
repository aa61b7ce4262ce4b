package envresolve

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// LookupFunc reports the value of an environment variable and whether it is
// set. It has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// OSLookup reads the process environment.
func OSLookup() LookupFunc {
	return os.LookupEnv
}

// MapLookup reads from a fixed map.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Chain consults each lookup in order and returns the first non-empty
// value. A key that is set but empty everywhere reports ("", true).
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		found := false
		for _, lookup := range lookups {
			if lookup == nil {
				continue
			}
			v, ok := lookup(key)
			if ok && v != "" {
				return v, true
			}
			found = found || ok
		}
		return "", found
	}
}

// FromDotenv parses the given dotenv files without touching the process
// environment. Later files override earlier ones.
func FromDotenv(paths ...string) (LookupFunc, error) {
	merged := map[string]string{}
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading env file %s", path)
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	return MapLookup(merged), nil
}
