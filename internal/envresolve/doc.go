// Package envresolve decides which environment variables a server entry
// needs and where their values come from.
//
// Values come from explicit overrides first and then from an injected
// [LookupFunc], which by default reads the process environment. Lookups can
// be layered with [Chain], for example to fall back to dotenv files loaded
// with [FromDotenv].
package envresolve
