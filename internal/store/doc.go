// Package store reads and writes client configuration documents.
//
// A [Document] is the whole decoded file as a generic tree of
// map[string]any, []any and scalars. Callers locate the section they own,
// mutate it and hand the full tree back to [Store.Write], so keys the
// caller does not understand survive untouched.
//
// Writes are atomic (temp file plus rename in the same directory), create
// a one-time ".bak" sidecar of the previous file, and leave the file with
// mode 0600.
package store
