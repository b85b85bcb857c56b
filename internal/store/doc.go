// Package store implements the mapping store: an ordered, concurrently
// accessed set of mappings served to readers as an immutable snapshot per
// matching operation, and written with copy-on-write so readers never
// block writers and vice versa.
package store
