// Package config loads static mapping documents from a directory (spec.md
// 6, "--read-static-mappings <dir>"): one YAML or JSON file per mapping (or
// one file holding an array of mappings), converted into *mapping.Mapping
// values the same way the admin API's POST /__admin/mappings body is.
package config
