// assets/embed.go
//
// Embedded data shipped with the binary:
//   - seed.yaml: built-in catalog definitions, loaded at startup.
//   - sql/*.sql: schema migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed seed.yaml sql/*.sql
var FS embed.FS

// Seed returns the raw YAML seed catalog.
func Seed() ([]byte, error) {
	return FS.ReadFile("seed.yaml")
}

// Migrations returns the migration files rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// The directory is embedded above; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
