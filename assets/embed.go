// Package assets embeds static files shipped with the server binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var migrations embed.FS

// Migrations returns the SQL migration scripts rooted at "sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
