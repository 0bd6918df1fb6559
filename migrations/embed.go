// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests and server bootstrap.
package migrations

import (
	"embed"
	"io/fs"
)

// FS holds the Postgres *.sql migrations for the garages schema.
// Pass this to goose.NewProvider with goose.DialectPostgres.
//
//go:embed *.sql
var FS embed.FS

//go:embed catalog/*.sql
var catalogFS embed.FS

// Catalog returns the SQLite migrations for the vehicle catalog and label
// dictionaries, rooted so goose sees the files at the top level.
func Catalog() fs.FS {
	sub, err := fs.Sub(catalogFS, "catalog")
	if err != nil {
		panic("migrations: catalog dir missing: " + err.Error())
	}
	return sub
}
