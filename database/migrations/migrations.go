// Package migrations contains the schema of the database table backend.
// Each migration file calls migration.Register from init(); cmd/agromart
// imports this package so the CLI sees every migration.
package migrations
