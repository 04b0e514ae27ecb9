// Package migrations contains the schema migrations. Each file registers
// itself from init(); cmd/catalog imports the package for that side effect.
package migrations
