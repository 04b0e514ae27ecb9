// Command catalog serves the product catalogue API and manages its database.
package main

import (
	"github.com/shashiranjanraj/catalog/app/listeners"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/pkg/app"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/router"
	"github.com/shashiranjanraj/catalog/pkg/storage"

	// Side effects: migrations and seeders register themselves.
	_ "github.com/shashiranjanraj/catalog/database/migrations"
	_ "github.com/shashiranjanraj/catalog/database/seeders"
)

func main() {
	app.New().
		Booting(listeners.Register).
		Routes(func(r *router.Router) error {
			return routes.Register(r, routes.Deps{DB: database.DB, Disk: storage.Default()})
		}).
		Run()
}
