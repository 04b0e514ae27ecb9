// Package routes is the route table of the catalog service.
package routes

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/app/graph"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/router"
	"github.com/shashiranjanraj/catalog/pkg/storage"
	"github.com/shashiranjanraj/catalog/pkg/upload"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// Deps are the connections the routes are built on.
type Deps struct {
	DB   *gorm.DB
	Disk storage.Disk
}

// Register mounts the API, GraphQL and uploaded asset routes on r.
func Register(r *router.Router, d Deps) error {
	categoryRepo := repositories.NewCategoryRepository(d.DB)
	productRepo := repositories.NewProductRepository(d.DB)
	images := upload.New(d.Disk)
	validator := validate.New(database.NewPresence(d.DB))

	categoryController := controllers.NewCategoryController(services.NewCategoryService(categoryRepo, images), validator)
	productController := controllers.NewProductController(services.NewProductService(productRepo, images), validator)
	userController := controllers.NewUserController()

	api := r.Group("/api")
	api.Get("/user", "user.show", ctx.Wrap(userController.Show), middleware.Auth)

	api.Post("/insert_category", "category.insert", ctx.Wrap(categoryController.Insert))
	api.Post("/update_category", "category.update", ctx.Wrap(categoryController.Update))
	api.Get("/get_category", "category.list", ctx.Wrap(categoryController.List))
	api.Get("/get_category_by_id", "category.show", ctx.Wrap(categoryController.Show))
	api.Get("/get_categories", "category.dropdown", ctx.Wrap(categoryController.Dropdown))

	api.Post("/insert_product", "product.insert", ctx.Wrap(productController.Insert))
	api.Post("/update_product", "product.update", ctx.Wrap(productController.Update))
	api.Get("/get_product", "product.list", ctx.Wrap(productController.List))
	api.Get("/get_product_by_id", "product.show", ctx.Wrap(productController.Show))

	schema, err := graph.NewSchema(categoryRepo, productRepo)
	if err != nil {
		return fmt.Errorf("routes: graphql schema: %w", err)
	}
	gql := graph.Handler(schema)
	r.Post("/graphql", "graphql", gql)
	r.Get("/graphql", "", gql)

	r.Mount("/"+upload.AssetPrefix, "upload", storage.Handler(d.Disk, upload.AssetPrefix))

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return nil
}
