package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

func init() {
	migration.Register("20260101000001_create_product_table", &CreateProductTable{})
}

// CreateProductTable adds product with category_id → category.id ON DELETE CASCADE.
type CreateProductTable struct{}

func (m *CreateProductTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.Product{})
}

func (m *CreateProductTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product")
}
