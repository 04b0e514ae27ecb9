package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_category_table", &CreateCategoryTable{})
}

type CreateCategoryTable struct{}

func (m *CreateCategoryTable) Up(db *gorm.DB) error {
	return db.Migrator().CreateTable(&models.Category{})
}

func (m *CreateCategoryTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("category")
}
