package seeders

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
}

type sampleCategory struct {
	name     string
	parent   string
	products []string
}

var sample = []sampleCategory{
	{name: "Books", products: []string{"Novel", "Cookbook"}},
	{name: "Fiction", parent: "Books", products: []string{"Short Stories"}},
	{name: "Stationery", products: []string{"Notebook", "Pen"}},
	{name: "Pens", parent: "Stationery", products: []string{"Pen", "Fountain Pen"}},
}

// SeedCatalog inserts a small category tree with products. Rows that already
// exist by name (and category, for products) are left alone.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := map[string]uint{}
		for _, sc := range sample {
			c := models.Category{Name: sc.name, Status: models.StatusOn}
			if sc.parent != "" {
				parent := int64(ids[sc.parent])
				c.ParentCategory = &parent
			}
			if err := tx.Where("name = ?", sc.name).FirstOrCreate(&c).Error; err != nil {
				return fmt.Errorf("category %s: %w", sc.name, err)
			}
			ids[sc.name] = c.ID

			for _, name := range sc.products {
				p := models.Product{
					Name:        name,
					Description: name + " from the sample catalogue.",
					CategoryID:  c.ID,
					Status:      models.StatusOn,
				}
				if err := tx.Where("name = ? AND category_id = ?", name, c.ID).FirstOrCreate(&p).Error; err != nil {
					return fmt.Errorf("product %s/%s: %w", sc.name, name, err)
				}
			}
		}
		return nil
	})
}
