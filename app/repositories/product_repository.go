package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts p, then lets attach store the image under the new id and
// records the returned path, all in one transaction.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product, attach AttachFunc) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category").Create(p).Error; err != nil {
			return fmt.Errorf("product create: %w", err)
		}
		if p.ID == 0 {
			return ErrNotCreated
		}
		if attach == nil {
			return nil
		}

		path, err := attach(p.ID)
		if err != nil {
			return err
		}
		if path == "" {
			return nil
		}
		if err := tx.Model(p).Update("image", path).Error; err != nil {
			return fmt.Errorf("product set image: %w", err)
		}
		p.Image = &path
		return nil
	})
}

// Update applies changes to the product with the given id. attach runs
// only once the row is known to exist; its path is added to changes.
func (r *ProductRepository) Update(ctx context.Context, id uint, changes map[string]any, attach AttachFunc) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found models.Product
		err := tx.Select("id").Where("id = ?", id).Take(&found).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("product find %d: %w", id, err)
		}

		if attach != nil {
			path, err := attach(id)
			if err != nil {
				return err
			}
			if path != "" {
				changes["image"] = path
			}
		}
		if len(changes) == 0 {
			return nil
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return fmt.Errorf("product update %d: %w", id, err)
		}
		return nil
	})
}

func (r *ProductRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("product").
		Select("product.id, product.name, product.image, product.description, " +
			"product.category_id, category.name AS category_name, product.status").
		Joins("LEFT JOIN category ON category.id = product.category_id")
}

// ListActive returns ON products with their category name, optionally
// restricted to one category, ordered by id.
func (r *ProductRepository) ListActive(ctx context.Context, categoryID *uint) ([]models.ProductView, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	q := r.joined(ctx).Where("product.status = ?", models.StatusOn)
	if categoryID != nil {
		q = q.Where("product.category_id = ?", *categoryID)
	}

	var out []models.ProductView
	if err := q.Order("product.id").Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("product list: %w", err)
	}
	return out, nil
}

// Find returns the product with the given id regardless of status,
// or nil when there is none.
func (r *ProductRepository) Find(ctx context.Context, id uint) (*models.ProductView, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var out []models.ProductView
	if err := r.joined(ctx).Where("product.id = ?", id).Limit(1).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("product find %d: %w", id, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}
