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

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts c, then lets attach store the image under the new id and
// records the returned path, all in one transaction.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category, attach AttachFunc) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("category create: %w", err)
		}
		if c.ID == 0 {
			return ErrNotCreated
		}
		if attach == nil {
			return nil
		}

		path, err := attach(c.ID)
		if err != nil {
			return err
		}
		if path == "" {
			return nil
		}
		if err := tx.Model(c).Update("image", path).Error; err != nil {
			return fmt.Errorf("category set image: %w", err)
		}
		c.Image = &path
		return nil
	})
}

// Update applies changes to the category with the given id. attach runs
// only once the row is known to exist; its path is added to changes.
func (r *CategoryRepository) Update(ctx context.Context, id uint, changes map[string]any, attach AttachFunc) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found models.Category
		err := tx.Select("id").Where("id = ?", id).Take(&found).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("category find %d: %w", id, err)
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

		if err := tx.Model(&models.Category{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return fmt.Errorf("category update %d: %w", id, err)
		}
		return nil
	})
}

// ListActive returns ON categories ordered by id.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]models.CategoryView, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var out []models.CategoryView
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Select("id", "name", "image", "status").
		Where("status = ?", models.StatusOn).
		Order("id").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("category list: %w", err)
	}
	return out, nil
}

// Find returns the category with the given id regardless of status,
// or nil when there is none.
func (r *CategoryRepository) Find(ctx context.Context, id uint) (*models.CategoryView, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var out []models.CategoryView
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Select("id", "name", "image", "status").
		Where("id = ?", id).
		Limit(1).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("category find %d: %w", id, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// Dropdown returns {id, name} of ON categories ordered by id.
func (r *CategoryRepository) Dropdown(ctx context.Context) ([]models.DropdownItem, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	var out []models.DropdownItem
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Select("id", "name").
		Where("status = ?", models.StatusOn).
		Order("id").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("category dropdown: %w", err)
	}
	return out, nil
}
