package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/lang"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/upload"
)

// CategoryStore is the persistence the category service needs.
// *repositories.CategoryRepository satisfies it.
type CategoryStore interface {
	Create(ctx context.Context, c *models.Category, attach repositories.AttachFunc) error
	Update(ctx context.Context, id uint, changes map[string]any, attach repositories.AttachFunc) error
	ListActive(ctx context.Context) ([]models.CategoryView, error)
	Find(ctx context.Context, id uint) (*models.CategoryView, error)
	Dropdown(ctx context.Context) ([]models.DropdownItem, error)
}

// CategoryService implements the category operations over a CategoryStore
// and the uploaded image store.
type CategoryService struct {
	store  CategoryStore
	images Images
}

// NewCategoryService returns a CategoryService backed by store and images.
func NewCategoryService(store CategoryStore, images Images) *CategoryService {
	return &CategoryService{store: store, images: images}
}

// Insert creates an ON category and stores its image under the new id.
func (s *CategoryService) Insert(ctx context.Context, in requests.InsertCategory) response.Result {
	c := &models.Category{
		Name:           in.Name,
		ParentCategory: in.ParentCategory,
		Status:         models.StatusOn,
	}

	var written string
	err := s.store.Create(ctx, c, attachImage(ctx, s.images, in.Image, upload.CategoryDir, "category_image", &written))
	if err != nil {
		discard(ctx, s.images, written)
		if errors.Is(err, repositories.ErrNotCreated) {
			return response.Fail(http.StatusBadRequest, lang.T(ctx, lang.CategoryFailed))
		}
		return serverError(ctx, "category insert", err)
	}

	event.Fire(ctx, CategorySaved, c.ID)
	return response.Success(lang.T(ctx, lang.CategoryInserted)).With("category_id", c.ID)
}

// Update changes only the supplied fields of an existing category.
func (s *CategoryService) Update(ctx context.Context, in requests.UpdateCategory) response.Result {
	id := toUint(in.ID)
	if id == nil {
		return response.Fail(http.StatusNotFound, lang.T(ctx, lang.CategoryNotFound))
	}

	changes := map[string]any{}
	if in.Name != nil {
		changes["name"] = *in.Name
	}
	if in.ParentCategory != nil {
		changes["parent_category"] = *in.ParentCategory
	}
	if in.Status != nil {
		changes["status"] = *in.Status
	}

	var written string
	err := s.store.Update(ctx, *id, changes, attachImage(ctx, s.images, in.Image, upload.CategoryDir, "category_image", &written))
	if err != nil {
		discard(ctx, s.images, written)
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Fail(http.StatusNotFound, lang.T(ctx, lang.CategoryNotFound))
		}
		return serverError(ctx, "category update", err)
	}

	event.Fire(ctx, CategorySaved, *id)
	return response.Success(lang.T(ctx, lang.CategoryUpdated)).With("category_id", *id)
}

// GetAll lists ON categories.
func (s *CategoryService) GetAll(ctx context.Context) response.Result {
	var list []models.CategoryView
	err := cache.Remember(ctx, CategoryListKey, config.CacheTTL(), &list, func() (err error) {
		list, err = s.store.ListActive(ctx)
		return err
	})
	if err != nil {
		return serverError(ctx, "category list", err)
	}
	if len(list) == 0 {
		return response.Success(lang.T(ctx, lang.CategoryNotFound))
	}
	return response.Success(lang.T(ctx, lang.CategoryFetched)).Data(list)
}

// GetByID returns one category whatever its status.
func (s *CategoryService) GetByID(ctx context.Context, in requests.CategoryByID) response.Result {
	id := toUint(in.ID)
	if id == nil {
		return response.Success(lang.T(ctx, lang.CategoryNotFound))
	}

	c, err := s.store.Find(ctx, *id)
	if err != nil {
		return serverError(ctx, "category find", err)
	}
	if c == nil {
		return response.Success(lang.T(ctx, lang.CategoryNotFound))
	}
	return response.Success(lang.T(ctx, lang.CategoryFetched)).Data(c)
}

// GetDropdown lists {id, name} of ON categories.
func (s *CategoryService) GetDropdown(ctx context.Context) response.Result {
	var items []models.DropdownItem
	err := cache.Remember(ctx, CategoryDropdownKey, config.CacheTTL(), &items, func() (err error) {
		items, err = s.store.Dropdown(ctx)
		return err
	})
	if err != nil {
		return serverError(ctx, "category dropdown", err)
	}
	if len(items) == 0 {
		return response.Success(lang.T(ctx, lang.CategoryNotFound))
	}
	return response.Success(lang.T(ctx, lang.CategoryFetched)).Data(items)
}
