package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/lang"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/upload"
)

// ProductStore is the persistence the product service needs.
// *repositories.ProductRepository satisfies it.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product, attach repositories.AttachFunc) error
	Update(ctx context.Context, id uint, changes map[string]any, attach repositories.AttachFunc) error
	ListActive(ctx context.Context, categoryID *uint) ([]models.ProductView, error)
	Find(ctx context.Context, id uint) (*models.ProductView, error)
}

// ProductService implements the product operations over a ProductStore
// and the uploaded image store.
type ProductService struct {
	store  ProductStore
	images Images
}

// NewProductService returns a ProductService backed by store and images.
func NewProductService(store ProductStore, images Images) *ProductService {
	return &ProductService{store: store, images: images}
}

// Insert creates an ON product and stores its image under the new id.
func (s *ProductService) Insert(ctx context.Context, in requests.InsertProduct) response.Result {
	categoryID := toUint(&in.CategoryID)
	if categoryID == nil {
		return response.Fail(http.StatusBadRequest, lang.T(ctx, lang.ProductFailed))
	}

	p := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  *categoryID,
		Status:      models.StatusOn,
	}

	var written string
	err := s.store.Create(ctx, p, attachImage(ctx, s.images, in.Image, upload.ProductDir, "product_image", &written))
	if err != nil {
		discard(ctx, s.images, written)
		if errors.Is(err, repositories.ErrNotCreated) {
			return response.Fail(http.StatusBadRequest, lang.T(ctx, lang.ProductFailed))
		}
		return serverError(ctx, "product insert", err)
	}

	event.Fire(ctx, ProductSaved, p.ID)
	return response.Success(lang.T(ctx, lang.ProductInserted)).With("product_id", p.ID)
}

// Update changes the supplied fields of an existing product. Status is always set.
func (s *ProductService) Update(ctx context.Context, in requests.UpdateProduct) response.Result {
	id := toUint(in.ID)
	if id == nil {
		return response.Fail(http.StatusNotFound, lang.T(ctx, lang.ProductNotFound))
	}

	changes := map[string]any{"status": in.Status}
	if in.Name != nil {
		changes["name"] = *in.Name
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	if cid := toUint(in.CategoryID); cid != nil {
		changes["category_id"] = *cid
	}

	var written string
	err := s.store.Update(ctx, *id, changes, attachImage(ctx, s.images, in.Image, upload.ProductDir, "product_image", &written))
	if err != nil {
		discard(ctx, s.images, written)
		if errors.Is(err, repositories.ErrNotFound) {
			return response.Fail(http.StatusNotFound, lang.T(ctx, lang.ProductNotFound))
		}
		return serverError(ctx, "product update", err)
	}

	event.Fire(ctx, ProductSaved, *id)
	return response.Success(lang.T(ctx, lang.ProductUpdated)).With("product_id", *id)
}

// GetAll lists ON products, optionally of one category.
func (s *ProductService) GetAll(ctx context.Context, in requests.ProductList) response.Result {
	var categoryID *uint
	if in.CategoryID != nil {
		if categoryID = toUint(in.CategoryID); categoryID == nil {
			return response.Success(lang.T(ctx, lang.ProductNotFound))
		}
	}

	list, err := s.store.ListActive(ctx, categoryID)
	if err != nil {
		return serverError(ctx, "product list", err)
	}
	if len(list) == 0 {
		return response.Success(lang.T(ctx, lang.ProductNotFound))
	}
	return response.Success(lang.T(ctx, lang.ProductFetched)).Data(list)
}

// GetByID returns one product whatever its status.
func (s *ProductService) GetByID(ctx context.Context, in requests.ProductByID) response.Result {
	id := toUint(in.ID)
	if id == nil {
		return response.Success(lang.T(ctx, lang.ProductNotFound))
	}

	p, err := s.store.Find(ctx, *id)
	if err != nil {
		return serverError(ctx, "product find", err)
	}
	if p == nil {
		return response.Success(lang.T(ctx, lang.ProductNotFound))
	}
	return response.Success(lang.T(ctx, lang.ProductFetched)).Data(p)
}
