// Package services turns validated requests into store calls and envelopes.
//
// Every operation returns a response.Result; errors never escape a service.
package services

import (
	"context"
	"mime/multipart"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/lang"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/upload"
)

// Events fired after a successful write. The payload is the row id.
const (
	CategorySaved = "category.saved"
	ProductSaved  = "product.saved"
)

// Cache keys of the category reads.
const (
	CategoryListKey     = "categories:list"
	CategoryDropdownKey = "categories:dropdown"
)

// Images stores and removes uploaded images. *upload.Ingestor satisfies it.
type Images interface {
	Ingest(ctx context.Context, fh *multipart.FileHeader, basePath, prefix string, unique bool) (string, error)
	Discard(ctx context.Context, rel string) error
}

var _ Images = (*upload.Ingestor)(nil)

// attachImage ingests fh into segment/<id>. The written path is kept in
// *written so the caller can remove it if the transaction fails afterwards.
func attachImage(ctx context.Context, images Images, fh *multipart.FileHeader, segment, prefix string, written *string) repositories.AttachFunc {
	if fh == nil {
		return nil
	}
	return func(id uint) (string, error) {
		rel, err := images.Ingest(ctx, fh, upload.Dir(segment, id), prefix, true)
		if err != nil {
			return "", err
		}
		*written = rel
		return rel, nil
	}
}

func discard(ctx context.Context, images Images, rel string) {
	if rel == "" {
		return
	}
	if err := images.Discard(ctx, rel); err != nil {
		logger.WithCtx(ctx).Warn("orphaned upload left behind", "path", rel, "error", err)
	}
}

func serverError(ctx context.Context, op string, err error) response.Result {
	logger.WithCtx(ctx).Error(op+" failed", "error", err)
	return response.ServerError(lang.T(ctx, lang.InternalServerError), err)
}

func toUint(v *int64) *uint {
	if v == nil || *v < 0 {
		return nil
	}
	u := uint(*v)
	return &u
}
