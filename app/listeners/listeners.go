// Package listeners reacts to catalog write events.
package listeners

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

var once sync.Once

// Register subscribes the listeners once per process.
func Register() {
	once.Do(func() {
		event.Listen(services.CategorySaved, ForgetCategoryReads)
		event.Listen(services.CategorySaved, logSaved("category"))
		event.Listen(services.ProductSaved, logSaved("product"))
	})
}

// ForgetCategoryReads drops the cached category list and dropdown.
func ForgetCategoryReads(ctx context.Context, _ any) {
	if err := cache.Forget(ctx, services.CategoryListKey, services.CategoryDropdownKey); err != nil {
		logger.WithCtx(ctx).Warn("cache: forget category reads", "error", err)
	}
}

func logSaved(entity string) event.Handler {
	return func(ctx context.Context, id any) {
		logger.WithCtx(ctx).Info(entity+" saved", "id", id)
	}
}
