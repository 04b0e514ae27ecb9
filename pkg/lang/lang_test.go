package lang_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/lang"
)

func TestCatalogMessages(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "Category created successfully.", lang.T(ctx, lang.CategoryInserted))
	assert.Equal(t, "Product data not found.", lang.T(ctx, lang.ProductNotFound))
	assert.Equal(t, "Oops! Something went wrong. Please try again later", lang.T(ctx, lang.InternalServerError))
}

func TestUnknownLocaleFallsBackToEnglish(t *testing.T) {
	ctx := lang.WithLocale(context.Background(), "fr-CH, fr;q=0.9")
	assert.Equal(t, "Category data not found.", lang.T(ctx, lang.CategoryNotFound))
}

func TestUnknownIDReturnedVerbatim(t *testing.T) {
	assert.Equal(t, "NOPE", lang.T(context.Background(), "NOPE"))
}
