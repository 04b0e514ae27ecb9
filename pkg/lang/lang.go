// Package lang resolves user-facing messages from the embedded catalog.
//
//	msg := lang.T(ctx, lang.CategoryInserted)
//
// The locale comes from the Accept-Language header captured by Middleware,
// falling back to APP_LOCALE and finally English.
package lang

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/shashiranjanraj/catalog/config"
)

// Message ids.
const (
	InternalServerError = "INTERNAL_SERVER_ERROR"
	ValidationFailed    = "VALIDATION_FAILED"
	CategoryInserted    = "CATEGORY_INSERTED"
	CategoryFailed      = "CATEGORY_FAILED"
	CategoryUpdated     = "CATEGORY_UPDATED"
	CategoryFetched     = "CATEGORY_FETCHED"
	CategoryNotFound    = "CATEGORY_NOT_FOUND"
	ProductInserted     = "PRODUCT_INSERTED"
	ProductFailed       = "PRODUCT_FAILED"
	ProductUpdated      = "PRODUCT_UPDATED"
	ProductFetched      = "PRODUCT_FETCHED"
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	Unauthorized        = "UNAUTHORIZED"
	TooManyRequests     = "TOO_MANY_REQUESTS"
	NotFound            = "NOT_FOUND"
)

//go:embed locales/*.json
var locales embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
)

func catalog() *i18n.Bundle {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := locales.ReadDir("locales")
		if err != nil {
			panic("lang: read embedded locales: " + err.Error())
		}
		for _, e := range entries {
			if _, err := bundle.LoadMessageFileFS(locales, "locales/"+e.Name()); err != nil {
				panic("lang: load " + e.Name() + ": " + err.Error())
			}
		}
	})
	return bundle
}

type ctxKey struct{}

// WithLocale stores the preferred language tags (Accept-Language format) in ctx.
func WithLocale(ctx context.Context, accept string) context.Context {
	return context.WithValue(ctx, ctxKey{}, accept)
}

// T localizes id for the locale carried by ctx. Unknown ids are returned as-is.
func T(ctx context.Context, id string) string {
	var accept string
	if ctx != nil {
		accept, _ = ctx.Value(ctxKey{}).(string)
	}

	loc := i18n.NewLocalizer(catalog(), accept, config.Locale())
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

// Middleware captures Accept-Language for T.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept-Language"); accept != "" {
			r = r.WithContext(WithLocale(r.Context(), accept))
		}
		next.ServeHTTP(w, r)
	})
}
