package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/lang"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// router applies the global middleware stack, then the application's route
// callbacks. The limiter's sweeper runs until ctx is done.
func (a *Application) router(ctx context.Context) (*router.Router, error) {
	r := router.New()

	limiter := middleware.NewLimiter(config.RateLimit(), time.Minute)
	go limiter.Sweep(ctx)

	// Outermost first: metrics sees total latency, recovery guards everything
	// below it, the request ID exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(lang.Middleware)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(limiter.Handler)

	r.Get("/metrics", "metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		if err := fn(r); err != nil {
			return nil, fmt.Errorf("app: register routes: %w", err)
		}
	}
	return r, nil
}
