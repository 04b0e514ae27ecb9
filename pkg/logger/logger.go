// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the per-request logger injected by the HTTP middleware so
// every line from a handler or service carries the request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("category created", "category_id", id)
//	// → time=... level=INFO msg="category created" request_id=a1b2c3d4 category_id=7
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/catalog/config"
)

var L *slog.Logger

// closers are flushed by Close on shutdown.
var closers []io.Closer

func init() {
	L = slog.New(consoleHandler(os.Stdout))
	slog.SetDefault(L)
}

func consoleHandler(w io.Writer) slog.Handler {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Setup attaches the optional MongoDB sink when LOG_MONGO_URI is set.
// Records then fan out to stdout and Mongo. Call Close on shutdown.
func Setup() error {
	uri := config.LogMongoURI()
	if uri == "" {
		return nil
	}

	mh, err := NewMongoHandler(uri, config.LogMongoDB(), "logs")
	if err != nil {
		return fmt.Errorf("logger: mongo sink: %w", err)
	}
	closers = append(closers, mh)

	L = slog.New(NewMultiHandler(consoleHandler(os.Stdout), mh))
	slog.SetDefault(L)
	return nil
}

// Close flushes and releases every attached sink.
func Close() {
	for _, c := range closers {
		_ = c.Close()
	}
	closers = nil
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the logger injected into ctx by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
