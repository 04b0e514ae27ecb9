package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/internal/server"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/migration"
	"github.com/shashiranjanraj/catalog/pkg/storage"
)

func (a *Application) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start", "run"},
		Short:   "Start the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *Application) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.boot(ctx); err != nil {
		return err
	}
	defer shutdown()

	handler, err := a.router(ctx)
	if err != nil {
		return err
	}

	return server.Run(ctx, server.Options{
		Addr:     ":" + config.AppPort(),
		Handler:  handler,
		GRPCPort: config.GRPCPort(),
		Ready:    database.Ping,
	})
}

// boot connects every backing service. Redis is optional: without it the
// cache degrades to pass-through.
func (a *Application) boot(ctx context.Context) error {
	if err := bootDB(); err != nil {
		return err
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache: redis unavailable, caching disabled", "error", err)
	}
	if err := storage.Connect(ctx); err != nil {
		return err
	}
	for _, fn := range a.bootFns {
		fn()
	}
	return nil
}

func shutdown() {
	if err := cache.Close(); err != nil {
		logger.Warn("cache: close", "error", err)
	}
	if err := database.Close(); err != nil {
		logger.Warn("database: close", "error", err)
	}
	logger.Close()
}

// bootDB loads config, attaches log sinks and opens the database.
func bootDB() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logger.Setup(); err != nil {
		logger.Warn("logger: running with stdout only", "error", err)
	}
	return database.Connect()
}

func (a *Application) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootDB(); err != nil {
				return err
			}
			defer shutdown()
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			return migration.New(database.DB, cmd.OutOrStdout()).Run()
		},
	}
}

func (a *Application) migrateRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "migrate:rollback",
		Aliases: []string{"migrate:down"},
		Short:   "Rollback the last batch of migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootDB(); err != nil {
				return err
			}
			defer shutdown()
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			return migration.New(database.DB, cmd.OutOrStdout()).Rollback()
		},
	}
}

func (a *Application) migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootDB(); err != nil {
				return err
			}
			defer shutdown()

			states, err := migration.New(database.DB, cmd.OutOrStdout()).Status()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tSTATUS\tBATCH")
			for _, st := range states {
				status, batch := "Pending", "-"
				if st.Ran {
					status, batch = "Ran", fmt.Sprint(st.Batch)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", st.Name, status, batch)
			}
			return w.Flush()
		},
	}
}

func (a *Application) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Run all database seeders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootDB(); err != nil {
				return err
			}
			defer shutdown()
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(cmd.Context(), database.DB, cmd.OutOrStdout())
		},
	}
}

// route:list builds the route table without a database; handlers are never
// invoked.
func (a *Application) routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "route:list",
		Aliases: []string{"routes"},
		Short:   "List all registered routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if err := storage.Connect(ctx); err != nil {
				return err
			}

			r, err := a.router(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range r.Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}

func (a *Application) tokenIssueCmd() *cobra.Command {
	var (
		userID uint
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token:issue",
		Short: "Issue a signed bearer token for the protected endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if userID == 0 {
				return fmt.Errorf("token:issue: --user is required")
			}
			tok, err := auth.GenerateToken(userID, strings.TrimSpace(role), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user", 0, "user id placed in the token subject")
	cmd.Flags().StringVar(&role, "role", "user", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
