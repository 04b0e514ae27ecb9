// Package app provides the catalog application runner.
//
//	func main() {
//	    app.New().
//	        Booting(listeners.Register).
//	        Routes(func(r *router.Router) error {
//	            return routes.Register(r, routes.Deps{DB: database.DB, Disk: storage.Default()})
//	        }).
//	        Run()
//	}
//
// Then:
//
//	catalog serve
//	catalog migrate
//	catalog seed
//	catalog route:list
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/pkg/router"
)

// RoutesFunc registers routes on r.
type RoutesFunc func(r *router.Router) error

// Application is the central configuration object.
// Build one with New, attach callbacks, then call Run.
type Application struct {
	routesFns []RoutesFunc
	bootFns   []func()
	out       io.Writer
}

// New creates an Application writing command output to stdout.
func New() *Application {
	return &Application{out: os.Stdout}
}

// Routes adds a route-registration callback, called when the HTTP kernel is
// built. Callbacks run in the order they were added.
func (a *Application) Routes(fn RoutesFunc) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Booting adds a hook that runs once infrastructure is connected and before
// the server starts.
func (a *Application) Booting(fn func()) *Application {
	a.bootFns = append(a.bootFns, fn)
	return a
}

// Command returns the cobra root command with every sub-command attached.
func (a *Application) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalogue service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.SetOut(a.out)

	root.AddCommand(
		a.serveCmd(),
		a.migrateCmd(),
		a.migrateRollbackCmd(),
		a.migrateStatusCmd(),
		a.seedCmd(),
		a.routeListCmd(),
		a.tokenIssueCmd(),
	)
	return root
}

// Run executes the command named by os.Args. Running with no command serves.
func (a *Application) Run() {
	if err := a.Command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
