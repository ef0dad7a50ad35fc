package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/agromart/pkg/app"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// withApp boots the server side for a one-shot command. Logs go to stderr
// so command output on stdout stays clean.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := app.Boot(ctx, app.Options{LogOutput: os.Stderr})
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// agromart serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := app.Boot(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Serve(ctx)
	},
}

// agromart route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(_ context.Context, a *app.App) error {
			return a.RouteList(cmd.OutOrStdout())
		})
	},
}
