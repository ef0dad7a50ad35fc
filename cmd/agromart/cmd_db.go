package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/agromart/pkg/app"
)

// agromart migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return app.Migrate(cmd.OutOrStdout())
	},
}

// agromart migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return app.MigrateRollback(cmd.OutOrStdout())
	},
}

// agromart migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.MigrateStatus(cmd.OutOrStdout())
	},
}

// agromart seed
var seedCmd = &cobra.Command{
	Use:   "seed [name...]",
	Short: "Load the demo catalog into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return a.Seed(ctx, cmd.OutOrStdout(), args...)
		})
	},
}
