package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/agromart/pkg/app"
)

// agromart sheets:init
var sheetsInitCmd = &cobra.Command{
	Use:   "sheets:init",
	Short: "Create the store tabs and their header rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			return a.SheetsInit(ctx, cmd.OutOrStdout())
		})
	},
}

// agromart sheets:test
var sheetsTestCmd = &cobra.Command{
	Use:   "sheets:test",
	Short: "Check the connection to the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			return a.SheetsTest(ctx, cmd.OutOrStdout())
		})
	},
}

// agromart export [file]
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the whole catalog as JSON (stdout when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			if len(args) == 0 {
				return a.Export(ctx, cmd.OutOrStdout())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := a.Export(ctx, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✅  Exported to %s\n", args[0])
			return nil
		})
	},
}

// agromart import <file>
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the catalog with an export file (- reads stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		return withApp(func(ctx context.Context, a *app.App) error {
			res, err := a.Import(ctx, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅  Imported %d products, %d categories (settings: %t)\n",
				res.Products, res.Categories, res.Settings)
			return nil
		})
	},
}

// agromart backup
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a catalog backup to BACKUP_DISK",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			path, err := a.Backup(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅  Backup written: %s\n", path)
			return nil
		})
	},
}
