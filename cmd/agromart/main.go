package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "agromart",
	Short:         "AgroMart catalog server and storefront client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Store
	rootCmd.AddCommand(sheetsInitCmd)
	rootCmd.AddCommand(sheetsTestCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backupCmd)

	// Storefront client
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(chatCmd)
}
