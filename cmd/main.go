package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Dispatch Coordination System API
// @version 1.0
// @description API консоли диспетчеризации: инциденты, workflow статусов, маршрут офицера до места происшествия.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var rootCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Emergency dispatch coordination server",
	Long: `dispatch serves the officer console API: incident listing,
status workflow with authority notification, and live routing from
the officer's position to the selected incident.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
