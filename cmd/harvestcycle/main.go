package main

import (
	"os"

	"github.com/spf13/cobra"

	"harvestcycle/internal/interfaces/cli/admin"
	"harvestcycle/internal/interfaces/cli/migrate"
	"harvestcycle/internal/interfaces/cli/server"
)

// @title           harvestcycle API
// @version         1.0
// @description     Subscription delivery cycles and fresh-swap replacement requests.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:   "harvestcycle",
		Short: "harvestcycle - delivery cycle and fresh-swap service",
		Long:  `harvestcycle serves the weekly delivery calendar and the fresh-swap replacement request workflow, with migration and operator tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		admin.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
