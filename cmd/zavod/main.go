package main

import (
	"os"

	"github.com/spf13/cobra"

	"zavod/internal/interfaces/cli/migrate"
	"zavod/internal/interfaces/cli/publication"
	"zavod/internal/interfaces/cli/report"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zavod",
		Short: "Zavod - content publication pipeline",
		Long:  `Zavod schedules and delivers content publications under per-project budgets, with migration and reporting tools.`,
	}

	rootCmd.AddCommand(
		migrate.NewCommand(),
		report.NewCommand(),
		publication.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
