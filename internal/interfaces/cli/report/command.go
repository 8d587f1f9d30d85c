package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"zavod/internal/application/budget/usecases"
	"zavod/internal/infrastructure/config"
	"zavod/internal/infrastructure/database"
	"zavod/internal/infrastructure/repository"
	"zavod/internal/shared/biztime"
	"zavod/internal/shared/logger"
)

var (
	env        string
	configPath string
	projectID  uint
	atFlag     string
	outPath    string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a project budget utilization report",
		Long:  `Build the daily/weekly/monthly budget utilization report for a project and write it as CSV.`,
		RunE:  runReport,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.Flags().UintVarP(&projectID, "project", "p", 0, "Project ID (required)")
	cmd.Flags().StringVar(&atFlag, "at", "", "Report reference time in RFC3339 (default: now)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file path (default: stdout)")
	cmd.MarkFlagRequired("project")

	return cmd
}

func initEnv() (logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if err := biztime.Init(cfg.App.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return log, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	var at time.Time
	if atFlag != "" {
		at, err = time.Parse(time.RFC3339, atFlag)
		if err != nil {
			return fmt.Errorf("invalid --at value %q: %w", atFlag, err)
		}
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	db := database.Get()
	build := usecases.NewBuildReportUseCase(
		repository.NewBudgetRepository(db),
		repository.NewUsageRecordRepository(db),
		log,
	)
	export := usecases.NewExportReportUseCase(build, log)

	if err := export.Execute(cmd.Context(), projectID, at, out); err != nil {
		log.Errorw("failed to export budget report", "project_id", projectID, "error", err)
		return err
	}

	if outPath != "" {
		log.Infow("budget report written", "project_id", projectID, "path", outPath)
	}
	return nil
}
