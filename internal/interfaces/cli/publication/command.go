package publication

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"zavod/internal/application/publishing/dto"
	"zavod/internal/application/publishing/usecases"
	"zavod/internal/infrastructure/config"
	"zavod/internal/infrastructure/database"
	"zavod/internal/infrastructure/dispatch"
	"zavod/internal/infrastructure/repository"
	"zavod/internal/shared/biztime"
	"zavod/internal/shared/db"
	"zavod/internal/shared/logger"
)

var (
	env        string
	configPath string

	projectID      uint
	contentItemID  uint
	platformFlag   string
	scheduledAt    string
	idempotencyKey string

	publicationID uint
	postID        string
	postURL       string
	publishedAt   string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publication",
		Short: "Manage scheduled publications",
		Long:  `Schedule publications for delivery and reconcile out-of-band deliveries.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newScheduleCommand(),
		newMarkPublishedCommand(),
	)

	return cmd
}

func newScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a publication",
		Long:  `Create a scheduled publication and enqueue its delivery task. Re-running with the same inputs returns the existing row unchanged.`,
		RunE:  runSchedule,
	}

	cmd.Flags().UintVarP(&projectID, "project", "p", 0, "Project ID (required)")
	cmd.Flags().UintVar(&contentItemID, "content-item", 0, "Content item ID (required)")
	cmd.Flags().StringVar(&platformFlag, "platform", "", "Target platform: telegram or vk (required)")
	cmd.Flags().StringVar(&scheduledAt, "at", "", "Delivery time in RFC3339 (default: now)")
	cmd.Flags().StringVar(&idempotencyKey, "key", "", "Idempotency key (default: derived from project, content item, platform and time)")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("content-item")
	cmd.MarkFlagRequired("platform")

	return cmd
}

func newMarkPublishedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark-published",
		Short: "Reconcile an out-of-band delivery",
		Long:  `Mark a publication as published with the platform post reference when delivery happened outside the worker.`,
		RunE:  runMarkPublished,
	}

	cmd.Flags().UintVar(&publicationID, "publication", 0, "Publication ID (required)")
	cmd.Flags().StringVar(&postID, "post-id", "", "Platform post ID (required)")
	cmd.Flags().StringVar(&postURL, "post-url", "", "Platform post URL")
	cmd.Flags().StringVar(&publishedAt, "published-at", "", "Delivery time in RFC3339 (default: now)")
	cmd.MarkFlagRequired("publication")
	cmd.MarkFlagRequired("post-id")

	return cmd
}

func initEnv() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if err := biztime.Init(cfg.App.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, log, nil
}

func parseTimeFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return t, nil
}

func printPublication(p *dto.PublicationDTO) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	at, err := parseTimeFlag(scheduledAt)
	if err != nil {
		return err
	}
	if at.IsZero() {
		at = biztime.NowUTC()
	}

	gormDB := database.Get()
	dispatcher := dispatch.NewDurableDispatcher(
		repository.NewTaskRepository(gormDB),
		log,
		cfg.Dispatcher.MaxAttempts,
	)
	uc := usecases.NewSchedulePublicationUseCase(
		repository.NewPublicationRepository(gormDB),
		dispatcher,
		db.NewTransactionManager(gormDB),
		log,
	)

	pub, err := uc.Execute(cmd.Context(), usecases.SchedulePublicationCommand{
		ProjectID:      projectID,
		ContentItemID:  contentItemID,
		Platform:       platformFlag,
		ScheduledAt:    at,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		log.Errorw("failed to schedule publication", "project_id", projectID, "error", err)
		return err
	}

	return printPublication(dto.FromEntity(pub))
}

func runMarkPublished(cmd *cobra.Command, args []string) error {
	_, log, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	at, err := parseTimeFlag(publishedAt)
	if err != nil {
		return err
	}

	uc := usecases.NewMarkPublishedUseCase(
		repository.NewPublicationRepository(database.Get()),
		log,
	)

	pub, err := uc.Execute(cmd.Context(), usecases.MarkPublishedCommand{
		PublicationID:   publicationID,
		PlatformPostID:  postID,
		PlatformPostURL: postURL,
		PublishedAt:     at,
	})
	if err != nil {
		log.Errorw("failed to mark publication published", "publication_id", publicationID, "error", err)
		return err
	}

	return printPublication(dto.FromEntity(pub))
}
