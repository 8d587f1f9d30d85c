package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	budgetusecases "zavod/internal/application/budget/usecases"
	"zavod/internal/application/publishing/usecases"
	"zavod/internal/infrastructure/alerts"
	"zavod/internal/infrastructure/config"
	"zavod/internal/infrastructure/database"
	"zavod/internal/infrastructure/dispatch"
	"zavod/internal/infrastructure/migration"
	"zavod/internal/infrastructure/platform"
	"zavod/internal/infrastructure/repository"
	"zavod/internal/infrastructure/scheduler"
	"zavod/internal/infrastructure/secrets"
	"zavod/internal/shared/biztime"
	"zavod/internal/shared/constants"
	"zavod/internal/shared/db"
	"zavod/internal/shared/logger"
	"zavod/internal/shared/services/render"
)

func main() {
	// Parse environment from command line or env variable
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ZAVOD_ENV"); envVar != "" {
		env = envVar
	}

	// Load configuration
	cfg, err := config.Load(env, "")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting publication worker", "environment", env)

	// Initialize business timezone for budget window boundaries
	biztime.MustInit(cfg.App.Timezone)

	// Initialize database
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := handleMigrations(env, log); err != nil {
		logger.Fatal("migration handling failed", "error", err)
	}

	// Redis backs the alert cooldown; without it alerts still flow, just
	// without storm suppression.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warnw("redis unavailable, alert cooldown disabled", "error", err)
			redisClient = nil
		} else {
			log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
		}
	}

	cipher, err := secrets.NewCipher(cfg.Secrets.TokenKey)
	if err != nil {
		logger.Fatal("failed to initialize token cipher", "error", err)
	}

	// Repositories
	gormDB := database.Get()
	projectRepo := repository.NewProjectRepository(gormDB)
	budgetRepo := repository.NewBudgetRepository(gormDB)
	usageRepo := repository.NewUsageRecordRepository(gormDB)
	publicationRepo := repository.NewPublicationRepository(gormDB)
	contentRepo := repository.NewContentItemRepository(gormDB)
	qcRepo := repository.NewQCReportRepository(gormDB)
	tokenRepo := repository.NewIntegrationTokenRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	alertRepo := repository.NewAlertRepository(gormDB)

	txManager := db.NewTransactionManager(gormDB)

	// Alert chain: persist everything, mail critical ones, suppress storms.
	alertSink := alerts.NewCooldownSink(
		alerts.NewMultiSink(
			alerts.NewPersistentSink(alertRepo, log),
			alerts.NewEmailSink(cfg.Email, log),
		),
		redisClient,
		cfg.Alerts.Cooldown,
		log,
	)

	// Platform adapters
	renderService := render.NewService()
	registry := platform.NewRegistry(
		platform.NewTelegramAdapter(cfg.Publisher.TelegramAPIBase, cfg.Publisher.RequestTimeout, renderService),
		platform.NewVKAdapter(cfg.Publisher.VKAPIBase, cfg.Publisher.RequestTimeout, renderService),
	)

	dispatcher := dispatch.NewDurableDispatcher(taskRepo, log, cfg.Dispatcher.MaxAttempts)

	// Budget use cases
	admissionUC := budgetusecases.NewEnsureAdmissionUseCase(budgetRepo, usageRepo, alertSink, log)
	recordUsageUC := budgetusecases.NewRecordUsageUseCase(budgetRepo, usageRepo, admissionUC, txManager, log)
	budgetGuard := usecases.NewBudgetGuard(admissionUC, recordUsageUC)

	// Publishing use cases
	credentialSource := usecases.NewTokenCredentialSource(tokenRepo, cipher)
	publishUC := usecases.NewPublishPublicationUseCase(
		publicationRepo,
		contentRepo,
		qcRepo,
		budgetGuard,
		budgetGuard,
		credentialSource,
		registry,
		dispatcher,
		alertSink,
		usecases.RetryPolicy{
			MaxAttempts: cfg.Publisher.MaxAttempts,
			BaseDelay:   cfg.Publisher.RetryBaseDelay,
			MaxDelay:    cfg.Publisher.RetryMaxDelay,
		},
		log,
	)
	sweepUC := usecases.NewSweepDuePublicationsUseCase(
		publicationRepo,
		projectRepo,
		dispatcher,
		cfg.Scheduler.SweepBatchSize,
		log,
	)

	// Dispatch worker pool
	worker := dispatch.NewWorker(taskRepo, log, dispatch.WorkerConfig{
		Workers:      cfg.Dispatcher.Workers,
		PollInterval: cfg.Dispatcher.PollInterval,
		TaskTimeout:  cfg.Dispatcher.TaskTimeout,
		RequeueDelay: cfg.Dispatcher.RequeueDelay,
	})
	worker.Register(constants.TaskPublishPublication, func(ctx context.Context, payload []byte) error {
		var p usecases.PublishPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("failed to decode publish payload: %w", err)
		}
		_, err := publishUC.Execute(ctx, p.PublicationID)
		return err
	})
	worker.Start()

	// Scheduler: periodic sweep plus queue upkeep
	schedulerManager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		logger.Fatal("failed to create scheduler", "error", err)
	}
	if err := schedulerManager.RegisterPublicationJobs(sweepUC, cfg.Scheduler.SweepInterval); err != nil {
		logger.Fatal("failed to register publication jobs", "error", err)
	}
	requeueJob := dispatch.NewRequeueStuckJob(taskRepo, cfg.Dispatcher.VisibilityTimeout)
	if err := schedulerManager.RegisterDispatchMaintenanceJobs(requeueJob, time.Minute); err != nil {
		logger.Fatal("failed to register dispatch maintenance jobs", "error", err)
	}
	schedulerManager.Start()

	log.Infow("publication worker started",
		"workers", cfg.Dispatcher.Workers,
		"sweep_interval", cfg.Scheduler.SweepInterval,
	)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)

	if err := schedulerManager.Stop(); err != nil {
		log.Errorw("scheduler shutdown failed", "error", err)
	}
	worker.Stop()

	log.Infow("publication worker stopped")
}

func handleMigrations(environment string, log logger.Interface) error {
	if environment == constants.EnvDevelopment {
		log.Infow("running auto-migration")
		manager := migration.NewManager(environment, log)
		if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Infow("auto-migration completed successfully")
		return nil
	}

	log.Infow("checking migration status")

	scriptsPath, err := filepath.Abs("./internal/infrastructure/migration/scripts")
	if err != nil {
		log.Warnw("failed to get migration scripts path", "error", err)
		return nil
	}

	strategy := migration.NewGooseStrategy(scriptsPath, log)
	version, err := strategy.GetVersion(database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", version)

	return nil
}
