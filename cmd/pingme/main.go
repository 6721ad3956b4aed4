package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pingme/internal/cli"
	"pingme/internal/config"
	"pingme/internal/domain"
	"pingme/internal/logger"
	"pingme/internal/repository"
	"pingme/internal/seed"
	"pingme/internal/service"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	log := logger.Module("main")

	db, err := initDatabase(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	sessionRepo := repository.NewSessionRepository(db)
	eventBus := domain.NewEventBus()
	seedData := seed.Data{}

	chatSvc := service.NewChatService(seedData, eventBus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	switch cfg.Mode {
	case "headless":
		runHeadless(ctx, cfg, sessionRepo, eventBus, seedData, chatSvc)
	default:
		runInteractive(ctx, cfg, sessionRepo, eventBus, seedData, chatSvc)
	}
}

func runInteractive(
	ctx context.Context,
	cfg *config.Config,
	sessionRepo repository.SessionRepository,
	eventBus domain.EventBus,
	seedData seed.Data,
	chatSvc *service.ChatService,
) {
	log := logger.Module("main")

	// The interactive frontend doubles as the toast surface, so it has to
	// exist before the session service.
	var frontend *cli.InteractiveCLI
	notifier := service.NotifierFunc(func(title, detail string) {
		frontend.Notify(title, detail)
	})

	sessionSvc := service.NewSessionService(sessionRepo, eventBus, seedData.Accounts(), seed.Password, notifier, cfg.AuthDelay)
	handler := cli.NewCommandHandler(sessionSvc, chatSvc, eventBus)
	frontend = cli.NewInteractiveCLI(handler)

	if err := sessionSvc.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("session restore failed")
	}
	chatSvc.Initialize(sessionSvc.Current())

	if err := frontend.Run(ctx); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("cli error")
	}
}

func runHeadless(
	ctx context.Context,
	cfg *config.Config,
	sessionRepo repository.SessionRepository,
	eventBus domain.EventBus,
	seedData seed.Data,
	chatSvc *service.ChatService,
) {
	log := logger.Module("main")

	// Failures reach headless drivers through error responses; there is no
	// toast surface to notify.
	sessionSvc := service.NewSessionService(sessionRepo, eventBus, seedData.Accounts(), seed.Password, service.NopNotifier, cfg.AuthDelay)
	handler := cli.NewCommandHandler(sessionSvc, chatSvc, eventBus)

	if err := sessionSvc.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("session restore failed")
	}
	chatSvc.Initialize(sessionSvc.Current())

	if err := cli.NewHeadlessCLI(handler).Run(ctx); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("cli error")
	}
}

func initDatabase(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.NewGormLogger("gorm"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	db.Exec("PRAGMA journal_mode=WAL")

	if err := db.AutoMigrate(&repository.SessionRecordModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
