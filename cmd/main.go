package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/om-bhesania/Den-Manager/internal/automod"
	"github.com/om-bhesania/Den-Manager/internal/bot"
	"github.com/om-bhesania/Den-Manager/internal/commands"
	"github.com/om-bhesania/Den-Manager/internal/config"
	"github.com/om-bhesania/Den-Manager/internal/database"
	"github.com/om-bhesania/Den-Manager/internal/logging"
	"github.com/om-bhesania/Den-Manager/internal/notifier"
)

func main() {
	cfg := config.LoadOrDefault("config.json")

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Bot.Token == "" {
		logger.Fatal("no Discord token configured; set DISCORD_TOKEN or bot.token in config.json")
	}

	logger.Info("Starting Den Manager",
		zap.String("database", cfg.Storage.DatabasePath))

	db, err := database.Open(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	session, err := bot.New(cfg.Bot.Token, logger)
	if err != nil {
		logger.Fatal("failed to create Discord session", zap.Error(err))
	}

	store := automod.NewGuildConfigStore(db, logger)
	moderator := bot.NewModerator(session, logger)
	notify := notifier.New(session.Discord(), logger)
	svc := automod.NewService(store, automod.SystemClock(), moderator, notify, db, logger)

	session.SetupEventHandlers(svc)

	if err := session.Connect(); err != nil {
		logger.Fatal("failed to connect to Discord", zap.Error(err))
	}
	defer session.Close()

	if _, err := commands.New(session, svc, db, logger); err != nil {
		logger.Fatal("failed to initialize commands", zap.Error(err))
	}

	logger.Info("Den Manager is running; press Ctrl+C to exit")
	waitForShutdown()
	logger.Info("Shutdown complete")
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
