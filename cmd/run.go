package cmd

import (
	"context"
	"fmt"
	"time"

	"raffle/application"
	"raffle/bot"
	"raffle/config"
	"raffle/database"
	"raffle/events"
	"raffle/infrastructure"
	"raffle/metrics"
	"raffle/repository"
	"raffle/server"
	"raffle/service"

	log "github.com/sirupsen/logrus"
)

const notificationStream = "raffle_notifications"

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)

	log.Info("Starting raffle engine...")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	ticketService := service.NewTicketService(uowFactory)
	drawService := service.NewDrawService(uowFactory, service.NewSecureRandom())
	accountService := service.NewAccountService(uowFactory)
	notificationService := service.NewNotificationService(uowFactory)
	log.Info("Services initialized successfully")

	metrics.NewEventMetricsCollector().Register(eventBus)

	if cfg.NotificationRelayEnabled() {
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect notification relay: %w", err)
		}
		defer natsClient.Close()

		relay := infrastructure.NewNotificationRelay(natsClient, cfg.NotificationSubject)
		if err := natsClient.EnsureStream(notificationStream, relay.Subjects()); err != nil {
			return err
		}
		relay.Register(eventBus)
		log.WithField("subject", cfg.NotificationSubject).Info("Notification relay enabled")
	}

	if cfg.AnnouncerEnabled() {
		discordBot, err := bot.New(bot.Config{
			Token:     cfg.DiscordToken,
			ChannelID: cfg.DiscordChannelID,
		}, drawService, eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		defer func() {
			if err := discordBot.Close(); err != nil {
				log.Errorf("Error closing Discord bot: %v", err)
			}
		}()
	}

	if cfg.AutoResolveDraws {
		worker := application.NewDrawResolutionWorker(drawService, cfg.ResolveIdleBackoff, cfg.ResolveRetryDelay)
		stopWorker := worker.Start(ctx)
		defer stopWorker()
	}

	handlers := server.NewHandlers(ticketService, drawService, accountService, notificationService, db)
	httpServer := server.NewServer(cfg.HTTPAddr, handlers, cfg.AdminAPIKey)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	log.Infof("Raffle engine is running in %s mode...", cfg.Environment)

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	log.Info("Shutdown completed")
	return nil
}

func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
