package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/zapleads/zapleads-backend/internal/config"
	"github.com/zapleads/zapleads-backend/internal/controller"
	"github.com/zapleads/zapleads-backend/internal/db"
	"github.com/zapleads/zapleads-backend/internal/queue"
	"github.com/zapleads/zapleads-backend/internal/repository"
	"github.com/zapleads/zapleads-backend/internal/service"
)

func main() {
	logger := logrus.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, relying on OS environment variables")
	}

	cfg := config.Load()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer conn.Close()

	jobRepo := &repository.JobRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	contactRepo := &repository.ContactRepository{DB: conn}
	profileRepo := &repository.WebhookProfileRepository{DB: conn}

	var events queue.EventPublisher = queue.NoopPublisher{}
	if cfg.AMQPURL != "" {
		publisher, err := queue.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to broker")
		}
		defer publisher.Close()
		events = publisher
	}

	dispatcher := &service.Dispatcher{
		CampaignRepo: campaignRepo,
		ContactRepo:  contactRepo,
		Resolver: &service.WebhookResolver{
			Profiles:           profileRepo,
			DefaultWhatsappURL: cfg.DefaultWhatsappWebhookURL,
			DefaultEmailURL:    cfg.DefaultEmailWebhookURL,
		},
		Relay:  service.NewWebhookRelay(),
		Events: events,
		Logger: logger,
	}

	scheduler := &service.Scheduler{
		Jobs:      jobRepo,
		Sender:    dispatcher,
		Logger:    logger,
		Interval:  cfg.SchedulerInterval,
		BatchSize: cfg.SchedulerBatchSize,
	}

	campaignController := &controller.CampaignController{
		Dispatcher: dispatcher,
		Campaigns:  campaignRepo,
		Jobs:       jobRepo,
		Logger:     logger,
	}

	webhookController := &controller.WebhookController{
		Relay:  service.NewWebhookRelay(),
		Logger: logger,
	}

	r := chi.NewRouter()
	r.Post("/campaigns/{id}/send", campaignController.SendCampaign)
	r.Post("/campaigns/{id}/schedule", campaignController.ScheduleCampaign)
	r.Get("/scheduled-jobs/{id}", campaignController.GetJob)
	r.Post("/api/webhook", webhookController.Forward)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Run(ctx)
	}()

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logger.WithField("port", cfg.ServerPort).Info("server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}

	// A tick in progress finishes before Run returns.
	<-schedulerDone
}
