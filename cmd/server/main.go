package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"whatsapp_dashboard/internal/config"
	"whatsapp_dashboard/internal/database"
	"whatsapp_dashboard/internal/handlers"
	"whatsapp_dashboard/internal/middleware"
	"whatsapp_dashboard/internal/migrations"
	"whatsapp_dashboard/internal/observability"
	"whatsapp_dashboard/internal/queue"
	"whatsapp_dashboard/internal/redis"
	"whatsapp_dashboard/internal/repository"
	"whatsapp_dashboard/internal/scheduler"
	"whatsapp_dashboard/internal/services"
	"whatsapp_dashboard/internal/storage"
	"whatsapp_dashboard/internal/telemetry"
	"whatsapp_dashboard/internal/validation"
	"whatsapp_dashboard/pkg/evolution"
	"whatsapp_dashboard/pkg/nocodb"
)

const serviceName = "whatsapp-dashboard"

type dispatchQueue interface {
	queue.Publisher
	queue.Consumer
	Close() error
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	// NocoDB base and tables
	noco := nocodb.NewClient(cfg.NocoDBURL, cfg.NocoDBToken)
	baseID := cfg.NocoDBBaseID
	if baseID == "" {
		if baseID, err = noco.ResolveBaseID(ctx, cfg.NocoDBBaseTitle); err != nil {
			return err
		}
		slog.Warn("NOCODB_BASE_ID not set, resolved by title", "base_id", baseID)
	}
	tableIDs, err := repository.ResolveTables(ctx, noco, baseID, map[string]string{
		"users":         cfg.Tables.Users,
		"notifications": cfg.Tables.Notifications,
		"tutorials":     cfg.Tables.Tutorials,
		"contacts":      cfg.Tables.Contacts,
		"instances":     cfg.Tables.Instances,
		"campaigns":     cfg.Tables.Campaigns,
	})
	if err != nil {
		return err
	}

	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrations.RunMigrations(db); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	// Repositories
	fallbackService := services.NewFallbackService(repository.NewFallbackRepository(db), noco, baseID)
	table := func(key string) *repository.Table {
		return repository.NewTable(noco, baseID, tableIDs[key], cfg.NocoDBListLimit, fallbackService)
	}
	userRepo := repository.NewUserRepository(table("users"))
	notificationRepo := repository.NewNotificationRepository(table("notifications"))
	tutorialRepo := repository.NewTutorialRepository(table("tutorials"))
	contactRepo := repository.NewContactRepository(table("contacts"))
	instanceRepo := repository.NewInstanceRepository(table("instances"))
	campaignRepo := repository.NewCampaignRepository(table("campaigns"))

	// Gateways
	evolutionClient := evolution.NewClient(cfg.EvolutionAPIURL, cfg.EvolutionAPIKey)

	var jobs dispatchQueue
	if cfg.RabbitMQURL != "" {
		if jobs, err = queue.NewAMQPQueue(cfg.RabbitMQURL, queue.DispatchQueue); err != nil {
			return err
		}
	} else {
		slog.Warn("RABBITMQ_URL not set, dispatch jobs are kept in memory")
		jobs = queue.NewMemoryQueue(256)
	}
	defer jobs.Close()

	var store storage.Storage
	switch cfg.StorageBackend {
	case "nocodb":
		store = storage.NewNocoDB(noco)
	default:
		if store, err = storage.NewMinIO(ctx, storage.MinIOOptions{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOBucket,
			PublicURL: cfg.MinIOPublicURL,
		}); err != nil {
			return err
		}
	}

	webhooks, err := services.NewWebhookRouter(cfg.WebhookBaseURL, cfg.WebhookRoutes)
	if err != nil {
		return err
	}

	// Services
	authService := services.NewAuthService(userRepo, redisClient, time.Duration(cfg.SessionTimeout)*time.Second)
	notificationService := services.NewNotificationService(notificationRepo, webhooks, jobs)
	tutorialService := services.NewTutorialService(tutorialRepo, redisClient, time.Duration(cfg.CacheTTL)*time.Second)
	instanceService := services.NewInstanceService(instanceRepo, evolutionClient)
	groupService := services.NewGroupService(evolutionClient, instanceRepo)
	campaignService := services.NewCampaignService(campaignRepo, jobs)
	contactService := services.NewContactService(contactRepo)
	dashboardService := services.NewDashboardService(notificationRepo, campaignRepo, tutorialService, instanceService)
	uploadService := services.NewUploadService(store)
	dispatcher := services.NewDispatcher(evolutionClient, campaignRepo)

	go func() {
		if err := jobs.Consume(ctx, dispatcher.Handle); err != nil {
			slog.Error("dispatch consumer stopped", "error", err)
		}
	}()

	syncScheduler, err := scheduler.New(fallbackService, cfg.FallbackSyncCron)
	if err != nil {
		return err
	}
	syncScheduler.Start(ctx)
	defer syncScheduler.Stop()

	// Handlers
	apiHandler := handlers.NewAPIHandler(handlers.APIServices{
		Auth:          authService,
		Dashboard:     dashboardService,
		Notifications: notificationService,
		Tutorials:     tutorialService,
		Contacts:      contactService,
		Uploads:       uploadService,
		Fallback:      fallbackService,
		HealthChecks: []handlers.HealthCheck{
			{Name: "redis", Check: redisClient.Ping},
			{Name: "postgres", Check: sqlDB.PingContext},
		},
	})
	whatsappHandler := handlers.NewWhatsAppHandler(instanceService, groupService, campaignService)

	if err := validation.Register(); err != nil {
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.Use(observability.HTTPMetricsMiddleware())
	if cfg.OTLPEndpoint != "" {
		router.Use(telemetry.Middleware(serviceName))
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(router, apiHandler, whatsappHandler,
		middleware.Auth(authService),
		middleware.RateLimit(redisClient, "login", cfg.LoginRateLimit, time.Minute),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.ServerPort, "base_id", baseID, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
