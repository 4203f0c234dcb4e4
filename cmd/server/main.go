package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mecfinder/internal/config"
	handlers "mecfinder/internal/handlers/admin"
	"mecfinder/internal/jobs"
	"mecfinder/internal/middleware"
	"mecfinder/internal/repositories/mongodb"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/pkg/cache"
	"mecfinder/pkg/database"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/maps"
	"mecfinder/pkg/payment"
	"mecfinder/pkg/push"
	"mecfinder/pkg/sms"
	"mecfinder/pkg/storage"
	"mecfinder/pkg/websocket"
	"mecfinder/routes"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Logger.Level),
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
		Compress:   cfg.Logger.Compress,
		Caller:     cfg.App.Debug,
		AppName:    cfg.App.Name,
		Version:    cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.WithError(err).Fatal("Server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) error {
	db, err := database.NewMongoDB(ctx, &database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		AppName:        cfg.App.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.NewMigrator(db.Database, appLogger).Up(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	redisCache, err := cache.NewRedisCache(ctx, &cache.RedisConfig{
		Addr:         redisAddr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		KeyPrefix:    "mecfinder:",
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisCache.Close()

	// External providers. Each one is optional and degrades to a no-op.
	cdnDomain := cfg.Storage.AWS.CDNDomain
	if cfg.Storage.Provider == "gcp" {
		cdnDomain = cfg.Storage.GCP.CDNDomain
	}
	iconStorage, err := storage.New(ctx, storage.Options{
		Provider:           cfg.Storage.Provider,
		LocalPath:          cfg.Storage.Local.BasePath,
		LocalURL:           cfg.Storage.Local.BaseURL,
		AWSRegion:          cfg.Storage.AWS.Region,
		AWSBucket:          cfg.Storage.AWS.Bucket,
		GCPBucket:          cfg.Storage.GCP.Bucket,
		GCPCredentialsFile: cfg.Storage.GCP.CredentialsFile,
		CDNDomain:          cdnDomain,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	smsProvider, err := sms.New(ctx, sms.Options{
		Provider:         cfg.SMS.Provider,
		TwilioAccountSID: cfg.SMS.Twilio.AccountSID,
		TwilioAuthToken:  cfg.SMS.Twilio.AuthToken,
		TwilioFromNumber: cfg.SMS.Twilio.FromNumber,
		AWSRegion:        cfg.SMS.AWS.Region,
		AWSSenderID:      cfg.SMS.AWS.SenderID,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize SMS provider: %w", err)
	}

	pushOpts := push.Options{}
	if cfg.Push.Provider != "none" {
		pushOpts = push.Options{
			FCMCredentialsFile: cfg.Push.FCM.Credentials,
			APNSKeyFile:        cfg.Push.APNS.KeyFile,
			APNSKeyID:          cfg.Push.APNS.KeyID,
			APNSTeamID:         cfg.Push.APNS.TeamID,
			APNSBundleID:       cfg.Push.APNS.BundleID,
			APNSProduction:     cfg.Push.APNS.Production,
		}
	}
	pushDispatcher, err := push.New(ctx, pushOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize push providers: %w", err)
	}

	paymentProvider, err := payment.New(payment.Options{
		Provider:          cfg.Payment.Provider,
		StripeSecretKey:   cfg.Payment.Stripe.SecretKey,
		RazorpayKeyID:     cfg.Payment.Razorpay.KeyID,
		RazorpayKeySecret: cfg.Payment.Razorpay.KeySecret,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %w", err)
	}

	geocoder, err := maps.New(maps.Options{
		GoogleMapsAPIKey: cfg.Maps.GoogleMaps.APIKey,
		Region:           cfg.Maps.GoogleMaps.Region,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize geocoder: %w", err)
	}

	// Repositories
	adminRepo := mongodb.NewAdminRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database)
	mechanicRepo := mongodb.NewMechanicRepository(db.Database)
	categoryRepo := mongodb.NewCategoryRepository(db.Database, redisCache)
	serviceRepo := mongodb.NewServiceRepository(db.Database)
	regionRepo := mongodb.NewRegionRepository(db.Database, redisCache)
	pricingRepo := mongodb.NewPricingRepository(db.Database)
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	supportRepo := mongodb.NewSupportRepository(db.Database)
	auditLogRepo := mongodb.NewAuditLogRepository(db.Database)

	// Ban expiry tasks share the Redis server on a separate database.
	asynqRedis := asynq.RedisClientOpt{Addr: redisAddr, Password: cfg.Redis.Password, DB: cfg.Worker.RedisDB}
	taskClient := asynq.NewClient(asynqRedis)
	defer taskClient.Close()
	banScheduler := jobs.NewScheduler(taskClient, cfg.Worker.Queue, appLogger)

	// Services
	auditService := services.NewAuditService(auditLogRepo, appLogger)
	authService := services.NewAuthService(adminRepo, auditService, redisCache, services.AuthConfig{
		Tokens: utils.TokenSettings{
			Secret:     cfg.Security.JWTSecret,
			AccessTTL:  cfg.Security.JWTAccessTokenTTL,
			RefreshTTL: cfg.Security.JWTRefreshTokenTTL,
		},
		LoginRateLimit:  cfg.Security.LoginRateLimit,
		LoginRateWindow: time.Minute,
	}, appLogger)
	notificationService := services.NewNotificationService(smsProvider, pushDispatcher, cfg.Moderation.NotifySubjects, appLogger)
	pricingService := services.NewPricingService(pricingRepo, serviceRepo, categoryRepo, regionRepo, cfg.Pricing.Defaults(), auditService, redisCache, appLogger)
	catalogService := services.NewCatalogService(categoryRepo, serviceRepo, pricingRepo, iconStorage, redisCache, auditService, redisCache, appLogger)
	regionService := services.NewRegionService(regionRepo, pricingRepo, geocoder, auditService, redisCache, appLogger)
	moderationService := services.NewModerationService(userRepo, mechanicRepo, bookingRepo, banScheduler, notificationService, auditService, redisCache, appLogger)
	bookingService := services.NewBookingService(bookingRepo, userRepo, mechanicRepo, paymentProvider, services.BookingConfig{
		Currency:       cfg.Payment.Currency,
		RefundOnCancel: cfg.Payment.RefundOnCancel,
	}, auditService, redisCache, appLogger)
	supportService := services.NewSupportService(supportRepo, userRepo, adminRepo, auditService, redisCache, appLogger)
	dashboardService := services.NewDashboardService(userRepo, mechanicRepo, bookingRepo, supportRepo, regionRepo, redisCache, appLogger)

	if cfg.App.SeedAdmin && cfg.Security.AdminPassword != "" {
		if err := authService.EnsureSeedAdmin(ctx, cfg.Security.AdminName, cfg.Security.AdminEmail, cfg.Security.AdminPassword); err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
	}

	// Admin events reach every instance through Redis pub/sub.
	hub := websocket.NewHub(cfg.WebSocket.MaxConnections, appLogger)
	go hub.Run(ctx)
	events := redisCache.Subscribe(ctx, utils.ChannelAdminEvents)
	defer events.Close()
	go hub.Relay(ctx, events.Channel())

	var worker *jobs.Worker
	if cfg.Worker.Enabled {
		worker = jobs.NewWorker(asynqRedis, jobs.WorkerOptions{
			Concurrency:   cfg.Worker.Concurrency,
			Queue:         cfg.Worker.Queue,
			SweepInterval: cfg.Moderation.SweepInterval,
		}, moderationService, appLogger)
		if err := worker.Start(); err != nil {
			return fmt.Errorf("failed to start ban expiry worker: %w", err)
		}
		defer worker.Shutdown()
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}

	limiter := middleware.NewIPRateLimiter(cfg.Security.RateLimitPerMinute, cfg.Security.RateLimitBurst)
	go limiter.Run(ctx)

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(appLogger))
	router.Use(middleware.RequestLogger(appLogger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RateLimit(limiter, appLogger))

	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	routes.SetupRoutes(router, &routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, appLogger),
		Pricing:    handlers.NewPricingHandler(pricingService, appLogger),
		Catalog:    handlers.NewCatalogHandler(catalogService, appLogger),
		Region:     handlers.NewRegionHandler(regionService, appLogger),
		Moderation: handlers.NewModerationHandler(moderationService, appLogger),
		Booking:    handlers.NewBookingHandler(bookingService, appLogger),
		Support:    handlers.NewSupportHandler(supportService, appLogger),
		Dashboard:  handlers.NewDashboardHandler(dashboardService, auditService, appLogger),
		Health: handlers.NewHealthHandler(cfg.App.Version, map[string]handlers.Pinger{
			"mongodb": db,
			"redis":   redisCache,
		}),
		WebSocket: websocket.NewHandler(hub, websocket.HandlerConfig{
			ReadBufferSize:    cfg.WebSocket.ReadBufferSize,
			WriteBufferSize:   cfg.WebSocket.WriteBufferSize,
			HandshakeTimeout:  cfg.WebSocket.HandshakeTimeout,
			PingInterval:      cfg.WebSocket.PingInterval,
			PongTimeout:       cfg.WebSocket.PongTimeout,
			EnableCompression: cfg.WebSocket.EnableCompression,
			AllowedOrigins:    cfg.WebSocket.AllowedOrigins,
		}),
		WebSocketPath: cfg.WebSocket.Path,
	}, authService)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.WithFields(map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.App.Environment,
		}).Info("Starting MecFinder admin API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

