package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaadilink/backend/internal/cache"
	"github.com/gaadilink/backend/internal/config"
	"github.com/gaadilink/backend/internal/database"
	"github.com/gaadilink/backend/internal/handler"
	"github.com/gaadilink/backend/internal/middleware"
	"github.com/gaadilink/backend/internal/notify"
	"github.com/gaadilink/backend/internal/repository"
	"github.com/gaadilink/backend/internal/service"
	"github.com/gaadilink/backend/pkg/logger"
	"github.com/gaadilink/backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Env)

	// Initialize New Relic (optional)
	var nrApp *newrelic.Application
	if cfg.NewRelicEnabled && cfg.NewRelicLicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelicAppName),
			newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			log.Warn("failed to initialize New Relic", "error", err)
		} else if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Warn("New Relic connection timeout", "error", err)
		} else {
			log.Info("New Relic connected")
		}
	}

	// Initialize PostgreSQL
	db, err := database.NewPostgres(
		cfg.DatabaseURL,
		cfg.DBMaxConnections,
		cfg.DBMaxIdleConnections,
	)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", "error", err)
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	// Initialize Redis
	redis, err := database.NewRedis(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatal("failed to connect to Redis", "error", err)
	}
	defer redis.Close()
	log.Info("connected to Redis")

	m := metrics.NewMetrics("gaadilink")

	// Initialize cache
	cityCache := cache.NewBusinessCityCache(redis.Client)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	carTypeRepo := repository.NewCarTypeRepository(db.DB)
	requirementRepo := repository.NewRequirementRepository(db.DB)
	businessCityRepo := repository.NewBusinessCityRepository(db.DB)
	pushTokenRepo := repository.NewPushTokenRepository(db.DB)

	// Initialize notification fan-out
	dispatcher := notify.NewExpoDispatcher(cfg.ExpoPushURL, cfg.ExpoAccessToken, pushTokenRepo, log, m)
	fanout := service.NewEventFanout(
		businessCityRepo, userRepo, dispatcher, log,
		time.Duration(cfg.NotifyTimeoutSeconds)*time.Second,
	)

	// Initialize services
	requirementService := service.NewRequirementService(
		requirementRepo, userRepo, carTypeRepo, businessCityRepo,
		cityCache, fanout, log, m, cfg.CityMatchEnabled,
	)
	businessCityService := service.NewBusinessCityService(businessCityRepo, userRepo, cityCache, log)

	// Initialize handlers
	requirementHandler := handler.NewRequirementHandler(requirementService)
	businessCityHandler := handler.NewBusinessCityHandler(businessCityService)
	userHandler := handler.NewUserHandler(userRepo)
	carTypeHandler := handler.NewCarTypeHandler(carTypeRepo)
	notificationHandler := handler.NewNotificationHandler(pushTokenRepo)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", middleware.UserIDHeader},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// New Relic middleware
	if nrApp != nil {
		r.Use(middleware.NewRelicMiddleware(nrApp))
	}

	// Rate limiter
	rateLimiter := middleware.NewRateLimiter(redis.Client, cfg.RateLimitRequests, time.Minute)
	r.Use(rateLimiter.Handler)

	// Idempotency middleware
	idempotencyMw := middleware.NewIdempotencyMiddleware(redis.Client)
	r.Use(idempotencyMw.Handler)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := db.Health(ctx); err != nil {
			http.Error(w, "database unhealthy", http.StatusServiceUnavailable)
			return
		}
		if err := redis.Health(ctx); err != nil {
			http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","services":{"database":"up","redis":"up"}}`))
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes (authenticated)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth)

		requirementHandler.RegisterRoutes(r)
		businessCityHandler.RegisterRoutes(r)
		userHandler.RegisterRoutes(r)
		carTypeHandler.RegisterRoutes(r)
		notificationHandler.RegisterRoutes(r)
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
	}()

	log.Info("server starting", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", "error", err)
	}

	log.Info("server stopped gracefully")
}
