package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/vetclinic-api/internal/config"
	animalHandler "github.com/jwalitptl/vetclinic-api/internal/handler/animal"
	appointmentHandler "github.com/jwalitptl/vetclinic-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/vetclinic-api/internal/handler/auth"
	"github.com/jwalitptl/vetclinic-api/internal/handler/health"
	medicalHandler "github.com/jwalitptl/vetclinic-api/internal/handler/medicalrecord"
	"github.com/jwalitptl/vetclinic-api/internal/handler/prometheus"
	tutorHandler "github.com/jwalitptl/vetclinic-api/internal/handler/tutor"
	userHandler "github.com/jwalitptl/vetclinic-api/internal/handler/user"
	"github.com/jwalitptl/vetclinic-api/internal/middleware"
	"github.com/jwalitptl/vetclinic-api/internal/repository"
	"github.com/jwalitptl/vetclinic-api/internal/repository/memory"
	"github.com/jwalitptl/vetclinic-api/internal/repository/postgres"
	"github.com/jwalitptl/vetclinic-api/internal/router"
	animalService "github.com/jwalitptl/vetclinic-api/internal/service/animal"
	appointmentService "github.com/jwalitptl/vetclinic-api/internal/service/appointment"
	auditService "github.com/jwalitptl/vetclinic-api/internal/service/audit"
	authService "github.com/jwalitptl/vetclinic-api/internal/service/auth"
	historyService "github.com/jwalitptl/vetclinic-api/internal/service/history"
	medicalService "github.com/jwalitptl/vetclinic-api/internal/service/medical"
	tutorService "github.com/jwalitptl/vetclinic-api/internal/service/tutor"
	userService "github.com/jwalitptl/vetclinic-api/internal/service/user"
	"github.com/jwalitptl/vetclinic-api/pkg/auth"
	"github.com/jwalitptl/vetclinic-api/pkg/circuitbreaker"
	"github.com/jwalitptl/vetclinic-api/pkg/clock"
	"github.com/jwalitptl/vetclinic-api/pkg/lock"
	"github.com/jwalitptl/vetclinic-api/pkg/logger"
	"github.com/jwalitptl/vetclinic-api/pkg/messaging"
	"github.com/jwalitptl/vetclinic-api/pkg/messaging/redis"
	"github.com/jwalitptl/vetclinic-api/pkg/metrics"
	"github.com/jwalitptl/vetclinic-api/pkg/security"
)

const metricsNamespace = "vetclinic"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Logger = appLogger.Zerolog()

	ctx := context.Background()

	// Initialize storage
	store, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer closeStore()

	// Initialize Redis, when configured
	var redisClient *goredis.Client
	publisher := messaging.NewNopPublisher()
	if cfg.Redis.Addr != "" {
		redisClient, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisClient.Close()
		publisher = messaging.WithBreaker(
			redis.NewPublisher(redisClient, cfg.Redis.Channel),
			circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{Name: "redis-publisher", MaxFailures: 5, Timeout: 30 * time.Second}),
		)
	}

	var locker lock.Locker
	switch cfg.Scheduling.Lock {
	case "redis":
		locker = lock.NewRedisLocker(redisClient, cfg.Scheduling.LockTTL)
	default:
		locker = lock.NewLocalLocker()
	}

	// Initialize metrics
	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	domainMetrics := metrics.NewMetrics(reg, metricsNamespace)

	// Initialize services
	clk := clock.System()
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	auditor := auditService.NewService(appLogger)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	authSvc := authService.NewService(store.Users(), jwtSvc, hasher, auditor, cfg.JWT.CacheTTL)
	userSvc := userService.NewService(store.Users(), hasher, authSvc, auditor, clk)
	tutorSvc := tutorService.NewService(store.Tutors(), store.Animals(), clk)
	animalSvc := animalService.NewService(store.Animals(), store.Tutors(), clk)
	historySvc := historyService.NewService(store.Animals(), store.Appointments(), store.MedicalRecords(), store)
	appointmentSvc := appointmentService.NewService(
		store.Appointments(),
		store.Animals(),
		store.Users(),
		store.MedicalRecords(),
		store,
		locker,
		publisher,
		domainMetrics,
		auditor,
		clk,
		appLogger,
	)
	medicalSvc := medicalService.NewService(
		store.MedicalRecords(),
		store.Appointments(),
		publisher,
		domainMetrics,
		auditor,
		clk,
		appLogger,
	)

	if cfg.Bootstrap.AdminEmail != "" {
		admin, created, err := userSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap admin user")
		}
		log.Info().Int64("user_id", admin.ID).Bool("created", created).Msg("bootstrap admin ready")
	}

	// Setup router
	r := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		prometheus.New(reg, reg, metricsNamespace),
		router.Handlers{
			Health:        health.NewHandler(store),
			Auth:          authHandler.NewHandler(authSvc, userSvc),
			User:          userHandler.NewHandler(userSvc),
			Tutor:         tutorHandler.NewHandler(tutorSvc),
			Animal:        animalHandler.NewHandler(animalSvc, historySvc),
			Appointment:   appointmentHandler.NewHandler(appointmentSvc),
			MedicalRecord: medicalHandler.NewHandler(medicalSvc),
		},
		router.RouterConfig{
			Mode: cfg.Server.Mode,
			RateLimit: middleware.RateLimiterConfig{
				RPS:   cfg.RateLimit.RPS,
				Burst: cfg.RateLimit.Burst,
			},
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (repository.Store, func(), error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("using in-memory storage, data is lost on exit")
		return memory.NewStore(), func() {}, nil
	}

	db, err := postgres.NewDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return postgres.NewStore(db), func() { db.Close() }, nil
}
