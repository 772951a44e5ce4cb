package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"rollcall/internal/attendance"
	attendancehandler "rollcall/internal/attendance/handler"
	attendancemetrics "rollcall/internal/attendance/metrics"
	attendancestore "rollcall/internal/attendance/store"
	"rollcall/internal/audit"
	"rollcall/internal/authn"
	authnhandler "rollcall/internal/authn/handler"
	"rollcall/internal/authn/revocation"
	"rollcall/internal/directory"
	directoryhandler "rollcall/internal/directory/handler"
	directorystore "rollcall/internal/directory/store"
	httpapi "rollcall/internal/http"
	"rollcall/internal/platform/config"
	"rollcall/internal/platform/httpserver"
	"rollcall/internal/platform/logger"
	"rollcall/internal/platform/metrics"
	"rollcall/internal/platform/postgres"
	platformredis "rollcall/internal/platform/redis"
	"rollcall/internal/settings"
	settingshandler "rollcall/internal/settings/handler"
	settingsstore "rollcall/internal/settings/store"
)

const auditInboxSize = 256

// main wires dependencies and owns the process lifecycle. Storage backends
// are selected by configuration: postgres/redis/kafka when their URLs are
// set, in-memory fallbacks otherwise so the service runs standalone in
// development.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	loc, err := cfg.OrgLocation()
	if err != nil {
		log.Error("invalid organization timezone", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	procMetrics := metrics.New()

	// Storage.
	var (
		attendanceStore attendance.Store
		settingsStore   settings.Store
		directoryStore  directory.Store
		trl             revocation.TokenRevocationList
	)
	health := map[string]func(context.Context) error{}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		attendanceStore = attendancestore.NewPostgres(db, loc)
		settingsStore = settingsstore.NewPostgres(db)
		directoryStore = directorystore.NewPostgres(db)
		trl = revocation.NewPostgresTRL(db)
		health["postgres"] = db.PingContext
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		attendanceStore = attendancestore.NewInMemory(loc)
		settingsStore = settingsstore.NewInMemory()
		directoryStore = directorystore.NewInMemory()
		trl = revocation.NewMemoryTRL()
	}

	if cfg.RedisURL != "" {
		redisClient, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		trl = revocation.NewRedisTRL(redisClient.Client)
		health["redis"] = redisClient.Health
	}

	// Audit pipeline.
	var auditStore audit.Store = audit.NewInMemoryStore()
	if cfg.KafkaBrokers != "" {
		kafkaStore, err := audit.NewKafkaStore(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
	}
	auditInbox := make(chan audit.Event, auditInboxSize)
	auditWorker := audit.NewWorker(auditStore, auditInbox, log)
	auditor := audit.NewPublisher(auditInbox, log)

	// Services.
	settingsService := settings.NewService(settingsStore,
		settings.WithAuditPublisher(auditor),
		settings.WithLogger(log),
	)
	// The directory cascades deletes straight through the ledger store; the
	// attendance service consults the directory for active employees.
	directoryService := directory.NewService(directoryStore, attendanceStore,
		directory.WithAuditPublisher(auditor),
		directory.WithMetrics(procMetrics),
		directory.WithLogger(log),
	)
	attendanceService := attendance.NewService(attendanceStore, settingsService, directoryService, loc,
		attendance.WithAuditPublisher(auditor),
		attendance.WithMetrics(attendancemetrics.New()),
		attendance.WithLogger(log),
		attendance.WithStorageTimeout(cfg.StorageTimeout),
	)
	jwtService := authn.NewJWTService(cfg.JWTSigningKey, "rollcall", cfg.TokenTTL)
	authnService := authn.NewService(directoryService, jwtService, trl,
		authn.WithAuditPublisher(auditor),
		authn.WithMetrics(procMetrics),
		authn.WithLogger(log),
	)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Attendance:        attendancehandler.New(attendanceService, loc, log),
		Settings:          settingshandler.New(settingsService, log),
		Directory:         directoryhandler.New(directoryService, log),
		Authn:             authnhandler.New(authnService, log),
		TokenValidator:    authn.NewMiddlewareAdapter(jwtService),
		RevocationChecker: trl,
		Health:            healthReport(health),
		Metrics:           procMetrics,
		RequestTimeout:    30 * time.Second,
		Logger:            log,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting rollcall", "addr", cfg.Addr, "timezone", cfg.OrgTimezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := auditWorker.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func healthReport(checks map[string]func(context.Context) error) func() map[string]string {
	return func() map[string]string {
		out := make(map[string]string, len(checks))
		for name, check := range checks {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := check(ctx); err != nil {
				out[name] = "unhealthy"
			} else {
				out[name] = "healthy"
			}
			cancel()
		}
		return out
	}
}
