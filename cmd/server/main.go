package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"suratdesa/internal/audit"
	"suratdesa/internal/auth"
	letterhandler "suratdesa/internal/letter/handler"
	lettermetrics "suratdesa/internal/letter/metrics"
	letterservice "suratdesa/internal/letter/service"
	letterstore "suratdesa/internal/letter/store"
	lettertypehandler "suratdesa/internal/lettertype/handler"
	lettertypemetrics "suratdesa/internal/lettertype/metrics"
	lettertypeservice "suratdesa/internal/lettertype/service"
	lettertypestore "suratdesa/internal/lettertype/store"
	"suratdesa/internal/numbering"
	"suratdesa/internal/platform/config"
	"suratdesa/internal/platform/database"
	"suratdesa/internal/platform/health"
	"suratdesa/internal/platform/httpserver"
	"suratdesa/internal/platform/kafka"
	"suratdesa/internal/platform/kafka/producer"
	"suratdesa/internal/platform/logger"
	platformmetrics "suratdesa/internal/platform/metrics"
	platformredis "suratdesa/internal/platform/redis"
	registrycache "suratdesa/internal/registry/cache"
	registryclient "suratdesa/internal/registry/client"
	registryhandler "suratdesa/internal/registry/handler"
	registrymetrics "suratdesa/internal/registry/metrics"
	"suratdesa/internal/registry/resolver"
	"suratdesa/internal/registry/tracer"
	"suratdesa/internal/seeder"
	httptransport "suratdesa/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing suratdesa",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	healthHandler := health.New(cfg.Environment)

	// Postgres is optional; without it every store runs in memory.
	pool, err := database.New(database.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close() //nolint:errcheck
		healthHandler.RegisterCheck("postgres", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		log.Info("postgres connected")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.RedisAddr)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		log.Info("redis connected", "addr", cfg.RedisAddr)
	}

	// Audit events land in PostgreSQL when a database is configured, in
	// memory otherwise; with Kafka configured they are teed to the audit
	// topic as well.
	var auditStore audit.Store = audit.NewInMemoryStore()
	if pool != nil {
		auditStore = audit.NewPostgresStore(pool.DB())
	}
	if cfg.KafkaBrokers != "" {
		kafkaProducer, err := producer.New(producer.Config{
			Brokers:         cfg.KafkaBrokers,
			Acks:            "all",
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close() //nolint:errcheck
		auditStore = audit.NewTee(auditStore, audit.NewKafkaStore(kafkaProducer, cfg.AuditTopic))
		kafkaHealth := kafka.NewHealthChecker(cfg.KafkaBrokers)
		healthHandler.RegisterCheck("kafka", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return kafkaHealth.Check(ctx)
		})
		log.Info("audit events teed to kafka", "topic", cfg.AuditTopic)
	}
	auditor := audit.NewPublisher(auditStore, audit.WithPublisherLogger(log))
	defer auditor.Close()

	var typeStore lettertypestore.Store = lettertypestore.New()
	var instanceStore letterstore.Store = letterstore.New()
	var counterStore numbering.CounterStore = numbering.NewInMemoryCounterStore()
	if pool != nil {
		typeStore = lettertypestore.NewPostgres(pool.DB())
		instanceStore = letterstore.NewPostgres(pool.DB())
		counterStore = numbering.NewPostgresCounterStore(pool.DB())
	}

	resetPolicy, err := numbering.ParseResetPolicy(cfg.NumberResetPolicy)
	if err != nil {
		log.Error("invalid number reset policy", "policy", cfg.NumberResetPolicy, "error", err)
		os.Exit(1)
	}
	generator := numbering.NewGenerator(counterStore, resetPolicy)

	typeService := lettertypeservice.NewService(typeStore, auditor, log,
		lettertypeservice.WithMetrics(lettertypemetrics.New()))

	lettersMetrics := lettermetrics.New()
	letterService := letterservice.NewService(instanceStore, typeService, generator, auditor, log,
		letterservice.WithMetrics(lettersMetrics))

	// Registry: real HTTP client when a base URL is configured, otherwise the
	// in-process mock so autofill works in development.
	regMetrics := registrymetrics.New()
	var regClient registryclient.Client
	var regMock *registryclient.MockClient
	if cfg.RegistryBaseURL != "" {
		regClient = registryclient.NewHTTPClient(cfg.RegistryBaseURL, cfg.RegistryAPIKey, cfg.RegistryTimeout)
		log.Info("registry client configured", "base_url", cfg.RegistryBaseURL)
	} else {
		regMock = registryclient.NewMock()
		regClient = regMock
		log.Warn("REGISTRY_BASE_URL not set; using mock registry")
	}

	resolverOpts := []resolver.Option{
		resolver.WithAuditor(auditor),
		resolver.WithMetrics(regMetrics),
	}
	if cfg.TracingEnabled {
		resolverOpts = append(resolverOpts, resolver.WithTracer(tracer.NewOTel()))
	}
	if redisClient != nil {
		resolverOpts = append(resolverOpts,
			resolver.WithCache(registrycache.NewRedis(redisClient.Client, cfg.RegistryCacheTTL, regMetrics)))
	}
	registryResolver := resolver.New(regClient, log, resolverOpts...)

	if cfg.SeedDemoData {
		var seedRegistry seeder.Registry
		if regMock != nil {
			seedRegistry = regMock
		}
		if err := seeder.New(typeStore, seedRegistry, log).SeedAll(context.Background()); err != nil {
			log.Error("seeding failed", "error", err)
			os.Exit(1)
		}
	}

	tokens := auth.NewTokenService(cfg.JWTSigningKey, 24*time.Hour)

	router := httptransport.NewRouter(httptransport.Handlers{
		Health:      healthHandler,
		LetterTypes: lettertypehandler.New(typeService, log),
		Letters:     letterhandler.New(letterService, log, lettersMetrics),
		Autofill:    registryhandler.New(registryResolver, typeService, log),
	}, tokens, platformmetrics.New(), log)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
