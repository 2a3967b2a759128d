package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"recipebook/internal/auth"
	"recipebook/internal/config"
	consulpkg "recipebook/internal/consul"
	"recipebook/internal/database"
	"recipebook/internal/events"
	"recipebook/internal/identity"
	"recipebook/internal/logger"
	"recipebook/internal/recipes"
	"recipebook/internal/server"
	"recipebook/internal/session"
	"recipebook/internal/shoppinglist"
	"recipebook/internal/storage"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	log := logger.New()
	logger.SetDefault(log)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session slot backend.
	var store session.Store
	if cfg.SessionBackend == "redis" {
		store = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		log.Info("session store", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		store = session.NewFileStore(cfg.SessionFile)
		log.Info("session store", "backend", "file", "path", cfg.SessionFile)
	}

	// Identity endpoint client.
	api := identity.NewClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey, cfg.IdentityTimeout)

	// Optional Kafka audit-event producer.
	var orchOpts []auth.Option
	var producer *events.Producer
	if os.Getenv("KAFKA_BROKERS") != "" {
		eventsCfg, err := events.LoadConfig()
		if err == nil {
			producer, err = events.NewProducer(eventsCfg, log)
		}
		if err != nil {
			log.Warn("audit events disabled", "error", err.Error())
		} else {
			orchOpts = append(orchOpts, auth.WithEvents(producer))
			defer producer.Close()
		}
	}

	orch := auth.NewOrchestrator(api, store, log, orchOpts...)
	go orch.Run(ctx)

	// Rehydrate any persisted session before serving traffic.
	if out := orch.AutoLogin(ctx); out.Kind == auth.OutcomeSuccess {
		log.Info("restored persisted session", "email", out.Session.Email)
	}

	// Optional Postgres for recipe persistence.
	var (
		db   database.Service
		repo *recipes.Repository
	)
	if cfg.DatabaseDSN != "" {
		var err error
		db, err = database.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			log.Error("failed to connect to database", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()

		repo = recipes.NewRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Error("failed to prepare database schema", "error", err.Error())
			os.Exit(1)
		}
		log.Info("recipe persistence enabled")
	}

	listService := shoppinglist.NewService()
	recipesService := recipes.NewService(listService, repo)

	// Optional S3/MinIO image storage.
	var imageStore storage.Service
	if os.Getenv("S3_ENDPOINT") != "" {
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		svc, err := storage.New(initCtx)
		cancel()
		if err != nil {
			log.Warn("image storage disabled", "error", err.Error())
		} else {
			imageStore = svc
			log.Info("image storage enabled")
		}
	}

	srv := server.New(orch, recipesService, listService, imageStore, db)
	httpServer := srv.NewHTTPServer(cfg)

	// Optional Consul registration.
	var (
		consulClient *consulpkg.Client
		serviceID    string
	)
	if cfg.ConsulAddr != "" {
		client, err := consulpkg.NewClient(cfg.ConsulAddr, cfg.ConsulToken)
		if err != nil {
			log.Error("failed to create consul client", "error", err.Error())
			os.Exit(1)
		}

		port, _ := strconv.Atoi(cfg.Port)
		serviceID = fmt.Sprintf("recipebook-%s", cfg.Host)
		_ = client.Deregister(serviceID)

		err = client.Register(consulpkg.Registration{
			ID:      serviceID,
			Name:    "recipebook",
			Address: cfg.Host,
			Port:    port,
			Tags:    []string{"recipes", "auth"},
			Health:  fmt.Sprintf("http://%s:%s/health", cfg.Host, cfg.Port),
		})
		if err != nil {
			log.Error("failed to register with consul", "error", err.Error())
			os.Exit(1)
		}
		consulClient = client
		log.Info("registered with consul", "service_id", serviceID)
	}

	go func() {
		log.Info("recipebook listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	if consulClient != nil {
		if err := consulClient.Deregister(serviceID); err != nil {
			log.Warn("failed to deregister from consul", "error", err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}

	log.Info("recipebook stopped cleanly")
}
