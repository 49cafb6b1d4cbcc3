package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onap/aai-model-loader-sub000/internal/adapters/primary/http/handlers"
	"github.com/onap/aai-model-loader-sub000/internal/adapters/primary/http/middleware"
	"github.com/onap/aai-model-loader-sub000/internal/adapters/primary/notification"
	"github.com/onap/aai-model-loader-sub000/internal/adapters/secondary/aai"
	"github.com/onap/aai-model-loader-sub000/internal/adapters/secondary/babel"
	"github.com/onap/aai-model-loader-sub000/internal/adapters/secondary/k8scatalog"
	"github.com/onap/aai-model-loader-sub000/internal/adapters/secondary/memory"
	"github.com/onap/aai-model-loader-sub000/internal/adapters/secondary/postgres"
	"github.com/onap/aai-model-loader-sub000/internal/config"
	output "github.com/onap/aai-model-loader-sub000/internal/core/ports/output"
	"github.com/onap/aai-model-loader-sub000/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Distribution status store: postgres when enabled, in-memory otherwise
	var distributionRepo output.DistributionRepository
	var pool *pgxpool.Pool
	if cfg.Database.Enabled {
		pool = connectDatabase(ctx, cfg)
		defer pool.Close()
		distributionRepo = postgres.NewDistributionRepository(pool)
	} else {
		log.Info("database disabled, distribution status is kept in memory")
		distributionRepo = memory.NewDistributionRepository()
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports - Remote Stores)
	paths := services.Paths{
		BaseURL:        cfg.AAI.BaseURL,
		DefaultVersion: cfg.AAI.DefaultVersion,
		CatalogVersion: cfg.AAI.CatalogVersion,
		Model:          cfg.AAI.ModelPath,
		ModelVersion:   cfg.AAI.ModelVersionPath,
		NamedQuery:     cfg.AAI.NamedQueryPath,
		VnfImage:       cfg.AAI.VnfImagePath,
	}
	aaiStore := aai.NewStore(&cfg.AAI)

	// Conversion client (Optional - based on config)
	converter := babel.NewClient(&cfg.Babel)
	if converter == nil {
		log.Info("babel conversion disabled, legacy models will be rejected")
	}

	// Catalog store
	catalogStore := aaiStore
	catalogPolicy := services.RollbackDelete
	if cfg.Catalog.Backend == config.CatalogBackendKubernetes {
		store, err := k8scatalog.NewStore(&cfg.Catalog)
		if err != nil {
			log.Fatalf("create kubernetes catalog store: %v", err)
		}
		catalogStore = store
		catalogPolicy = services.RollbackNone
		log.WithField("namespace", cfg.Catalog.Namespace).Info("catalog artifacts stored as configmaps")
	}

	// Core Services (Application Layer)
	modelHandler := services.NewModelArtifactHandler(aaiStore, converter, paths)
	catalogHandler := services.NewCatalogArtifactHandler(catalogStore, paths, catalogPolicy)
	coordinator := services.NewDeploymentCoordinator(modelHandler, catalogHandler)
	distributionSvc := services.NewDistributionService(coordinator, distributionRepo)

	// In-flight batches are drained on shutdown rather than canceled.
	dispatcher := services.NewDispatcher(
		context.Background(),
		distributionSvc,
		cfg.Distribution.MaxConcurrentBatches,
		cfg.Distribution.QueueSize,
	)

	// Primary Adapter (Distribution source registration)
	var reconnector *notification.Reconnector
	if cfg.Distribution.SourceURL != "" {
		scheduler := notification.RealScheduler()
		connector := notification.NewHTTPConnector(
			cfg.Distribution.SourceURL,
			cfg.Distribution.ConsumerID,
			10*time.Second,
			cfg.Distribution.Heartbeat,
			scheduler,
		)
		reconnector = notification.NewReconnector(connector, scheduler, notification.BackoffConfig{
			Initial:    cfg.Distribution.ReconnectInitial,
			Max:        cfg.Distribution.ReconnectMax,
			Multiplier: cfg.Distribution.ReconnectMultiplier,
			Jitter:     0.1,
		})
		go func() {
			if err := reconnector.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("distribution source reconnector stopped")
			}
		}()
	} else {
		log.Info("no distribution source configured, accepting notifications over HTTP only")
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(distributionSvc, dispatcher)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/model-loader")
	h.RegisterRoutes(api)

	router.GET("/healthz", func(c *gin.Context) {
		resp := gin.H{"status": "ok"}
		if reconnector != nil {
			resp["source"] = reconnector.State().String()
		}
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, resp)
	})

	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	stop()
	log.Info("waiting for in-flight distributions")
	dispatcher.Wait()

	log.Info("server stopped")
}

func connectDatabase(ctx context.Context, cfg *config.Config) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("prepare db schema: %v", err)
	}
	log.Info("database connection established")
	return pool
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
