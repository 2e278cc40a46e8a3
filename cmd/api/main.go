// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	goredis "github.com/redis/go-redis/v9"

	"resonance/internal/adapter/storage"
	"resonance/internal/config"
	"resonance/internal/logger"
	"resonance/internal/server"
	"resonance/internal/service/prediction"
	"resonance/internal/service/scoring"
	"resonance/internal/service/suggestion"
	"resonance/internal/service/variation"
	"resonance/internal/service/workflow"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		appLog.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS, appLog)
	if err != nil {
		appLog.Fatal("Failed to connect to NATS", "error", err)
	}
	defer natsConn.Close()

	workflowStore, closeStore, err := initWorkflowStore(ctx, cfg)
	if err != nil {
		appLog.Fatal("Failed to initialize workflow store", "error", err)
	}
	defer closeStore()

	// Initialize storage adapters
	audienceStore := storage.NewAudienceStore(db)
	workflowArchive := storage.NewWorkflowArchive(db)

	// Initialize services
	suggestionConfig := suggestion.DefaultConfig()
	suggestionConfig.MaxSuggestions = cfg.Workflow.MaxSuggestions
	suggestions := suggestion.NewGenerator(suggestionConfig, appLog)

	scoringConfig := scoring.DefaultConfig()
	scoringConfig.AnalyzerTimeout = cfg.Workflow.AnalyzerTimeout
	scoringConfig.CacheSize = cfg.Workflow.AnalysisCache
	engine, err := scoring.NewEngine(scoring.EngineConfig{
		Scoring:     scoringConfig,
		Suggestions: suggestions,
	}, appLog)
	if err != nil {
		appLog.Fatal("Failed to create scoring engine", "error", err)
	}

	workflowConfig := workflow.DefaultConfig()
	workflowConfig.EventsTopic = cfg.Workflow.EventsTopic
	workflowConfig.StageTimeout = cfg.Workflow.StageTimeout
	workflowConfig.Retention = cfg.Workflow.Retention
	workflowConfig.JanitorInterval = cfg.Workflow.JanitorInterval
	workflowConfig.MonitorInterval = cfg.Workflow.MonitorInterval
	workflowConfig.ABTestSize = cfg.Workflow.ABTestSize

	orchestrator, err := workflow.NewOrchestrator(workflow.Dependencies{
		Engine:      engine,
		Suggestions: suggestions,
		Variations:  variation.NewGenerator(appLog),
		Predictor:   prediction.NewPredictor(prediction.DefaultConfig(), appLog),
		Segments:    audienceStore,
		Store:       workflowStore,
		Publisher:   natsConn,
		Archiver:    workflowArchive,
	}, workflowConfig, appLog)
	if err != nil {
		appLog.Fatal("Failed to create workflow orchestrator", "error", err)
	}

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, engine, audienceStore, orchestrator, appLog)

	// Start HTTP server
	go func() {
		appLog.Info("Starting HTTP server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	appLog.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP server shutdown error", "error", err)
	}

	// Stop running workflows
	if err := orchestrator.Stop(shutdownCtx); err != nil {
		appLog.Error("Workflow orchestrator shutdown error", "error", err)
	}

	// Flush pending events
	if err := natsConn.FlushWithContext(shutdownCtx); err != nil {
		appLog.Warn("NATS flush error", "error", err)
	}

	appLog.Info("Shutdown complete")
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, appLog *logger.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			appLog.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			appLog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			appLog.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}

// Initialize the workflow store selected by configuration
func initWorkflowStore(ctx context.Context, cfg config.Config) (workflow.Store, func(), error) {
	if cfg.Workflow.StoreBackend != "redis" {
		return workflow.NewMemoryStore(), func() {}, nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("unable to ping redis: %w", err)
	}

	store := workflow.NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Workflow.Retention)
	return store, func() { client.Close() }, nil
}
