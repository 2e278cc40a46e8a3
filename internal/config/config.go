// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Log         LogConfig
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Redis       RedisConfig
	Workflow    WorkflowConfig
}

// LogConfig holds logger configuration
type LogConfig struct {
	Mode string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// RedisConfig holds Redis configuration for the optional workflow store
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	KeyPrefix   string
}

// WorkflowConfig holds optimization workflow configuration
type WorkflowConfig struct {
	StoreBackend    string
	Retention       time.Duration
	JanitorInterval time.Duration
	StageTimeout    time.Duration
	AnalyzerTimeout time.Duration
	MonitorInterval time.Duration
	EventsTopic     string
	MaxSuggestions  int
	ABTestSize      int
	AnalysisCache   int
}

// Load loads configuration from an optional .env file and environment variables
func Load() (Config, error) {
	// A missing .env file is fine, the process environment still applies
	_ = godotenv.Load()

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Log: LogConfig{
			Mode: getEnv("LOG_MODE", "development"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "resonance"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			DialTimeout: getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			KeyPrefix:   getEnv("REDIS_KEY_PREFIX", "resonance:workflow:"),
		},
		Workflow: WorkflowConfig{
			StoreBackend:    getEnv("WORKFLOW_STORE", "memory"),
			Retention:       getEnvAsDuration("WORKFLOW_RETENTION", 1*time.Hour),
			JanitorInterval: getEnvAsDuration("WORKFLOW_JANITOR_INTERVAL", 5*time.Minute),
			StageTimeout:    getEnvAsDuration("WORKFLOW_STAGE_TIMEOUT", 30*time.Second),
			AnalyzerTimeout: getEnvAsDuration("WORKFLOW_ANALYZER_TIMEOUT", 2*time.Second),
			MonitorInterval: getEnvAsDuration("WORKFLOW_MONITOR_INTERVAL", 500*time.Millisecond),
			EventsTopic:     getEnv("WORKFLOW_EVENTS_TOPIC", "workflow"),
			MaxSuggestions:  getEnvAsInt("WORKFLOW_MAX_SUGGESTIONS", 10),
			ABTestSize:      getEnvAsInt("WORKFLOW_ABTEST_SIZE", 3),
			AnalysisCache:   getEnvAsInt("WORKFLOW_ANALYSIS_CACHE", 512),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Workflow.StoreBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported workflow store backend: %s", config.Workflow.StoreBackend)
	}

	if config.Workflow.Retention <= 0 {
		return fmt.Errorf("workflow retention must be positive")
	}

	if config.Workflow.StageTimeout <= 0 || config.Workflow.AnalyzerTimeout <= 0 {
		return fmt.Errorf("workflow timeouts must be positive")
	}

	if config.Workflow.AnalyzerTimeout > config.Workflow.StageTimeout {
		return fmt.Errorf("analyzer timeout (%s) exceeds stage timeout (%s)",
			config.Workflow.AnalyzerTimeout, config.Workflow.StageTimeout)
	}

	if config.Workflow.MaxSuggestions <= 0 {
		return fmt.Errorf("max suggestions must be positive")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
