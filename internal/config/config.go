package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AnalyzerBackend selects the recognition/analysis implementation.
type AnalyzerBackend string

const (
	AnalyzerBackendOpenAI AnalyzerBackend = "openai"
	AnalyzerBackendOllama AnalyzerBackend = "ollama"
)

// OpenAIConfig holds settings for the single-call OpenAI backend.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OllamaConfig holds settings for the two-stage Ollama backend.
type OllamaConfig struct {
	BaseURL     string
	VisionModel string
	TextModel   string
	Timeout     time.Duration
}

// AnalyzerConfig aggregates backend selection and per-backend settings.
type AnalyzerConfig struct {
	Backend AnalyzerBackend
	OpenAI  OpenAIConfig
	Ollama  OllamaConfig
}

// SchedulerConfig holds the processing pipeline tunables.
type SchedulerConfig struct {
	// BatchSize caps how many pending receipts one processing run claims.
	BatchSize int
	// ProcessInterval is the tick between processing runs.
	ProcessInterval time.Duration
	// RecoverInterval is the tick between recovery sweeps.
	RecoverInterval time.Duration
	// Staleness is how long a receipt may stay claimed before the recovery
	// sweep treats it as abandoned.
	Staleness time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Analyzer  AnalyzerConfig
	Scheduler SchedulerConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Analyzer: AnalyzerConfig{
			Backend: AnalyzerBackend(getEnv("ANALYZER_BACKEND", string(AnalyzerBackendOpenAI))),
			OpenAI: OpenAIConfig{
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				Model:   getEnv("OPENAI_MODEL", "gpt-4o"),
				BaseURL: getEnv("OPENAI_BASE_URL", ""),
				Timeout: getEnvSeconds("OPENAI_TIMEOUT_SEC", 120),
			},
			Ollama: OllamaConfig{
				BaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
				VisionModel: getEnv("OLLAMA_VISION_MODEL", "llama3.2-vision"),
				TextModel:   getEnv("OLLAMA_TEXT_MODEL", "deepseek-r1"),
				Timeout:     getEnvSeconds("OLLAMA_TIMEOUT_SEC", 120),
			},
		},
		Scheduler: SchedulerConfig{
			BatchSize:       getEnvInt("PROCESS_BATCH_SIZE", 5),
			ProcessInterval: getEnvSeconds("PROCESS_INTERVAL_SEC", 15),
			RecoverInterval: getEnvSeconds("RECOVER_INTERVAL_SEC", 60),
			Staleness:       getEnvSeconds("RECOVER_STALENESS_SEC", 300),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvSeconds(key string, def int) time.Duration {
	return time.Duration(getEnvInt(key, def)) * time.Second
}
