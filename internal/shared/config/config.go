package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	ParseModeSync  = "sync"
	ParseModeQueue = "queue"
)

// Config holds application configuration.
type Config struct {
	Port             string
	CORSAllowOrigin  []string
	ObjectStoreType  string
	LocalStoreDir    string
	AWSRegion        string
	S3Bucket         string
	S3Prefix         string
	SSEKMSKeyID      string
	DatabaseURL      string
	Env              string
	ParseMode        string
	ParseQueueURL    string
	ParserConfigPath string
	ParseRateRPS     float64
	ParseRateBurst   int
	PollRateRPS      float64
	PollRateBurst    int
	MaxUploadBytes   int64
	WorkerConcurrent int
	LogLevel         string
	LogFormat        string
	// Process names the binary kind ("server", "worker"); set by cmd/ mains.
	Process          string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:  normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:      dbURL,
		Env:              env,
		ParseMode:        normalizeParseMode(getEnv("PARSE_MODE", ParseModeSync)),
		ParseQueueURL:    getEnv("PARSE_QUEUE_URL", ""),
		ParserConfigPath: getEnv("PARSER_CONFIG", ""),
		ParseRateRPS:     getFloat("PARSE_RATE_RPS", 2),
		ParseRateBurst:   getInt("PARSE_RATE_BURST", 5),
		PollRateRPS:      getFloat("POLL_RATE_RPS", 10),
		PollRateBurst:    getInt("POLL_RATE_BURST", 20),
		MaxUploadBytes:   int64(getInt("MAX_UPLOAD_BYTES", 10<<20)),
		WorkerConcurrent: getInt("WORKER_CONCURRENCY", 4),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Printf("invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeParseMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ParseModeQueue, "sqs", "async":
		return ParseModeQueue
	default:
		return ParseModeSync
	}
}
