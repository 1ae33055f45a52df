package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr   string // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir string // logs directory

	DatabaseURL string // postgres://...; empty means in-memory stores
	RedisAddr   string // host:port for the shared marker store; empty means markers live with the other stores

	RegistryBaseURL string // device registry REST endpoint
	RegistryToken   string // bearer token for the registry
	RetryAttempts   int    // registry fetch retries
	RetryBackoff    time.Duration

	EncryptionKey string // vault passphrase; empty falls back to the insecure built-in default
	SMTPHost      string
	SMTPPort      int

	EvalInterval         time.Duration // fleet polling interval; 0 disables the loop
	EvalTimeout          time.Duration // per-device pass budget
	MaxConcurrentDevices int

	PublicAPIKeys  []string
	AdminAPIKeys   []string
	AllowedOrigins []string
	PublicRPM      int
	PublicBurst    int
	AdminRPM       int
	AdminBurst     int
}

// FromEnv reads the environment (loading .env first if present) and applies
// defaults. Nothing here is fatal; cmd/preflight is the strict gate.
func FromEnv() Config {
	_ = godotenv.Load()

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" {
		smtpHost = "smtp.gmail.com"
	}

	return Config{
		Addr:   addr,
		LogDir: logDir,

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		RegistryBaseURL: os.Getenv("REGISTRY_BASE_URL"),
		RegistryToken:   os.Getenv("REGISTRY_TOKEN"),
		RetryAttempts:   envInt("RETRY_ATTEMPTS", 2),
		RetryBackoff:    envMS("RETRY_BACKOFF_MS", 300*time.Millisecond),

		// SMS_ENCRYPTION_KEY is preferred; ENCRYPTION_KEY kept for older
		// deployments. An empty result means the vault runs on its insecure
		// developer default.
		EncryptionKey: firstEnv("SMS_ENCRYPTION_KEY", "ENCRYPTION_KEY"),
		SMTPHost:      smtpHost,
		SMTPPort:      envInt("SMTP_PORT", 587),

		EvalInterval:         envMS("EVAL_INTERVAL_MS", 60*time.Second),
		EvalTimeout:          envMS("EVAL_TIMEOUT_MS", 30*time.Second),
		MaxConcurrentDevices: envInt("MAX_CONCURRENT_DEVICES", 4),

		PublicAPIKeys:  envList("PUBLIC_API_KEYS"),
		AdminAPIKeys:   envList("ADMIN_API_KEYS"),
		AllowedOrigins: envList("ALLOWED_ORIGINS"),
		PublicRPM:      envInt("PUBLIC_RPM", 120),
		PublicBurst:    envInt("PUBLIC_BURST", 60),
		AdminRPM:       envInt("ADMIN_RPM", 60),
		AdminBurst:     envInt("ADMIN_BURST", 30),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envMS(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
