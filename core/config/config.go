package config

import (
	"path/filepath"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App        AppConfig
	Paths      PathsConfig
	Database   DatabaseConfig
	Valkey     ValkeyConfig
	Whatsapp   WhatsappConfig
	Engine     EngineConfig
	WorkerPool WorkerPoolConfig
}

type AppConfig struct {
	Version        string
	Port           string
	Debug          bool
	BasePath       string
	BasicAuth      []string
	TrustedProxies []string
}

type PathsConfig struct {
	Statics  string
	Storages string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string // File path for SQLite, DB name for Postgres
}

type ValkeyConfig struct {
	Enabled   bool
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

type WhatsappConfig struct {
	VerifyToken   string
	AccessToken   string
	PhoneNumberID string
	GraphBaseURL  string
	SendTimeoutMs int
}

type EngineConfig struct {
	RulesSeedPath     string
	SessionBackend    string // "memory" or "valkey"
	SessionTTLMinutes int    // 0 keeps sessions for the process lifetime
}

type WorkerPoolConfig struct {
	Size      int
	QueueSize int
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	storages := getEnv("APP_STORAGES_PATH", "storages")

	cfg := &Config{
		App: AppConfig{
			Version:  "v1.2.0",
			Port:     getEnv("APP_PORT", getEnv("PORT", "3000")),
			Debug:    getEnvBool("APP_DEBUG", false),
			BasePath: getEnv("APP_BASE_PATH", ""),
		},
		Paths: PathsConfig{
			Statics:  getEnv("PATH_STATICS", "statics"),
			Storages: storages,
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", filepath.Join(storages, "chatbot.db")),
		},
		Valkey: ValkeyConfig{
			Enabled:   getEnvBool("VALKEY_ENABLED", false),
			Address:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
			Password:  getEnv("VALKEY_PASSWORD", ""),
			DB:        getEnvInt("VALKEY_DB", 0),
			KeyPrefix: getEnv("VALKEY_KEY_PREFIX", "chatbot:"),
		},
		Whatsapp: WhatsappConfig{
			VerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
			AccessToken:   getEnv("WHATSAPP_TOKEN", ""),
			PhoneNumberID: getEnv("PHONE_NUMBER_ID", ""),
			GraphBaseURL:  getEnv("WHATSAPP_GRAPH_BASE_URL", "https://graph.facebook.com/v20.0"),
			SendTimeoutMs: getEnvInt("WHATSAPP_SEND_TIMEOUT_MS", 15000),
		},
		Engine: EngineConfig{
			RulesSeedPath:     getEnv("RULES_SEED_PATH", "rules.json"),
			SessionBackend:    getEnv("SESSION_BACKEND", "memory"),
			SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 0),
		},
		WorkerPool: WorkerPoolConfig{
			Size:      getEnvInt("MESSAGE_WORKER_POOL_SIZE", 8),
			QueueSize: getEnvInt("MESSAGE_WORKER_QUEUE_SIZE", 256),
		},
	}

	if v := getEnv("APP_BASIC_AUTH", ""); v != "" {
		cfg.App.BasicAuth = splitList(v)
	}
	if v := getEnv("APP_TRUSTED_PROXIES", ""); v != "" {
		cfg.App.TrustedProxies = splitList(v)
	}

	Global = cfg
	return cfg, nil
}
