package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type InferenceProvider string

const (
	ProviderHuggingFace InferenceProvider = "huggingface"
	ProviderOpenAI      InferenceProvider = "openai"
	ProviderYandex      InferenceProvider = "yandex"
)

type KVBackend string

const (
	BackendFile   KVBackend = "file"
	BackendSQLite KVBackend = "sqlite"
	BackendRedis  KVBackend = "redis"
	BackendMemory KVBackend = "memory"
)

type CredentialBackend string

const (
	CredentialKV      CredentialBackend = "kv"
	CredentialKeyring CredentialBackend = "keyring"
)

type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Key-value storage for the credential, training examples and UI flags
	KVBackend   KVBackend `env:"KV_BACKEND" envDefault:"file"`
	KVFilePath  string    `env:"KV_FILE_PATH" envDefault:"data/kv.json"`
	SQLitePath  string    `env:"SQLITE_PATH" envDefault:"data/pixelforge.db"`
	RedisURL    string    `env:"REDIS_URL"`
	RedisPrefix string    `env:"REDIS_PREFIX" envDefault:"pixelforge:"`

	// Credential storage override
	CredentialBackend CredentialBackend `env:"CREDENTIAL_BACKEND" envDefault:"kv"`
	KeyringService    string            `env:"KEYRING_SERVICE" envDefault:"pixelforge"`
	KeyringDir        string            `env:"KEYRING_DIR" envDefault:"data/keyring"`
	KeyringPassword   string            `env:"KEYRING_PASSWORD"`

	// Remote inference
	InferenceProvider InferenceProvider `env:"INFERENCE_PROVIDER" envDefault:"huggingface"`
	InferenceURL      string            `env:"INFERENCE_URL" envDefault:"https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.2"`
	OpenAIBaseURL     string            `env:"OPENAI_BASE_URL"`
	OpenAIModel       string            `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexFolderID    string            `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Company catalog override; empty uses the embedded default
	KnowledgePath string `env:"KNOWLEDGE_PATH"`

	// HTTP surface
	HTTPAddr       string   `env:"HTTP_ADDR" envDefault:":8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AdminToken     string   `env:"ADMIN_TOKEN"`

	// Telegram surface (optional)
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAPIEndpoint string `env:"TELEGRAM_API_ENDPOINT" envDefault:"https://api.telegram.org/bot%s/%s"`
	AdminUserID         int64  `env:"ADMIN_USER"`

	// Interaction log and reports
	InteractionLogPath string `env:"INTERACTION_LOG_PATH" envDefault:"logs/interactions.jsonl"`
	ReportSchedule     string `env:"REPORT_SCHEDULE" envDefault:"0 21 * * *"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.KVBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for kv backend %q", c.KVBackend)
		}
	default:
		return fmt.Errorf("unknown kv backend: %s", c.KVBackend)
	}
	switch c.CredentialBackend {
	case CredentialKV, CredentialKeyring:
	default:
		return fmt.Errorf("unknown credential backend: %s", c.CredentialBackend)
	}
	switch c.InferenceProvider {
	case ProviderHuggingFace, ProviderOpenAI:
	case ProviderYandex:
		if c.YandexFolderID == "" {
			return fmt.Errorf("YANDEX_FOLDER_ID is required for provider %q", c.InferenceProvider)
		}
	default:
		return fmt.Errorf("unknown inference provider: %s", c.InferenceProvider)
	}
	return nil
}
