package configs

import (
	"fmt"
	"time"

	"community-chat/internal/infrastructure/env"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	Logger      LoggerConfig      `koanf:"logger"`
	Mongo       MongoConfig       `koanf:"mongo"`
	RabbitMQ    RabbitMQConfig    `koanf:"rabbitmq"`
	RateLimiter RateLimiterConfig `koanf:"rate_limiter"`
	Chat        ChatConfig        `koanf:"chat"`
	Tracing     TracingConfig     `koanf:"tracing"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type LoggerConfig struct {
	Logger   string `koanf:"logger"` // "zap" or "zerolog"
	Level    string `koanf:"level"`
	Encoding string `koanf:"encoding"`
	FilePath string `koanf:"file_path"` // empty disables file output
}

type MongoConfig struct {
	// Empty URI selects the in-memory stores (standalone/dev mode).
	URI               string        `koanf:"uri"`
	Database          string        `koanf:"database"`
	ConnectionTimeout time.Duration `koanf:"connection_timeout"`
}

type RabbitMQConfig struct {
	// Empty URI disables the moderation event publisher.
	URI      string `koanf:"uri"`
	Exchange string `koanf:"exchange"`
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int           `koanf:"requests_per_time_frame"`
	TimeFrame            time.Duration `koanf:"time_frame"`
}

type ChatConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
	// SessionBuffer bounds the per-session outbound queue; a session that
	// overflows it is disconnected instead of stalling its room.
	SessionBuffer  int `koanf:"session_buffer"`
	HistoryLimit   int `koanf:"history_limit"`
	AuditPageLimit int `koanf:"audit_page_limit"`
}

type TracingConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Endpoint string `koanf:"endpoint"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})

	setDefault(k, "logger.logger", "zap")
	setDefault(k, "logger.level", "info")
	setDefault(k, "logger.encoding", "json")

	setDefault(k, "mongo.database", "community_chat")
	setDefault(k, "mongo.connection_timeout", 20*time.Second)

	setDefault(k, "rabbitmq.exchange", "moderation")

	setDefault(k, "rate_limiter.requests_per_time_frame", 50)
	setDefault(k, "rate_limiter.time_frame", 5*time.Second)

	setDefault(k, "chat.session_buffer", 64)
	setDefault(k, "chat.history_limit", 50)
	setDefault(k, "chat.audit_page_limit", 100)

	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.endpoint", "http://localhost:4318")
}

func applyEnvOverrides(k *koanf.Koanf) {
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if uri := env.GetString("MONGODB_URI", ""); uri != "" {
		k.Set("mongo.uri", uri)
	}
	if database := env.GetString("MONGODB_DATABASE", ""); database != "" {
		k.Set("mongo.database", database)
	}
	if uri := env.GetString("RABBITMQ_URI", ""); uri != "" {
		k.Set("rabbitmq.uri", uri)
	}
	if secret := env.GetString("CHAT_JWT_SECRET", ""); secret != "" {
		k.Set("chat.jwt_secret", secret)
	}
	if endpoint := env.GetString("OTLP_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
		k.Set("tracing.enabled", true)
	}
	if level := env.GetString("LOGGER_LEVEL", ""); level != "" {
		k.Set("logger.level", level)
	}
	if logger := env.GetString("LOGGER_LOGGER", ""); logger != "" {
		k.Set("logger.logger", logger)
	}
}

func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
