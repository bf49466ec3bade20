package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var (
	// ErrMissingCredential is returned when the selected AI provider has no API key.
	ErrMissingCredential = errors.New("missing AI provider credential")
	// ErrInvalidValue is returned when an enumerated setting has an unknown value.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// AI providers used for the structuring step.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Summary cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendObject = "object"
	CacheBackendDisk   = "disk"
)

type Config struct {
	Server    ServerConfig
	Worker    WorkerConfig
	Database  DatabaseConfig
	MinIO     MinIOConfig
	RabbitMQ  RabbitMQConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Pipeline  PipelineConfig
	AI        AIConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"15m"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"30s"`
}

type WorkerConfig struct {
	MaxRetries      int           `envconfig:"WORKER_MAX_RETRIES" default:"3"`
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"5m"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"mediamind"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"mediamind"`
	DBName   string `envconfig:"POSTGRES_DB" default:"mediamind"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type MinIOConfig struct {
	Endpoint     string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey    string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey    string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket       string `envconfig:"MINIO_BUCKET" default:"mediamind"`
	UseSSL       bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	CreateBucket bool   `envconfig:"MINIO_CREATE_BUCKET" default:"true"`
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"mediamind"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"mediamind"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CacheConfig struct {
	// Backend selects where structured texts are kept: redis, object or disk.
	Backend string `envconfig:"CACHE_BACKEND" default:"redis"`
	DiskDir string `envconfig:"CACHE_DISK_DIR" default:"/var/cache/mediamind"`
}

type PipelineConfig struct {
	ScratchDir    string `envconfig:"PIPELINE_SCRATCH_DIR" default:""`
	YTDLPPath     string `envconfig:"YTDLP_PATH" default:"yt-dlp"`
	FFmpegPath    string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	MaxAudioBytes int64  `envconfig:"PIPELINE_MAX_AUDIO_BYTES" default:"26214400"`
}

type AIConfig struct {
	// Provider selects the text generator used for structuring.
	// Transcription always goes through OpenAI.
	Provider string `envconfig:"AI_PROVIDER" default:"openai"`
}

type OpenAIConfig struct {
	APIKey             string  `envconfig:"OPENAI_API_KEY"`
	BaseURL            string  `envconfig:"OPENAI_BASE_URL" default:""`
	TranscriptionModel string  `envconfig:"OPENAI_TRANSCRIPTION_MODEL" default:"whisper-1"`
	ChatModel          string  `envconfig:"OPENAI_CHAT_MODEL" default:"gpt-4o-mini"`
	Temperature        float32 `envconfig:"OPENAI_TEMPERATURE" default:"0.5"`
}

type GeminiConfig struct {
	APIKey string `envconfig:"GEMINI_API_KEY"`
	Model  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `envconfig:"RATE_LIMIT_RPM" default:"10"`
	Burst             int `envconfig:"RATE_LIMIT_BURST" default:"3"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendRedis, CacheBackendObject:
	case CacheBackendDisk:
		if c.Cache.DiskDir == "" {
			return fmt.Errorf("%w: CACHE_DISK_DIR is required for the disk backend", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%w: CACHE_BACKEND=%q", ErrInvalidValue, c.Cache.Backend)
	}

	// OpenAI serves transcription regardless of the structuring provider.
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingCredential)
	}

	switch c.AI.Provider {
	case ProviderOpenAI:
	case ProviderGemini:
		if strings.TrimSpace(c.Gemini.APIKey) == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("%w: AI_PROVIDER=%q", ErrInvalidValue, c.AI.Provider)
	}

	if c.Worker.MaxRetries < 0 {
		return fmt.Errorf("%w: WORKER_MAX_RETRIES must not be negative", ErrInvalidValue)
	}
	return nil
}
