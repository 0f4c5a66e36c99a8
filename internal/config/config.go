package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Storage StorageConfig
	Upload  UploadConfig
	OCR     OCRConfig
	LLM     LLMConfig
	Log     LogConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds the document cache settings.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StorageConfig selects where uploaded document images are kept.
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	Bucket        string `mapstructure:"bucket"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
	S3            S3Config
	Minio         MinioConfig
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// MinioConfig holds MinIO settings.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Region    string `mapstructure:"region"`
}

// UploadConfig holds upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// OCRConfig holds text recognition settings.
type OCRConfig struct {
	Provider     string   `mapstructure:"provider"`
	Languages    []string `mapstructure:"languages"`
	PageSegMode  int      `mapstructure:"page_seg_mode"`
	Preprocess   bool     `mapstructure:"preprocess"`
	TimeoutSecs  int      `mapstructure:"timeout_secs"`
	AWSRegion    string   `mapstructure:"aws_region"`
	AWSAccessKey string   `mapstructure:"aws_access_key"`
	AWSSecretKey string   `mapstructure:"aws_secret_key"`
}

// Timeout returns the recognition timeout.
func (o *OCRConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSecs) * time.Second
}

// LLMConfig holds settings for the language-model provider.
type LLMConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// Timeout returns the model call timeout.
func (l *LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSecs) * time.Second
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from a local .env file (if any) and environment
// variables with the DOCANALYZER_ prefix.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DOCANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docanalyzer")
	v.SetDefault("db.password", "docanalyzer_secret")
	v.SetDefault("db.name", "docanalyzer_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")

	// Storage defaults
	v.SetDefault("storage.provider", "none")
	v.SetDefault("storage.bucket", "docanalyzer-uploads")
	v.SetDefault("storage.presign_expiry", 3600)
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.minio.endpoint", "localhost:9000")
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.minio.region", "us-east-1")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 10)

	// OCR defaults
	v.SetDefault("ocr.provider", "tesseract")
	v.SetDefault("ocr.languages", "eng")
	v.SetDefault("ocr.page_seg_mode", 3)
	v.SetDefault("ocr.preprocess", true)
	v.SetDefault("ocr.timeout_secs", 60)
	v.SetDefault("ocr.aws_region", "us-east-1")

	// LLM defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.default_model", "")
	v.SetDefault("llm.timeout_secs", 60)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "DOCANALYZER_SERVER_PORT",
		"server.read_timeout":      "DOCANALYZER_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "DOCANALYZER_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":  "DOCANALYZER_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":       "DOCANALYZER_SERVER_ENVIRONMENT",
		"db.host":                  "DOCANALYZER_DB_HOST",
		"db.port":                  "DOCANALYZER_DB_PORT",
		"db.user":                  "DOCANALYZER_DB_USER",
		"db.password":              "DOCANALYZER_DB_PASSWORD",
		"db.name":                  "DOCANALYZER_DB_NAME",
		"db.sslmode":               "DOCANALYZER_DB_SSLMODE",
		"db.max_open":              "DOCANALYZER_DB_MAX_OPEN",
		"db.max_idle":              "DOCANALYZER_DB_MAX_IDLE",
		"redis.enabled":            "DOCANALYZER_REDIS_ENABLED",
		"redis.addr":               "DOCANALYZER_REDIS_ADDR",
		"redis.password":           "DOCANALYZER_REDIS_PASSWORD",
		"redis.db":                 "DOCANALYZER_REDIS_DB",
		"redis.ttl":                "DOCANALYZER_REDIS_TTL",
		"storage.provider":         "DOCANALYZER_STORAGE_PROVIDER",
		"storage.bucket":           "DOCANALYZER_STORAGE_BUCKET",
		"storage.presign_expiry":   "DOCANALYZER_STORAGE_PRESIGN_EXPIRY",
		"storage.s3.region":        "DOCANALYZER_STORAGE_S3_REGION",
		"storage.s3.endpoint":      "DOCANALYZER_STORAGE_S3_ENDPOINT",
		"storage.s3.access_key":    "DOCANALYZER_STORAGE_S3_ACCESS_KEY",
		"storage.s3.secret_key":    "DOCANALYZER_STORAGE_S3_SECRET_KEY",
		"storage.minio.endpoint":   "DOCANALYZER_STORAGE_MINIO_ENDPOINT",
		"storage.minio.access_key": "DOCANALYZER_STORAGE_MINIO_ACCESS_KEY",
		"storage.minio.secret_key": "DOCANALYZER_STORAGE_MINIO_SECRET_KEY",
		"storage.minio.use_ssl":    "DOCANALYZER_STORAGE_MINIO_USE_SSL",
		"storage.minio.region":     "DOCANALYZER_STORAGE_MINIO_REGION",
		"upload.max_file_size_mb":  "DOCANALYZER_UPLOAD_MAX_FILE_SIZE_MB",
		"ocr.provider":             "DOCANALYZER_OCR_PROVIDER",
		"ocr.languages":            "DOCANALYZER_OCR_LANGUAGES",
		"ocr.page_seg_mode":        "DOCANALYZER_OCR_PAGE_SEG_MODE",
		"ocr.preprocess":           "DOCANALYZER_OCR_PREPROCESS",
		"ocr.timeout_secs":         "DOCANALYZER_OCR_TIMEOUT_SECS",
		"ocr.aws_region":           "DOCANALYZER_OCR_AWS_REGION",
		"ocr.aws_access_key":       "DOCANALYZER_OCR_AWS_ACCESS_KEY",
		"ocr.aws_secret_key":       "DOCANALYZER_OCR_AWS_SECRET_KEY",
		"llm.provider":             "DOCANALYZER_LLM_PROVIDER",
		"llm.api_key":              "DOCANALYZER_LLM_API_KEY",
		"llm.default_model":        "DOCANALYZER_LLM_DEFAULT_MODEL",
		"llm.timeout_secs":         "DOCANALYZER_LLM_TIMEOUT_SECS",
		"log.level":                "DOCANALYZER_LOG_LEVEL",
		"log.format":               "DOCANALYZER_LOG_FORMAT",
		"log.file":                 "DOCANALYZER_LOG_FILE",
		"log.max_size_mb":          "DOCANALYZER_LOG_MAX_SIZE_MB",
		"log.max_backups":          "DOCANALYZER_LOG_MAX_BACKUPS",
		"log.max_age_days":         "DOCANALYZER_LOG_MAX_AGE_DAYS",
		"cors.allowed_origins":     "DOCANALYZER_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCANALYZER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCANALYZER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("redis.enabled"),
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
		TTL:      v.GetDuration("redis.ttl"),
	}
	cfg.Storage = StorageConfig{
		Provider:      strings.ToLower(v.GetString("storage.provider")),
		Bucket:        v.GetString("storage.bucket"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
		S3: S3Config{
			Region:    v.GetString("storage.s3.region"),
			Endpoint:  v.GetString("storage.s3.endpoint"),
			AccessKey: v.GetString("storage.s3.access_key"),
			SecretKey: v.GetString("storage.s3.secret_key"),
		},
		Minio: MinioConfig{
			Endpoint:  v.GetString("storage.minio.endpoint"),
			AccessKey: v.GetString("storage.minio.access_key"),
			SecretKey: v.GetString("storage.minio.secret_key"),
			UseSSL:    v.GetBool("storage.minio.use_ssl"),
			Region:    v.GetString("storage.minio.region"),
		},
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.OCR = OCRConfig{
		Provider:     strings.ToLower(v.GetString("ocr.provider")),
		Languages:    splitList(v.GetString("ocr.languages")),
		PageSegMode:  v.GetInt("ocr.page_seg_mode"),
		Preprocess:   v.GetBool("ocr.preprocess"),
		TimeoutSecs:  v.GetInt("ocr.timeout_secs"),
		AWSRegion:    v.GetString("ocr.aws_region"),
		AWSAccessKey: v.GetString("ocr.aws_access_key"),
		AWSSecretKey: v.GetString("ocr.aws_secret_key"),
	}
	cfg.LLM = LLMConfig{
		Provider:     strings.ToLower(v.GetString("llm.provider")),
		APIKey:       v.GetString("llm.api_key"),
		DefaultModel: v.GetString("llm.default_model"),
		TimeoutSecs:  v.GetInt("llm.timeout_secs"),
	}
	cfg.Log = LogConfig{
		Level:      v.GetString("log.level"),
		Format:     v.GetString("log.format"),
		File:       v.GetString("log.file"),
		MaxSizeMB:  v.GetInt("log.max_size_mb"),
		MaxBackups: v.GetInt("log.max_backups"),
		MaxAgeDays: v.GetInt("log.max_age_days"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	if cfg.Upload.MaxFileSizeMB <= 0 {
		return nil, fmt.Errorf("upload.max_file_size_mb must be positive, got %d", cfg.Upload.MaxFileSizeMB)
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
