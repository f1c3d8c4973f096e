// Package config предоставляет управление конфигурацией приложения
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"snapchat-analyzer/internal/domain"
)

// Server содержит конфигурацию HTTP-сервера для команды serve
type Server struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxUploadSizeMB int           `json:"max_upload_size_mb" yaml:"max_upload_size_mb"`
}

// Cache содержит конфигурацию кэша отчетов
type Cache struct {
	TTL             time.Duration `json:"ttl" yaml:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
}

// Analysis содержит значения по умолчанию для анализа
type Analysis struct {
	UserFilterMode string `json:"user_filter_mode" yaml:"user_filter_mode"` // literal, sender
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text, json
}

// Config содержит конфигурацию приложения
type Config struct {
	Server   Server   `json:"server" yaml:"server"`
	Cache    Cache    `json:"cache" yaml:"cache"`
	Analysis Analysis `json:"analysis" yaml:"analysis"`
	Logging  Logging  `json:"logging" yaml:"logging"`
}

// defaultConfig возвращает конфигурацию со значениями по умолчанию
func defaultConfig() *Config {
	return &Config{
		Server: Server{
			Host:            DefaultServerHost,
			Port:            DefaultServerPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			IdleTimeout:     DefaultIdleTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxUploadSizeMB: DefaultMaxUploadSizeMB,
		},
		Cache: Cache{
			TTL:             DefaultCacheTTL,
			CleanupInterval: DefaultCleanupInterval,
		},
		Analysis: Analysis{
			UserFilterMode: DefaultUserFilterMode,
		},
		Logging: Logging{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadConfig загружает конфигурацию: значения по умолчанию, затем YAML-файл
// (если он есть), затем переменные окружения и .env файл.
// Пустой path означает config.yml в текущей директории.
func LoadConfig(path string) (*Config, error) {
	// Отсутствие .env файла не является ошибкой
	_ = godotenv.Load()

	if path == "" {
		path = DefaultConfigFile
	}

	cfg := defaultConfig()
	if err := loadFromYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// loadFromYAML накладывает значения из YAML-файла на cfg. Отсутствие файла не ошибка.
func loadFromYAML(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML config %s: %w", filename, err)
	}

	return nil
}

// applyEnv переопределяет значения из переменных окружения
func applyEnv(cfg *Config) error {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)

	if v := getEnv("SERVER_PORT", ""); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	if v := getEnv("CACHE_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		cfg.Cache.TTL = ttl
	}

	cfg.Analysis.UserFilterMode = getEnv("USER_FILTER_MODE", cfg.Analysis.UserFilterMode)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	return nil
}

// Address возвращает адрес сервера в формате "host:port"
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxUploadBytes возвращает ограничение размера загружаемого файла в байтах
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadSizeMB) << 20
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number (1-65535)")
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	if c.Server.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("server.max_upload_size_mb must be positive")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}

	if c.Cache.CleanupInterval <= 0 {
		return fmt.Errorf("cache.cleanup_interval must be positive")
	}

	if _, err := domain.ParseCorrespondentMode(c.Analysis.UserFilterMode); err != nil {
		return fmt.Errorf("analysis.user_filter_mode: %w", err)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be one of: text, json")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// Default возвращает конфигурацию со значениями по умолчанию без чтения файлов и окружения
func Default() *Config {
	return defaultConfig()
}
