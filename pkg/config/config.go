package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Telegram TelegramConfig
	API      APIConfig
	Cache    CacheConfig
	Updates  UpdatesConfig
	Ops      OpsConfig
	Export   ExportConfig
	Log      LogConfig
}

// TelegramConfig configures the bot transport.
type TelegramConfig struct {
	Token           string
	Debug           bool
	PollTimeout     int
	InlineCacheTime int
}

// APIConfig points at the remote schedule catalog.
type APIConfig struct {
	BaseURL     string
	Key         string
	AdminKey    string
	HTTPTimeout time.Duration
}

// CacheConfig governs reference data caching.
type CacheConfig struct {
	TTL            time.Duration
	WarmupSchedule string
}

// UpdatesConfig sizes the update worker pool.
type UpdatesConfig struct {
	Workers    int
	BufferSize int
}

// OpsConfig controls the operational HTTP server.
type OpsConfig struct {
	Enabled bool
	Port    int
}

// ExportConfig configures schedule document export.
type ExportConfig struct {
	FontPath string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Telegram = TelegramConfig{
		Token:           v.GetString("TELEGRAM_BOT_TOKEN"),
		Debug:           v.GetBool("TELEGRAM_DEBUG"),
		PollTimeout:     v.GetInt("TELEGRAM_POLL_TIMEOUT"),
		InlineCacheTime: v.GetInt("INLINE_CACHE_TIME"),
	}

	cfg.API = APIConfig{
		BaseURL:     strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Key:         v.GetString("API_KEY"),
		AdminKey:    v.GetString("ADMIN_API_KEY"),
		HTTPTimeout: parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
	}

	cfg.Cache = CacheConfig{
		TTL:            parseDuration(v.GetString("CACHE_TTL"), time.Hour),
		WarmupSchedule: strings.TrimSpace(v.GetString("CACHE_WARMUP_SCHEDULE")),
	}

	cfg.Updates = UpdatesConfig{
		Workers:    v.GetInt("UPDATE_WORKERS"),
		BufferSize: v.GetInt("UPDATE_BUFFER"),
	}

	cfg.Ops = OpsConfig{
		Enabled: v.GetBool("OPS_ENABLED"),
		Port:    v.GetInt("OPS_PORT"),
	}

	cfg.Export = ExportConfig{FontPath: v.GetString("EXPORT_FONT_PATH")}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg
}

// Validate reports required settings that are missing.
func (c *Config) Validate() error {
	var missing []string
	if c.Telegram.Token == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.API.BaseURL == "" {
		missing = append(missing, "API_BASE_URL")
	}
	if c.API.Key == "" {
		missing = append(missing, "API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_DEBUG", false)
	v.SetDefault("TELEGRAM_POLL_TIMEOUT", 60)
	v.SetDefault("INLINE_CACHE_TIME", 10)

	v.SetDefault("API_BASE_URL", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("ADMIN_API_KEY", "")
	v.SetDefault("API_TIMEOUT", "15s")

	v.SetDefault("CACHE_TTL", "1h")
	v.SetDefault("CACHE_WARMUP_SCHEDULE", "@every 30m")

	v.SetDefault("UPDATE_WORKERS", 4)
	v.SetDefault("UPDATE_BUFFER", 64)

	v.SetDefault("OPS_ENABLED", true)
	v.SetDefault("OPS_PORT", 8080)

	v.SetDefault("EXPORT_FONT_PATH", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// viper surfaces a missing explicit config file as a plain fs error.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
