package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Rawg     RawgConfig     `mapstructure:"rawg"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type RawgConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	PageSize    int           `mapstructure:"page_size"`
	SidebarSize int           `mapstructure:"sidebar_size"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type HTTPConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load reads an optional .env file, then configs/config.yml under dir, then
// the environment. Secrets are only taken from the environment.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("rawg.base_url", "https://api.rawg.io/api")
	v.SetDefault("rawg.page_size", 20)
	v.SetDefault("rawg.sidebar_size", 20)
	v.SetDefault("rawg.timeout", 10*time.Second)
	v.SetDefault("http.enabled", true)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_header_timeout", 5*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.ttl", 24*time.Hour)

	for key, env := range map[string]string{
		"rawg.api_key":   "RAWG_API_KEY",
		"telegram.token": "TELEGRAM_TOKEN",
		"redis.password": "REDIS_PASSWORD",
	} {
		if err := v.BindEnv(key, env); err != nil {
			slog.Error("failed to bind env", "key", key, "env", env, "error", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Warn("config file not found, using defaults", "dir", dir)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Rawg.APIKey == "" {
		errs = append(errs, errors.New("RAWG_API_KEY is required"))
	}
	if c.Rawg.PageSize < 1 {
		errs = append(errs, fmt.Errorf("rawg.page_size must be positive, got %d", c.Rawg.PageSize))
	}
	if c.Telegram.Enabled && c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required when telegram is enabled"))
	}
	if !c.HTTP.Enabled && !c.Telegram.Enabled {
		errs = append(errs, errors.New("enable at least one of http or telegram"))
	}
	return errors.Join(errs...)
}

// SlogLevel maps the configured level name, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
