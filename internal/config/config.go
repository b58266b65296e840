package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"tush00nka/bbbab_chat/internal/model"
)

type Config struct {
	Host     string `mapstructure:"DB_HOST"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	DBPort   string `mapstructure:"DB_PORT"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	ServerPort     string `mapstructure:"SERVER_PORT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	Environment    string `mapstructure:"ENVIRONMENT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	MessageCacheTTL time.Duration `mapstructure:"MESSAGE_CACHE_TTL"`

	MaxMessageLength     int `mapstructure:"MAX_MESSAGE_LENGTH"`
	GroupMinParticipants int `mapstructure:"GROUP_MIN_PARTICIPANTS"`
}

var defaults = map[string]any{
	"DB_HOST":                "",
	"DB_USER":                "",
	"DB_PASSWORD":            "",
	"DB_NAME":                "",
	"DB_PORT":                "",
	"DB_SSLMODE":             "disable",
	"SERVER_PORT":            "",
	"LOG_LEVEL":              "INFO",
	"ENVIRONMENT":            "production",
	"ALLOWED_ORIGINS":        "http://localhost:3000,http://localhost:5173",
	"REDIS_ADDR":             "",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"MESSAGE_CACHE_TTL":      10 * time.Minute,
	"MAX_MESSAGE_LENGTH":     1000,
	"GROUP_MIN_PARTICIPANTS": 1,
}

func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads the given env file if it exists and overlays the process environment.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	if c.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	if c.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.DBPort == "" {
		return fmt.Errorf("DB_PORT is required")
	}

	if c.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("MAX_MESSAGE_LENGTH must be positive, got %d", c.MaxMessageLength)
	}

	if c.MaxMessageLength > model.MaxMessageContentLength {
		return fmt.Errorf("MAX_MESSAGE_LENGTH must not exceed %d, got %d", model.MaxMessageContentLength, c.MaxMessageLength)
	}

	if c.GroupMinParticipants < 1 {
		return fmt.Errorf("GROUP_MIN_PARTICIPANTS must be at least 1, got %d", c.GroupMinParticipants)
	}

	return nil
}

// DSN builds the postgres connection string for gorm.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.DBPort, c.SSLMode)
}

func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
