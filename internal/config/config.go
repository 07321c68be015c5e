package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vancomm/lifesweeper/internal/mines"
)

const EnvPrefix = "LIFESWEEPER"

type Session struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Mode     string       `mapstructure:"mode"`
	Addr     string       `mapstructure:"addr"`
	BasePath string       `mapstructure:"base_path"`
	Board    mines.Bounds `mapstructure:"board"`
	Session  Session      `mapstructure:"session"`
	Log      Log          `mapstructure:"log"`
	Postgres Database     `mapstructure:"postgres"`
	Cookies  CookiesInfo  `mapstructure:"cookies"`
	JWT      JWTInfo      `mapstructure:"jwt"`
	Cors     Cors         `mapstructure:"cors"`
}

func (c Config) Development() bool {
	return c.Mode == "development"
}

func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"mode":               c.Mode,
		"addr":               c.Addr,
		"base_path":          c.BasePath,
		"board":              fmt.Sprintf("%+v", c.Board),
		"session_ttl":        c.Session.TTL.String(),
		"log_level":          c.Log.Level,
		"log_file":           c.Log.File,
		"pg_host":            c.Postgres.Host,
		"pg_port":            c.Postgres.Port,
		"pg_user":            c.Postgres.Username,
		"pg_db_name":         c.Postgres.DBName,
		"cookies_domain":     c.Cookies.Domain,
		"jwt_token_lifetime": c.JWT.TokenLifetime.String(),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "production")
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_path", "")

	bounds := mines.DefaultBounds()
	v.SetDefault("board.min_height", bounds.MinHeight)
	v.SetDefault("board.max_height", bounds.MaxHeight)
	v.SetDefault("board.min_width", bounds.MinWidth)
	v.SetDefault("board.max_width", bounds.MaxWidth)

	v.SetDefault("session.ttl", time.Hour)
	v.SetDefault("session.sweep_interval", time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.username", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.password_file", "")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.db_name", "")
	v.SetDefault("postgres.ssl_mode", "disable")

	v.SetDefault("cookies.domain", "")
	v.SetDefault("cookies.secure", true)
	v.SetDefault("cookies.same_site", "strict")

	v.SetDefault("jwt.private_key", "")
	v.SetDefault("jwt.private_key_file", "")
	v.SetDefault("jwt.public_key", "")
	v.SetDefault("jwt.public_key_file", "")
	v.SetDefault("jwt.token_lifetime", time.Hour*24*30)

	v.SetDefault("cors.allowed_origins", []string{})
}

// legacyEnv maps config keys to the variables the deployment already sets.
var legacyEnv = map[string]string{
	"postgres.url":           "DATABASE_URL",
	"postgres.username":      "POSTGRES_USER",
	"postgres.password":      "POSTGRES_PASSWORD",
	"postgres.password_file": "POSTGRES_PASSWORD_FILE",
	"postgres.host":          "POSTGRES_HOST",
	"postgres.port":          "POSTGRES_PORT",
	"postgres.db_name":       "POSTGRES_DB",
	"postgres.ssl_mode":      "POSTGRES_SSLMODE",
	"cookies.domain":         "COOKIES_DOMAIN",
	"cookies.secure":         "COOKIES_SECURE",
	"cookies.same_site":      "COOKIES_SAMESITE",
	"jwt.private_key":        "JWT_PRIVATE_KEY",
	"jwt.private_key_file":   "JWT_PRIVATE_KEY_FILE",
	"jwt.public_key":         "JWT_PUBLIC_KEY",
	"jwt.public_key_file":    "JWT_PUBLIC_KEY_FILE",
	"base_path":              "APP_BASE_PATH",
	"addr":                   "APP_ADDR",
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads the config file at path (if any) and applies environment
// overrides. LIFESWEEPER_* variables win over the legacy names.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, envName(key), legacy); err != nil {
			return nil, fmt.Errorf("unable to bind %s: %w", legacy, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	if _, ok := os.LookupEnv(envName("mode")); !ok {
		if dev := os.Getenv("DEVELOPMENT"); dev != "" && dev != "0" {
			cfg.Mode = "development"
		}
	}

	if err := cfg.Board.Check(); err != nil {
		return nil, fmt.Errorf("invalid board config: %w", err)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", cfg.Session.TTL)
	}
	if cfg.Session.SweepInterval <= 0 {
		return nil, fmt.Errorf(
			"session sweep interval must be positive, got %s", cfg.Session.SweepInterval,
		)
	}

	return &cfg, nil
}
