package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrUnsupportedDriver = errors.New("unsupported db driver")

type Config struct {
	Env string

	DBDriver string
	DBURL    string

	BcryptCost int
	Lang       string

	AdminEmail    string
	AdminUsername string
	AdminPassword string
	AdminName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration

	OTLPEndpoint   string
	PushgatewayURL string
}

var defaults = map[string]any{
	"APP_ENV":                     "dev",
	"DB_DRIVER":                   "postgres",
	"DATABASE_URL":                "",
	"DB_HOST":                     "127.0.0.1",
	"DB_PORT":                     "5432",
	"DB_USER":                     "workout",
	"DB_PASSWORD":                 "workout",
	"DB_NAME":                     "workout",
	"DB_SSLMODE":                  "disable",
	"BCRYPT_COST":                 0,
	"SEED_LANG":                   "en",
	"ADMIN_EMAIL":                 "admin@example.com",
	"ADMIN_USERNAME":              "admin",
	"ADMIN_PASSWORD":              "admin123",
	"ADMIN_NAME":                  "Administrator",
	"REDIS_ADDR":                  "",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"SEED_LOCK_TTL":               "2m",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"PUSHGATEWAY_URL":             "",
}

// flagKeys maps persistent flags to the keys they override.
var flagKeys = map[string]string{
	"env":         "APP_ENV",
	"db-driver":   "DB_DRIVER",
	"db-url":      "DATABASE_URL",
	"lang":        "SEED_LANG",
	"redis-addr":  "REDIS_ADDR",
	"pushgateway": "PUSHGATEWAY_URL",
}

// Load resolves configuration from defaults, an optional .env file, the
// process environment and, when cmd is non-nil, its persistent flags, in
// increasing precedence. Values already in the environment win over .env.
func Load(cmd *cobra.Command, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if cmd != nil {
		for flag, key := range flagKeys {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	cfg := Config{
		Env:            v.GetString("APP_ENV"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBURL:          v.GetString("DATABASE_URL"),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		Lang:           v.GetString("SEED_LANG"),
		AdminEmail:     v.GetString("ADMIN_EMAIL"),
		AdminUsername:  v.GetString("ADMIN_USERNAME"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		AdminName:      v.GetString("ADMIN_NAME"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		LockTTL:        v.GetDuration("SEED_LOCK_TTL"),
		OTLPEndpoint:   v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		PushgatewayURL: v.GetString("PUSHGATEWAY_URL"),
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBURL == "" {
			cfg.DBURL = buildDBURL(v)
		}
	case "sqlite":
		if cfg.DBURL == "" {
			cfg.DBURL = "file:workout.db?cache=shared"
		}
	case "mysql":
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for driver %q", cfg.DBDriver)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.DBDriver)
	}

	if cfg.LockTTL <= 0 {
		return Config{}, fmt.Errorf("SEED_LOCK_TTL must be positive, got %s", cfg.LockTTL)
	}

	return cfg, nil
}

func buildDBURL(v *viper.Viper) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(v.GetString("DB_USER"), v.GetString("DB_PASSWORD")),
		Host:     v.GetString("DB_HOST") + ":" + v.GetString("DB_PORT"),
		Path:     "/" + v.GetString("DB_NAME"),
		RawQuery: "sslmode=" + url.QueryEscape(v.GetString("DB_SSLMODE")),
	}
	return u.String()
}

// Redacted returns the database URL with any password masked, for logging.
func (c Config) Redacted() string {
	u, err := url.Parse(c.DBURL)
	if err != nil || u.User == nil {
		return c.DBURL
	}
	return u.Redacted()
}
