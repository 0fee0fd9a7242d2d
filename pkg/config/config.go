package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSessionSecret = "dev-session-secret"

type Config struct {
	AppEnv         string
	HTTPAddr       string
	LogLevel       string
	MigrationsPath string

	// Storage selects the booking/account backend: "memory" or "postgres".
	// Empty means postgres when a database is configured, memory otherwise.
	Storage string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often a pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Redis   RedisConfig
	Session SessionConfig
	Broker  BrokerConfig
	Admin   AdminConfig
	Booking BookingConfig

	// AllowedOrigins is the CORS allowlist for the browser front-end.
	AllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// RedisConfig is optional; with no Addr the session store stays in process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret    string
	TTL       time.Duration
	LoginPath string
}

// BrokerConfig is optional; with no URL notices are only logged.
type BrokerConfig struct {
	URL   string
	Queue string
}

// AdminConfig describes the operator account seeded at startup.
type AdminConfig struct {
	Name       string
	Email      string
	Password   string
	BcryptCost int
}

type BookingConfig struct {
	// SubmitDelay holds a submission before it is stored; zero disables it.
	SubmitDelay time.Duration
	CheckoutURL string
	// SeedDemo loads the demo bookings into an empty in-memory store.
	SeedDemo bool
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		LogLevel:       env("LOG_LEVEL", "info"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		Storage:        strings.ToLower(os.Getenv("STORAGE")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "eventpro"),
			User:     env("DB_USER", "eventpro"),
			Password: env("DB_PASSWORD", "eventpro"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret:    env("SESSION_SECRET", defaultSessionSecret),
			TTL:       envDuration("SESSION_TTL", 24*time.Hour),
			LoginPath: env("LOGIN_PATH", "/login"),
		},
		Broker: BrokerConfig{
			URL:   os.Getenv("AMQP_URL"),
			Queue: env("NOTIFY_QUEUE", "booking.notices"),
		},
		Admin: AdminConfig{
			Name:       env("ADMIN_NAME", "Admin"),
			Email:      env("ADMIN_EMAIL", "admin@events.com"),
			Password:   env("ADMIN_PASSWORD", "admin123"),
			BcryptCost: envInt("BCRYPT_COST", 10),
		},
		Booking: BookingConfig{
			SubmitDelay: envDuration("SUBMIT_DELAY", 0),
			CheckoutURL: env("CHECKOUT_URL", "https://checkout.stripe.com/demo"),
			SeedDemo:    envBool("SEED_DEMO", false),
		},
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

// UsePostgres reports whether bookings and accounts live in Postgres.
func (c Config) UsePostgres() bool {
	switch c.Storage {
	case "postgres":
		return true
	case "memory":
		return false
	}
	return strings.TrimSpace(c.DatabaseURL) != ""
}

func (c Config) Validate() error {
	if c.AppEnv == "prod" && c.Session.Secret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in prod")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Booking.SubmitDelay < 0 {
		return errors.New("SUBMIT_DELAY must not be negative")
	}
	switch c.Storage {
	case "", "memory", "postgres":
	default:
		return errors.New("STORAGE must be memory or postgres")
	}
	return nil
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
