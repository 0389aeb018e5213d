package config

import (
	"cmp"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr         = ":3000"
	defaultQuoteURL     = "https://thequoteshub.com/api/random-quote"
	defaultQuoteTimeout = 5 * time.Second
	defaultQueryTimeout = 5 * time.Second
	defaultMaxConns     = 4
	defaultRPS          = 10
	defaultBurst        = 20

	// dbPort is fixed; the hosted database only listens there.
	dbPort = "5432"
)

// Auth modes accepted by AUTH_MODE.
const (
	AuthModePlain  = "plain"
	AuthModeBcrypt = "bcrypt"
)

var ErrMissingDatabase = errors.New("DB_HOST, DB_NAME and DB_USER are required when DB_DSN is not set")

type Database struct {
	User     string
	Password string
	Host     string
	Name     string
	// DSN overrides the individual fields when set.
	DSN          string
	MaxConns     int32
	QueryTimeout time.Duration
}

type Config struct {
	Addr               string
	DB                 Database
	QuoteURL           string
	QuoteTimeout       time.Duration
	AuthMode           string
	DeleteRequiresAuth bool
	RateLimitRPS       float64
	RateLimitBurst     int
	LogLevel           string
	LogFormat          string
	EnableHSTS         bool
}

// LoadEnvFiles reads .env and .env.local without overriding variables that
// are already set by the runtime.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds a Config from the process environment. It does not read env
// files; binaries call LoadEnvFiles first.
func Load() (*Config, error) {
	var (
		cfg Config
		err error
	)

	cfg.Addr = cmp.Or(os.Getenv("APP_ADDR"), defaultAddr)
	cfg.QuoteURL = cmp.Or(os.Getenv("QUOTE_URL"), defaultQuoteURL)
	cfg.LogLevel = cmp.Or(os.Getenv("LOG_LEVEL"), "info")
	cfg.LogFormat = cmp.Or(os.Getenv("LOG_FORMAT"), "json")

	cfg.AuthMode = strings.ToLower(cmp.Or(os.Getenv("AUTH_MODE"), AuthModePlain))
	if cfg.AuthMode != AuthModePlain && cfg.AuthMode != AuthModeBcrypt {
		return nil, fmt.Errorf("AUTH_MODE: unsupported value %q", cfg.AuthMode)
	}

	if cfg.QuoteTimeout, err = durationEnv("QUOTE_TIMEOUT", defaultQuoteTimeout); err != nil {
		return nil, err
	}
	if cfg.DeleteRequiresAuth, err = boolEnv("DELETE_REQUIRES_AUTH", false); err != nil {
		return nil, err
	}
	if cfg.EnableHSTS, err = boolEnv("ENABLE_HSTS", false); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = floatEnv("RATE_LIMIT_RPS", defaultRPS); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", defaultBurst); err != nil {
		return nil, err
	}

	db, err := loadDatabase()
	if err != nil {
		return nil, err
	}
	cfg.DB = db

	return &cfg, nil
}

func loadDatabase() (Database, error) {
	db := Database{
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Host:     os.Getenv("DB_HOST"),
		Name:     os.Getenv("DB_NAME"),
		DSN:      os.Getenv("DB_DSN"),
	}
	if db.DSN == "" && (db.Host == "" || db.Name == "" || db.User == "") {
		return Database{}, ErrMissingDatabase
	}

	maxConns, err := intEnv("DB_MAX_CONNS", defaultMaxConns)
	if err != nil {
		return Database{}, err
	}
	if maxConns < 1 {
		return Database{}, fmt.Errorf("DB_MAX_CONNS: must be at least 1, got %d", maxConns)
	}
	db.MaxConns = int32(maxConns)

	if db.QueryTimeout, err = durationEnv("DB_QUERY_TIMEOUT", defaultQueryTimeout); err != nil {
		return Database{}, err
	}
	return db, nil
}

// ConnString returns the Postgres connection URL. TLS is required but the
// server certificate is not verified (sslmode=require).
func (d Database) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, dbPort),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=require",
	}
	return u.String()
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
