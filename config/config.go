// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissing = errors.New("config: required setting missing")

// Config holds all application configuration.
type Config struct {
	Debug bool

	// Scraper
	DataDir        string
	SettingsDir    string
	CoursesFile    string
	Workers        int
	HTTPTimeout    time.Duration
	HTTPRetries    int
	RetryWait      time.Duration
	UserAgent      string
	RPBaseURL      string
	BetfairBaseURL string

	// Racing Post subscriber session, optional. Sent as cookies when all three are set.
	RPEmail       string
	RPAuthState   string
	RPAccessToken string

	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// Redis document cache, disabled when RedisAddr is empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// S3-compatible upload target, disabled when S3Bucket is empty.
	S3Endpoint       string
	S3Region         string
	S3Bucket         string
	S3AccessKey      string
	S3SecretKey      string
	S3Prefix         string
	S3ForcePathStyle bool

	// Read API
	JWTSecret  string
	Port       string
	TLSDomains []string

	// MySQL – used only by cmd/migrate.
	MySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DEBUG", false)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("SETTINGS_DIR", "settings")
	v.SetDefault("WORKERS", 4)
	v.SetDefault("HTTP_TIMEOUT", "14s")
	v.SetDefault("HTTP_RETRIES", 6)
	v.SetDefault("RETRY_WAIT", "1400ms")
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36")
	v.SetDefault("RP_BASE_URL", "https://www.racingpost.com")
	v.SetDefault("BETFAIR_BASE_URL", "https://promo.betfair.com/betfairsp/prices")
	v.SetDefault("DB_USER", "padraic")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "rpdata")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "168h")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PREFIX", "rpscrape")
	v.SetDefault("PORT", ":9000")

	cfg := &Config{
		Debug:            v.GetBool("DEBUG"),
		DataDir:          v.GetString("DATA_DIR"),
		SettingsDir:      v.GetString("SETTINGS_DIR"),
		CoursesFile:      v.GetString("COURSES_FILE"),
		Workers:          v.GetInt("WORKERS"),
		HTTPTimeout:      v.GetDuration("HTTP_TIMEOUT"),
		HTTPRetries:      v.GetInt("HTTP_RETRIES"),
		RetryWait:        v.GetDuration("RETRY_WAIT"),
		UserAgent:        v.GetString("USER_AGENT"),
		RPBaseURL:        strings.TrimRight(v.GetString("RP_BASE_URL"), "/"),
		BetfairBaseURL:   strings.TrimRight(v.GetString("BETFAIR_BASE_URL"), "/"),
		RPEmail:          v.GetString("RP_EMAIL"),
		RPAuthState:      v.GetString("RP_AUTH_STATE"),
		RPAccessToken:    v.GetString("RP_ACCESS_TOKEN"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBUser:           v.GetString("DB_USER"),
		DBPass:           v.GetString("DB_PASS"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		CacheTTL:         v.GetDuration("CACHE_TTL"),
		S3Endpoint:       v.GetString("S3_ENDPOINT"),
		S3Region:         v.GetString("S3_REGION"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3AccessKey:      v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:      v.GetString("S3_SECRET_KEY"),
		S3Prefix:         v.GetString("S3_PREFIX"),
		S3ForcePathStyle: v.GetBool("S3_FORCE_PATH_STYLE"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		Port:             v.GetString("PORT"),
		TLSDomains:       splitTrimmed(v.GetString("TLS_DOMAINS")),
		MySQLDSN:         v.GetString("MYSQL_DSN"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// RequireDB reports whether a database sink is configured.
func (c *Config) RequireDB() error {
	if c.DatabaseURL == "" && c.DBPass == "" {
		return fmt.Errorf("%w: DATABASE_URL or DB_PASS", ErrMissing)
	}
	return nil
}

// RequireAPI checks the settings the read API cannot start without.
func (c *Config) RequireAPI() error {
	if err := c.RequireDB(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissing)
	}
	return nil
}

// RequireS3 checks the upload target settings.
func (c *Config) RequireS3() error {
	if c.S3Bucket == "" {
		return fmt.Errorf("%w: S3_BUCKET", ErrMissing)
	}
	if c.S3AccessKey == "" || c.S3SecretKey == "" {
		return fmt.Errorf("%w: S3_ACCESS_KEY and S3_SECRET_KEY", ErrMissing)
	}
	return nil
}

// HasSession reports whether subscriber cookies should be sent.
func (c *Config) HasSession() bool {
	return c.RPEmail != "" && c.RPAuthState != "" && c.RPAccessToken != ""
}

func (c *Config) validate() {
	if c.Workers < 1 {
		log.Fatal("config: WORKERS must be at least 1")
	}
	if c.HTTPRetries < 1 {
		log.Fatal("config: HTTP_RETRIES must be at least 1")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
