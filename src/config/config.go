package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// developmentSecret signs tokens when JWT_SECRET is unset outside production
const developmentSecret = "fallback-secret-key"

type Config struct {
	Env       string
	Port      string
	LogLevel  string
	LogFormat string

	DBDriver      string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
	PostgresDSN   string

	JWTSecret  string
	TokenTTL   time.Duration
	CookieName string

	ClientURL   string
	CORSOrigins string

	MailtrapToken    string
	MailtrapEndpoint string
	MailFromEmail    string
	MailFromName     string
	EmailTimeout     time.Duration

	CloudinaryURL    string
	CloudinaryFolder string
}

// Load reads the process environment, after merging a .env file if one exists
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf(".env file not loaded: %v", err)
	}

	ttl, err := getDuration("TOKEN_TTL", 48*time.Hour)
	if err != nil {
		return nil, err
	}
	emailTimeout, err := getDuration("EMAIL_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:       getEnv("ENV", "development"),
		Port:      getEnv("PORT", "3000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DBDriver:      strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "talentnest"),
		SQLitePath:    getEnv("DB_PATH", "./talentnest.db"),
		PostgresDSN:   os.Getenv("DATABASE_URL"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   ttl,
		CookieName: getEnv("COOKIE_NAME", "jwt-talentnest"),

		ClientURL:   strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:5173"), "/"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		MailtrapToken:    os.Getenv("MAILTRAP_TOKEN"),
		MailtrapEndpoint: getEnv("MAILTRAP_ENDPOINT", "https://send.api.mailtrap.io/api/send"),
		MailFromEmail:    getEnv("MAIL_FROM_EMAIL", "hello@demomailtrap.co"),
		MailFromName:     getEnv("MAIL_FROM_NAME", "TalentNest"),
		EmailTimeout:     emailTimeout,

		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "talentnest"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET is not set, using the development secret")
		cfg.JWTSecret = developmentSecret
	}

	return cfg, nil
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMongo, DriverSQLite:
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	if c.IsProduction() && c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ProfileURL is the frontend link to a user's profile page
func (c *Config) ProfileURL(username string) string {
	return c.ClientURL + "/profile/" + username
}

// PostURL is the frontend link to a single post
func (c *Config) PostURL(postID string) string {
	return c.ClientURL + "/post/" + postID
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
