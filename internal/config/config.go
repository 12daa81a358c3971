package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppURL      string
	FrontendURL string
	HTTPPort    string
	GinMode     string
	Timezone    string

	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers gin may use for the client IP. Empty trusts none.
	TrustedProxies  []string
	TrustedPlatform string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	SessionSecret string

	JWTSecret string
	TokenTTL  time.Duration

	VAPIDSubject    string
	VAPIDPublicKey  string
	VAPIDPrivateKey string

	ReminderWindowStart string
	ReminderWindowEnd   string

	CronSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURL  string

	MailHost        string
	MailPort        int
	MailUsername    string
	MailPassword    string
	MailFromAddress string
	MailFromName    string

	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"APP_URL":               "http://localhost:8080",
	"FE_APP_URL":            "http://localhost:3000",
	"HTTP_PORT":             "8080",
	"GIN_MODE":              "debug",
	"APP_TIMEZONE":          "Local",
	"TRUSTED_PROXIES":       "",
	"TRUSTED_PLATFORM":      "",
	"DB_DRIVER":             "mysql",
	"DB_HOST":               "localhost",
	"DB_PORT":               "3306",
	"DB_USER":               "taskuser",
	"DB_PASSWORD":           "taskpassword",
	"DB_NAME":               "task_management",
	"REDIS_HOST":            "",
	"REDIS_PORT":            "6379",
	"SESSION_SECRET":        "default-secret-key-change-me",
	"JWT_SECRET":            "default-jwt-secret-change-me-please-32b",
	"TOKEN_TTL":             "720h",
	"VAPID_SUBJECT":         "",
	"VAPID_PUBLIC_KEY":      "",
	"VAPID_PRIVATE_KEY":     "",
	"REMINDER_WINDOW_START": "19:00:00",
	"REMINDER_WINDOW_END":   "23:59:59",
	"CRON_SECRET":           "",
	"GOOGLE_CLIENT_ID":      "",
	"GOOGLE_CLIENT_SECRET":  "",
	"GOOGLE_REDIRECT_URL":   "",
	"GITHUB_CLIENT_ID":      "",
	"GITHUB_CLIENT_SECRET":  "",
	"GITHUB_REDIRECT_URL":   "",
	"MAIL_HOST":             "localhost",
	"MAIL_PORT":             1025,
	"MAIL_USERNAME":         "",
	"MAIL_PASSWORD":         "",
	"MAIL_FROM_ADDRESS":     "no-reply@example.com",
	"MAIL_FROM_NAME":        "Task Reminder",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
}

// Load reads configuration from the environment and, when given, a config
// file (.env or YAML). Environment variables win over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path == "" {
		if _, err := os.Stat(".env"); err == nil {
			path = ".env"
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if strings.HasSuffix(path, ".env") {
			v.SetConfigType("env")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		AppURL:      v.GetString("APP_URL"),
		FrontendURL: strings.TrimRight(v.GetString("FE_APP_URL"), "/"),
		HTTPPort:    v.GetString("HTTP_PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		Timezone:    v.GetString("APP_TIMEZONE"),

		TrustedProxies:  splitList(v.GetString("TRUSTED_PROXIES")),
		TrustedPlatform: v.GetString("TRUSTED_PLATFORM"),

		DBDriver:   v.GetString("DB_DRIVER"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),

		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		SessionSecret: v.GetString("SESSION_SECRET"),

		JWTSecret: v.GetString("JWT_SECRET"),
		TokenTTL:  v.GetDuration("TOKEN_TTL"),

		VAPIDSubject:    v.GetString("VAPID_SUBJECT"),
		VAPIDPublicKey:  v.GetString("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: v.GetString("VAPID_PRIVATE_KEY"),

		ReminderWindowStart: v.GetString("REMINDER_WINDOW_START"),
		ReminderWindowEnd:   v.GetString("REMINDER_WINDOW_END"),

		CronSecret: v.GetString("CRON_SECRET"),

		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		GitHubClientID:     v.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
		GitHubRedirectURL:  v.GetString("GITHUB_REDIRECT_URL"),

		MailHost:        v.GetString("MAIL_HOST"),
		MailPort:        v.GetInt("MAIL_PORT"),
		MailUsername:    v.GetString("MAIL_USERNAME"),
		MailPassword:    v.GetString("MAIL_PASSWORD"),
		MailFromAddress: v.GetString("MAIL_FROM_ADDRESS"),
		MailFromName:    v.GetString("MAIL_FROM_NAME"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if cfg.VAPIDSubject == "" {
		cfg.VAPIDSubject = cfg.AppURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks values that would otherwise fail later at first use.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves APP_TIMEZONE.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
