package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // LEDGER_TIMEZONE must resolve on minimal images

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/xavierca1/lead-ledger/internal/entity"
	"github.com/xavierca1/lead-ledger/internal/infra/database"
)

// Config holds all application configuration.
type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9091"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"leads.db"`
	Timezone    string `env:"LEDGER_TIMEZONE" envDefault:"Africa/Johannesburg"`

	// Empty disables lead events and the CRM sync consumer.
	RabbitMQURL string `env:"RABBITMQ_URL"`

	KommoAPIToken string `env:"KOMMO_API_TOKEN"`
	KommoBaseURL  string `env:"KOMMO_BASE_URL"`
	KommoStatusID int    `env:"KOMMO_STATUS_ID"`

	MailHost         string   `env:"MAIL_HOST"`
	MailPort         int      `env:"MAIL_PORT" envDefault:"587"`
	MailUser         string   `env:"MAIL_USER"`
	MailPass         string   `env:"MAIL_PASS"`
	MailFrom         string   `env:"MAIL_FROM"`
	ReportRecipients []string `env:"REPORT_RECIPIENTS" envSeparator:","`

	// A zero ReportWindowDays limits the signup series to the report date.
	ReportInterval           time.Duration   `env:"REPORT_INTERVAL" envDefault:"24h"`
	ReportMarketingSpend     decimal.Decimal `env:"REPORT_MARKETING_SPEND" envDefault:"0"`
	ReportWindowDays         int             `env:"REPORT_WINDOW_DAYS" envDefault:"30"`
	UnprocessedCheckInterval time.Duration   `env:"UNPROCESSED_CHECK_INTERVAL" envDefault:"1h"`

	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if _, err := database.ParseDialect(c.DBDriver); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("LEDGER_TIMEZONE: %w", err))
	}
	if c.ReportMarketingSpend.IsNegative() {
		errs = append(errs, errors.New("REPORT_MARKETING_SPEND must not be negative"))
	} else if c.ReportMarketingSpend.GreaterThan(entity.MaxAmount) {
		errs = append(errs, fmt.Errorf("REPORT_MARKETING_SPEND must not exceed %s", entity.MaxAmount))
	}
	if c.ReportWindowDays < 0 {
		errs = append(errs, errors.New("REPORT_WINDOW_DAYS must not be negative"))
	}
	if c.ReportInterval <= 0 {
		errs = append(errs, errors.New("REPORT_INTERVAL must be positive"))
	}
	if c.UnprocessedCheckInterval <= 0 {
		errs = append(errs, errors.New("UNPROCESSED_CHECK_INTERVAL must be positive"))
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) Dialect() database.Dialect {
	d, _ := database.ParseDialect(c.DBDriver)
	return d
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

func (c *Config) CRMEnabled() bool {
	return c.KommoAPIToken != "" && c.KommoBaseURL != ""
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != "" && len(c.ReportRecipients) > 0
}
