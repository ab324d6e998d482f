// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetPublicRatePerMinute() int
	GetPublicRateBurst() int
}

// PricingConfig provides the location of the pricing catalog.
type PricingConfig interface {
	GetPricingCatalogFile() string
}

// LeadsConfig provides settings for the lead intake pipeline.
type LeadsConfig interface {
	GetTrackingPrefix() string
	GetStepTimeout() time.Duration
}

// WebhookConfig provides settings for the outbound lead.created relay.
type WebhookConfig interface {
	GetLeadWebhookURL() string
	GetLeadWebhookSecret() string
	GetLeadWebhookTimeout() time.Duration
	IsLeadWebhookEnabled() bool
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailProvider() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetSendGridAPIKey() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
	GetSalesTeamEmail() string
	GetTeamAlertWebhookURL() string
}

// WhatsAppConfig provides settings for the chat gateway.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
	IsWhatsAppEnabled() bool
}

// SchedulerConfig provides settings for the Redis-backed queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueue() string
	GetAsynqConcurrency() int
	GetSchedulerMetricsAddr() string
	IsSchedulerEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketQuoteSnapshots() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                       string
	HTTPAddr                  string
	DatabaseURL               string
	CORSOrigins               []string
	PublicRatePerMinute       int
	PublicRateBurst           int
	PricingCatalogFile        string
	TrackingPrefix            string
	StepTimeout               time.Duration
	LeadWebhookURL            string
	LeadWebhookSecret         string
	LeadWebhookTimeout        time.Duration
	EmailProvider             string
	SMTPHost                  string
	SMTPPort                  int
	SMTPUsername              string
	SMTPPassword              string
	SendGridAPIKey            string
	EmailFromName             string
	EmailFromAddress          string
	SalesTeamEmail            string
	WhatsAppURL               string
	WhatsAppKey               string
	WhatsAppDeviceID          string
	TeamAlertWebhookURL       string
	AppBaseURL                string
	RedisURL                  string
	RedisTLSInsecure          bool
	AsynqQueue                string
	AsynqConcurrency          int
	SchedulerMetricsAddr      string
	MinIOEndpoint             string
	MinIOAccessKey            string
	MinIOSecretKey            string
	MinIOUseSSL               bool
	MinioBucketQuoteSnapshots string
	LogFile                   string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string    { return c.CORSOrigins }
func (c *Config) GetPublicRatePerMinute() int { return c.PublicRatePerMinute }
func (c *Config) GetPublicRateBurst() int     { return c.PublicRateBurst }

// PricingConfig implementation
func (c *Config) GetPricingCatalogFile() string { return c.PricingCatalogFile }

// LeadsConfig implementation
func (c *Config) GetTrackingPrefix() string     { return c.TrackingPrefix }
func (c *Config) GetStepTimeout() time.Duration { return c.StepTimeout }

// WebhookConfig implementation
func (c *Config) GetLeadWebhookURL() string            { return c.LeadWebhookURL }
func (c *Config) GetLeadWebhookSecret() string         { return c.LeadWebhookSecret }
func (c *Config) GetLeadWebhookTimeout() time.Duration { return c.LeadWebhookTimeout }
func (c *Config) IsLeadWebhookEnabled() bool           { return c.LeadWebhookURL != "" }

// EmailConfig implementation
func (c *Config) GetEmailProvider() string    { return c.EmailProvider }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetSendGridAPIKey() string   { return c.SendGridAPIKey }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool {
	switch c.EmailProvider {
	case EmailProviderSendGrid:
		return c.SendGridAPIKey != ""
	default:
		return c.SMTPHost != ""
	}
}

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string          { return c.AppBaseURL }
func (c *Config) GetSalesTeamEmail() string      { return c.SalesTeamEmail }
func (c *Config) GetTeamAlertWebhookURL() string { return c.TeamAlertWebhookURL }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppURL() string      { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string      { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string { return c.WhatsAppDeviceID }
func (c *Config) IsWhatsAppEnabled() bool     { return c.WhatsAppURL != "" && c.WhatsAppKey != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueue() string     { return c.AsynqQueue }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool  { return c.RedisURL != "" }
func (c *Config) GetSchedulerMetricsAddr() string {
	return c.SchedulerMetricsAddr
}

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketQuoteSnapshots() string {
	return c.MinioBucketQuoteSnapshots
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// Email providers accepted in EMAIL_PROVIDER.
const (
	EmailProviderSMTP     = "smtp"
	EmailProviderSendGrid = "sendgrid"
)

var trackingPrefixPattern = regexp.MustCompile(`^[A-Z]+$`)

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                       getEnv("APP_ENV", "development"),
		HTTPAddr:                  getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:               getEnv("DATABASE_URL", ""),
		CORSOrigins:               splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		PublicRatePerMinute:       mustInt(getEnv("PUBLIC_RATE_PER_MIN", "20")),
		PublicRateBurst:           mustInt(getEnv("PUBLIC_RATE_BURST", "10")),
		PricingCatalogFile:        getEnv("PRICING_CATALOG_FILE", ""),
		TrackingPrefix:            strings.TrimSpace(getEnv("TRACKING_PREFIX", "CNT")),
		StepTimeout:               mustDuration(getEnv("STEP_TIMEOUT", "10s")),
		LeadWebhookURL:            getEnv("LEAD_WEBHOOK_URL", ""),
		LeadWebhookSecret:         getEnv("LEAD_WEBHOOK_SECRET", ""),
		LeadWebhookTimeout:        mustDuration(getEnv("LEAD_WEBHOOK_TIMEOUT", "5s")),
		EmailProvider:             strings.ToLower(getEnv("EMAIL_PROVIDER", EmailProviderSMTP)),
		SMTPHost:                  getEnv("SMTP_HOST", ""),
		SMTPPort:                  mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:              getEnv("SMTP_USERNAME", ""),
		SMTPPassword:              getEnv("SMTP_PASSWORD", ""),
		SendGridAPIKey:            getEnv("SENDGRID_API_KEY", ""),
		EmailFromName:             getEnv("EMAIL_FROM_NAME", "Contenedores"),
		EmailFromAddress:          getEnv("EMAIL_FROM_ADDRESS", ""),
		SalesTeamEmail:            getEnv("SALES_TEAM_EMAIL", ""),
		WhatsAppURL:               getEnv("WHATSAPP_URL", ""),
		WhatsAppKey:               getEnv("WHATSAPP_KEY", ""),
		WhatsAppDeviceID:          getEnv("WHATSAPP_DEVICE_ID", ""),
		TeamAlertWebhookURL:       getEnv("TEAM_ALERT_WEBHOOK_URL", ""),
		AppBaseURL:                strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		RedisURL:                  getEnv("REDIS_URL", ""),
		RedisTLSInsecure:          strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueue:                getEnv("ASYNQ_QUEUE", "notifications"),
		AsynqConcurrency:          mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		SchedulerMetricsAddr:      getEnv("SCHEDULER_METRICS_ADDR", ":9091"),
		MinIOEndpoint:             getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:            getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:            getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:               strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketQuoteSnapshots: getEnv("MINIO_BUCKET_QUOTE_SNAPSHOTS", "quote-snapshots"),
		LogFile:                   getEnv("LOG_FILE", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if !trackingPrefixPattern.MatchString(cfg.TrackingPrefix) {
		return nil, fmt.Errorf("TRACKING_PREFIX must be uppercase letters only, got %q", cfg.TrackingPrefix)
	}
	if cfg.EmailProvider != EmailProviderSMTP && cfg.EmailProvider != EmailProviderSendGrid {
		return nil, fmt.Errorf("EMAIL_PROVIDER must be %q or %q", EmailProviderSMTP, EmailProviderSendGrid)
	}
	if cfg.IsEmailEnabled() && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.PublicRatePerMinute <= 0 || cfg.PublicRateBurst <= 0 {
		return nil, fmt.Errorf("PUBLIC_RATE_PER_MIN and PUBLIC_RATE_BURST must be positive")
	}
	if cfg.StepTimeout <= 0 {
		return nil, fmt.Errorf("STEP_TIMEOUT must be a positive duration")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
