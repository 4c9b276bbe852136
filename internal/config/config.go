package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"recepce/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App           AppConfig            `yaml:"app"`
	Company       CompanyConfig        `yaml:"company"`
	BusinessHours models.BusinessHours `yaml:"business_hours"`
	Booking       BookingConfig        `yaml:"booking"`
	Calendar      CalendarConfig       `yaml:"calendar"`
	Database      DatabaseConfig       `yaml:"database"`
	Redis         RedisConfig          `yaml:"redis"`
	Notifications NotificationsConfig  `yaml:"notifications"`
	API           APIConfig            `yaml:"api"`
	Monitoring    MonitoringConfig     `yaml:"monitoring"`
	Logging       LoggingConfig        `yaml:"logging"`
	Exports       ExportConfig         `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type CompanyConfig struct {
	Name       string `yaml:"name"`
	OwnerEmail string `yaml:"owner_email"`
	Timezone   string `yaml:"timezone"`
}

type BookingConfig struct {
	DurationMinutes int `yaml:"duration_minutes"`
	SlotLockSeconds int `yaml:"slot_lock_seconds"`
	PortTimeout     int `yaml:"port_timeout_seconds"`
}

type CalendarConfig struct {
	Provider string        `yaml:"provider"` // google or caldav
	FailOpen *bool         `yaml:"fail_open"`
	Google   GoogleConfig  `yaml:"google"`
	CalDAV   CalDAVConfig  `yaml:"caldav"`
	Breaker  BreakerConfig `yaml:"breaker"`
}

type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	CalendarID      string `yaml:"calendar_id"`
}

type CalDAVConfig struct {
	URL          string `yaml:"url"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	CalendarPath string `yaml:"calendar_path"`
}

type BreakerConfig struct {
	Enabled          bool `yaml:"enabled"`
	FailureThreshold int  `yaml:"failure_threshold"`
	OpenSeconds      int  `yaml:"open_seconds"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type NotificationsConfig struct {
	SMSEnabled      bool            `yaml:"sms_enabled"`
	EmailEnabled    bool            `yaml:"email_enabled"`
	TelegramEnabled bool            `yaml:"telegram_enabled"`
	Templates       TemplatesConfig `yaml:"templates"`
	Twilio          TwilioConfig    `yaml:"twilio"`
	SMTP            SMTPConfig      `yaml:"smtp"`
	Telegram        TelegramConfig  `yaml:"telegram"`
}

type TemplatesConfig struct {
	CustomerSMS      string `yaml:"customer_sms"`
	OperatorSubject  string `yaml:"operator_subject"`
	OperatorEmail    string `yaml:"operator_email"`
	OperatorTelegram string `yaml:"operator_telegram"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type SMTPConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type APIConfig struct {
	Enabled   bool            `yaml:"enabled"`
	Port      int             `yaml:"port"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the yaml config, expanding ${ENV} references first. A .env file
// next to the binary is picked up when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if err := c.BusinessHours.Validate(); err != nil {
		return err
	}

	switch c.Calendar.Provider {
	case "google", "caldav":
	default:
		return fmt.Errorf("unknown calendar provider: %q", c.Calendar.Provider)
	}

	if _, err := time.LoadLocation(c.Company.Timezone); err != nil {
		return fmt.Errorf("invalid company timezone %q: %w", c.Company.Timezone, err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Company.Timezone == "" {
		c.Company.Timezone = "Europe/Prague"
	}
	if c.Booking.DurationMinutes == 0 {
		c.Booking.DurationMinutes = int(models.DefaultSlotDuration.Minutes())
	}
	if c.Booking.SlotLockSeconds == 0 {
		c.Booking.SlotLockSeconds = 30
	}
	if c.Booking.PortTimeout == 0 {
		c.Booking.PortTimeout = 10
	}
	if c.Calendar.Provider == "" {
		c.Calendar.Provider = "google"
	}
	if c.Calendar.FailOpen == nil {
		failOpen := true
		c.Calendar.FailOpen = &failOpen
	}
	if c.Calendar.Google.CalendarID == "" {
		c.Calendar.Google.CalendarID = "primary"
	}
	if c.Calendar.Breaker.FailureThreshold == 0 {
		c.Calendar.Breaker.FailureThreshold = 5
	}
	if c.Calendar.Breaker.OpenSeconds == 0 {
		c.Calendar.Breaker.OpenSeconds = 60
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = 10
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = 5
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Notifications.SMTP.Port == 0 {
		c.Notifications.SMTP.Port = 587
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// SlotDuration returns the configured appointment length.
func (c *Config) SlotDuration() time.Duration {
	return time.Duration(c.Booking.DurationMinutes) * time.Minute
}

// SlotLockTTL returns how long a per-slot booking lock is held.
func (c *Config) SlotLockTTL() time.Duration {
	return time.Duration(c.Booking.SlotLockSeconds) * time.Second
}

// PortTimeout bounds any single external port call.
func (c *Config) PortTimeout() time.Duration {
	return time.Duration(c.Booking.PortTimeout) * time.Second
}

// FailOpen reports whether calendar read errors are treated as free slots.
func (c *Config) FailOpen() bool {
	return c.Calendar.FailOpen == nil || *c.Calendar.FailOpen
}

// Location resolves the company timezone. Validate guarantees it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Company.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
