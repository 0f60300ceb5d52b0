package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration
type Config struct {
	// Database
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/loadscout.db"`

	// Dashboard API
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Load board scanning
	BoardURL      string          `env:"BOARD_URL"` // page to poll; empty disables the fetcher
	PollInterval  time.Duration   `env:"POLL_INTERVAL" envDefault:"30s"`
	ScanDebounce  time.Duration   `env:"SCAN_DEBOUNCE" envDefault:"500ms"`
	StartupBursts []time.Duration `env:"STARTUP_BURSTS" envDefault:"1500ms,4s,10s" envSeparator:","`
	FetchTimeout  time.Duration   `env:"FETCH_TIMEOUT" envDefault:"20s"`

	// Mail transport: "mailto" or "smtp"
	MailTransport string `env:"MAIL_TRANSPORT" envDefault:"mailto"`
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser      string `env:"SMTP_USER"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`

	// Telegram notifications (optional)
	TelegramToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// TelegramEnabled returns true if Telegram notifications are configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// SMTPEnabled returns true if the SMTP transport is fully configured
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.MailTransport != "mailto" && cfg.MailTransport != "smtp" {
		return nil, fmt.Errorf("MAIL_TRANSPORT must be \"mailto\" or \"smtp\", got %q", cfg.MailTransport)
	}
	if cfg.MailTransport == "smtp" && !cfg.SMTPEnabled() {
		return nil, fmt.Errorf("MAIL_TRANSPORT=smtp requires SMTP_HOST and SMTP_USER")
	}

	return cfg, nil
}
