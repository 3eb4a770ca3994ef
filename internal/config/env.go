package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// SMTPConfig holds mail delivery settings. SMTP is environment-configured
// rather than stored in config.json so credentials stay out of the file.
type SMTPConfig struct {
	Host     string `env:"STRIDE_SMTP_HOST"`
	Port     int    `env:"STRIDE_SMTP_PORT" envDefault:"587"`
	From     string `env:"STRIDE_SMTP_FROM" envDefault:"no-reply@stride.local"`
	Username string `env:"STRIDE_SMTP_USERNAME"`
	Password string `env:"STRIDE_SMTP_PASSWORD"`
}

// Enabled reports whether a mail host is configured. Without one,
// notifications fall back to console output.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// LoadSMTPFromEnv reads SMTP settings from environment variables.
func LoadSMTPFromEnv() (SMTPConfig, error) {
	var cfg SMTPConfig
	if err := env.Parse(&cfg); err != nil {
		return SMTPConfig{}, fmt.Errorf("failed to parse SMTP env: %w", err)
	}
	return cfg, nil
}
