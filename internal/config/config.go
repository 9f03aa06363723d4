package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server     ServerConfig     // Настройки HTTP сервера
	Database   DatabaseConfig   // Настройки подключения к БД
	JWT        JWTConfig        // Настройки проверки JWT
	Recaptcha  RecaptchaConfig  // Настройки проверки recaptcha
	SMTP       SMTPConfig       // Настройки исходящей почты
	Slack      SlackConfig      // Настройки нотификаций
	Invitation InvitationConfig // Настройки приглашений
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"signup_service"`
	Password string `envconfig:"DB_PASSWORD" default:"signup_service_pass"`
	Name     string `envconfig:"DB_NAME" default:"signup_service"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
}

// JWTConfig содержит настройки проверки входящих JWT
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

// RecaptchaConfig содержит настройки сервиса проверки recaptcha
type RecaptchaConfig struct {
	Secret    string `envconfig:"RECAPTCHA_SECRET" required:"true"`
	VerifyURL string `envconfig:"RECAPTCHA_VERIFY_URL" default:""`
}

// SMTPConfig содержит настройки исходящей почты
type SMTPConfig struct {
	Host          string `envconfig:"SMTP_HOST" default:"localhost"`
	Port          int    `envconfig:"SMTP_PORT" default:"587"`
	Username      string `envconfig:"SMTP_USERNAME" default:""`
	Password      string `envconfig:"SMTP_PASSWORD" default:""`
	From          string `envconfig:"SMTP_FROM" default:"no-reply@signup.local"`
	InviteBaseURL string `envconfig:"SMTP_INVITE_BASE_URL" default:"http://localhost:8080"`
}

// SlackConfig содержит настройки нотификаций о регистрациях
type SlackConfig struct {
	WebhookURL string `envconfig:"SLACK_WEBHOOK_URL" required:"true"`
	Channel    string `envconfig:"SLACK_CHANNEL" default:"#new-signups"`
}

// InvitationConfig содержит настройки жизненного цикла приглашений
type InvitationConfig struct {
	ExpiryDays int `envconfig:"INVITATION_EXPIRY_DAYS" default:"7"`
}

// TTL возвращает срок жизни приглашения как time.Duration
func (i InvitationConfig) TTL() time.Duration {
	return time.Duration(i.ExpiryDays) * 24 * time.Hour
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
