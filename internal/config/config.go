// Package config loads service configuration from an optional YAML file and
// FORMGATE_-prefixed environment variables, read once at process start.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Mail       MailConfig       `koanf:"mail"`
	Storage    StorageConfig    `koanf:"storage"`
	Notifier   NotifierConfig   `koanf:"notifier"`
	HCaptcha   HCaptchaConfig   `koanf:"hcaptcha"`
	EmailCheck EmailCheckConfig `koanf:"emailcheck"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type MailConfig struct {
	// From is the notification sender and reply-to address.
	From string `koanf:"from"`
	// To is the operator address notifications are sent to.
	To string `koanf:"to"`
	// Subject overrides the fixed notification subject.
	Subject string `koanf:"subject"`
}

type StorageConfig struct {
	// Type selects the record store: sqlite, redis, memory.
	Type   string       `koanf:"type"`
	Table  string       `koanf:"table"`
	SQLite SQLiteConfig `koanf:"sqlite"`
	Redis  RedisConfig  `koanf:"redis"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type NotifierConfig struct {
	// Type selects the notifier: smtp, amqp.
	Type string     `koanf:"type"`
	SMTP SMTPConfig `koanf:"smtp"`
	AMQP AMQPConfig `koanf:"amqp"`
}

type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

type AMQPConfig struct {
	URL        string `koanf:"url"`
	Exchange   string `koanf:"exchange"`
	RoutingKey string `koanf:"routing_key"`
}

type HCaptchaConfig struct {
	Secret  string `koanf:"secret"`
	BaseURL string `koanf:"base_url"`
}

type EmailCheckConfig struct {
	// ExtraDisposableDomains extends the built-in disposable deny list.
	ExtraDisposableDomains []string `koanf:"extra_disposable_domains"`
}

// Load reads configuration. A file path of "" skips the file layer;
// environment variables override file values.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// FORMGATE_STORAGE__TABLE=x maps to storage.table.
	if err := k.Load(env.Provider("FORMGATE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "FORMGATE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	defaults := map[string]any{
		"server.port":               8080,
		"mail.subject":              "New Form Submission",
		"storage.type":              "sqlite",
		"storage.table":             "form_submissions",
		"storage.sqlite.path":       "./data/formgate.db",
		"notifier.type":             "smtp",
		"notifier.smtp.port":        587,
		"notifier.amqp.exchange":    "notifications",
		"notifier.amqp.routing_key": "notification.form",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the fields the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.HCaptcha.Secret == "" {
		return fmt.Errorf("hcaptcha.secret is required")
	}
	if c.Mail.From == "" {
		return fmt.Errorf("mail.from is required")
	}
	if c.Mail.To == "" {
		return fmt.Errorf("mail.to is required")
	}
	switch c.Storage.Type {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("unknown storage.type %q", c.Storage.Type)
	}
	switch c.Notifier.Type {
	case "smtp", "amqp":
	default:
		return fmt.Errorf("unknown notifier.type %q", c.Notifier.Type)
	}
	return nil
}
