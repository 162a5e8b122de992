package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Type != "sqlite" {
		t.Errorf("storage type = %q, want sqlite", cfg.Storage.Type)
	}
	if cfg.Storage.Table != "form_submissions" {
		t.Errorf("table = %q", cfg.Storage.Table)
	}
	if cfg.Notifier.Type != "smtp" {
		t.Errorf("notifier type = %q, want smtp", cfg.Notifier.Type)
	}
	if cfg.Mail.Subject != "New Form Submission" {
		t.Errorf("subject = %q", cfg.Mail.Subject)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FORMGATE_SERVER__PORT", "9000")
	t.Setenv("FORMGATE_STORAGE__TYPE", "redis")
	t.Setenv("FORMGATE_HCAPTCHA__SECRET", "0xsecret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Storage.Type != "redis" {
		t.Errorf("storage type = %q, want redis", cfg.Storage.Type)
	}
	if cfg.HCaptcha.Secret != "0xsecret" {
		t.Errorf("secret = %q", cfg.HCaptcha.Secret)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8181
mail:
  from: inbox@operator.example
  to: operator@operator.example
storage:
  type: memory
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("port = %d, want 8181", cfg.Server.Port)
	}
	if cfg.Mail.From != "inbox@operator.example" {
		t.Errorf("from = %q", cfg.Mail.From)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("storage type = %q, want memory", cfg.Storage.Type)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8181\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FORMGATE_SERVER__PORT", "9001")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("port = %d, want env override 9001", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Mail:     MailConfig{From: "a@example.com", To: "b@example.com"},
			Storage:  StorageConfig{Type: "sqlite"},
			Notifier: NotifierConfig{Type: "smtp"},
			HCaptcha: HCaptchaConfig{Secret: "s"},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.HCaptcha.Secret = "" }},
		{"missing from", func(c *Config) { c.Mail.From = "" }},
		{"missing to", func(c *Config) { c.Mail.To = "" }},
		{"unknown storage", func(c *Config) { c.Storage.Type = "dynamo" }},
		{"unknown notifier", func(c *Config) { c.Notifier.Type = "carrier-pigeon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
