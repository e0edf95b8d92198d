package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{"APP_ENV": "test"})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.App.Port != "5000" {
		t.Fatalf("port = %q, want %q", cfg.App.Port, "5000")
	}
	if got := cfg.Auth.TokenTTL.Duration(); got != 7*24*time.Hour {
		t.Fatalf("token ttl = %v, want 168h", got)
	}
	if cfg.Captcha.Timeout != 5*time.Second {
		t.Fatalf("captcha timeout = %v, want 5s", cfg.Captcha.Timeout)
	}
	if cfg.Storage.RemoteEnabled() {
		t.Fatal("expected remote storage disabled without credentials")
	}
	if cfg.Mail.Enabled() {
		t.Fatal("expected mail disabled without api key")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("origins = %v, want [*]", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{
		"PORT":                  "8081",
		"JWT_EXPIRE":            "90m",
		"CLOUDINARY_CLOUD_NAME": "demo",
		"CLOUDINARY_API_KEY":    "key",
		"CLOUDINARY_API_SECRET": "secret",
		"ZEPTOMAIL_API_KEY":     "zkey",
		"ZEPTOMAIL_TO_EMAIL":    "a@example.com,b@example.com",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.App.Addr() != "0.0.0.0:8081" {
		t.Fatalf("addr = %q", cfg.App.Addr())
	}
	if got := cfg.Auth.TokenTTL.Duration(); got != 90*time.Minute {
		t.Fatalf("token ttl = %v, want 90m", got)
	}
	if !cfg.Storage.RemoteEnabled() {
		t.Fatal("expected remote storage enabled")
	}
	if !cfg.Mail.Enabled() || len(cfg.Mail.To) != 2 {
		t.Fatalf("mail recipients = %v", cfg.Mail.To)
	}
}

func TestLoadFromRejectsBadLifetime(t *testing.T) {
	t.Parallel()

	_, err := LoadFrom(map[string]string{"JWT_EXPIRE": "sevendays"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("error = %v, want parse env prefix", err)
	}
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	t.Parallel()

	_, err := LoadFrom(map[string]string{"JWT_EXPIRE": "0d"})
	if err == nil || !strings.Contains(err.Error(), "JWT_EXPIRE") {
		t.Fatalf("error = %v, want JWT_EXPIRE failure", err)
	}
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	t.Parallel()

	_, err := LoadFrom(map[string]string{"APP_ENV": "production"})
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("error = %v, want JWT_SECRET failure", err)
	}

	cfg, err := LoadFrom(map[string]string{"APP_ENV": "production", "JWT_SECRET": "s3cr3t-signing-key"})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Auth.JWTSecret == DefaultJWTSecret {
		t.Fatal("expected configured secret")
	}

	if _, err := LoadFrom(map[string]string{"APP_ENV": "development"}); err != nil {
		t.Fatalf("development should accept the default secret: %v", err)
	}
}
