package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ORIGINS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SlotProvisionDays != 14 {
		t.Fatalf("expected default provision days, got %d", cfg.SlotProvisionDays)
	}
	if cfg.SlotDefaultCapacity != 4 {
		t.Fatalf("expected default slot capacity, got %d", cfg.SlotDefaultCapacity)
	}
	if cfg.CatalogCacheTTL != 5*time.Minute {
		t.Fatalf("expected default cache ttl, got %s", cfg.CatalogCacheTTL)
	}
	if cfg.EmailProvider != "auto" {
		t.Fatalf("expected default email provider, got %s", cfg.EmailProvider)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors default, got %v", cfg.CORSOrigins)
	}
	if cfg.IsProduction() {
		t.Fatalf("development config should not report production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("SLOT_PROVISION_DAYS", "30")
	t.Setenv("SLOT_DEFAULT_CAPACITY", "6")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("EMAIL_PROVIDER", " SendGrid ")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "60")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" || !cfg.IsProduction() {
		t.Fatalf("expected production env, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "top-secret" {
		t.Fatalf("expected jwt secret override")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Fatalf("expected trimmed cors origins, got %v", cfg.CORSOrigins)
	}
	if cfg.SlotProvisionDays != 30 {
		t.Fatalf("expected provision days override, got %d", cfg.SlotProvisionDays)
	}
	if cfg.SlotDefaultCapacity != 6 {
		t.Fatalf("expected capacity override, got %d", cfg.SlotDefaultCapacity)
	}
	if cfg.CatalogCacheTTL != 90*time.Second {
		t.Fatalf("expected cache ttl override, got %s", cfg.CatalogCacheTTL)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Fatalf("expected normalized email provider, got %s", cfg.EmailProvider)
	}
	if cfg.RateLimitPerMinute != 60 {
		t.Fatalf("expected rate limit override, got %d", cfg.RateLimitPerMinute)
	}
}
