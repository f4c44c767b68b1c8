package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/storefront")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.DiscountPercent != 20 {
		t.Fatalf("expected default discount 20, got %g", cfg.DiscountPercent)
	}
	if cfg.TaxPercent != 18 {
		t.Fatalf("expected default tax 18, got %g", cfg.TaxPercent)
	}
	if cfg.FreeShippingThreshold != 58 {
		t.Fatalf("expected default threshold 58, got %g", cfg.FreeShippingThreshold)
	}
	if cfg.CartTTL != 168*time.Hour {
		t.Fatalf("expected default cart ttl, got %s", cfg.CartTTL)
	}
	if cfg.CurrencyCode != "USD" {
		t.Fatalf("expected USD, got %s", cfg.CurrencyCode)
	}
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadRejectsFullDiscount(t *testing.T) {
	setBaseEnv(t)
	for _, v := range []string{"100", "120", "-3"} {
		t.Setenv("DISCOUNT_PERCENT", v)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for discount %s", v)
		}
	}
}

func TestHTTPAddr(t *testing.T) {
	cfg := &Config{Port: "9000"}
	if got := cfg.HTTPAddr(); got != ":9000" {
		t.Fatalf("expected :9000, got %s", got)
	}
	cfg.Port = ":7000"
	if got := cfg.HTTPAddr(); got != ":7000" {
		t.Fatalf("expected :7000, got %s", got)
	}
}
