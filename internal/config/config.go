package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	CORSAllowedOrigins []string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	CartTTL         time.Duration
	IdempotencyTTL  time.Duration

	// DiscountPercent is the site-wide display discount; must stay below
	// 100 or strikethrough price reconstruction divides by zero.
	DiscountPercent       float64
	TaxPercent            float64
	ShippingFlatFee       float64
	FreeShippingThreshold float64
	CurrencyCode          string
	CurrencyTableJSON     string

	PromoCodes        string
	PromoDiscounts    string
	PromoDescriptions string

	AuthRateLimitMax    int
	AuthRateLimitWindow time.Duration
}

// Load reads configuration from environment variables and an optional
// .env file, applying defaults and rejecting invalid values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		AccessTokenTTL:  parseDuration(k.String("ACCESS_TOKEN_TTL"), "15m"),
		RefreshTokenTTL: parseDuration(k.String("REFRESH_TOKEN_TTL"), "720h"),
		CartTTL:         parseDuration(k.String("CART_TTL"), "168h"),
		IdempotencyTTL:  parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),

		DiscountPercent:       parseFloat(k.String("DISCOUNT_PERCENT"), 20),
		TaxPercent:            parseFloat(k.String("CHECKOUT_TAX_PERCENT"), 18),
		ShippingFlatFee:       parseFloat(k.String("CHECKOUT_SHIPPING_FEE"), 5),
		FreeShippingThreshold: parseFloat(k.String("CHECKOUT_FREE_SHIPPING_THRESHOLD"), 58),
		CurrencyCode:          valueOrDefault(k.String("CURRENCY_CODE"), "USD"),
		CurrencyTableJSON:     k.String("CURRENCY_TABLE_JSON"),

		PromoCodes:        k.String("PROMO_CODES"),
		PromoDiscounts:    k.String("PROMO_DISCOUNTS"),
		PromoDescriptions: k.String("PROMO_DESCRIPTIONS"),

		AuthRateLimitMax:    parseInt(k.String("AUTH_RATELIMIT_MAX"), 20),
		AuthRateLimitWindow: parseDuration(k.String("AUTH_RATELIMIT_WINDOW"), "1m"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.DiscountPercent < 0 || cfg.DiscountPercent >= 100 {
		return nil, fmt.Errorf("DISCOUNT_PERCENT must be in [0, 100), got %g", cfg.DiscountPercent)
	}
	if cfg.TaxPercent < 0 {
		return nil, errors.New("CHECKOUT_TAX_PERCENT must not be negative")
	}
	if cfg.ShippingFlatFee < 0 {
		return nil, errors.New("CHECKOUT_SHIPPING_FEE must not be negative")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return n
}
