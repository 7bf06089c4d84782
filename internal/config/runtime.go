package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTAccessTTL      = "24h"
	defaultHoldTTL           = "10m"
	defaultHoldSweep         = "1m"
	defaultCaddyRefresh      = "15s"
	defaultReconcileAttempts = "6"
	defaultReconcileDelay    = "2s"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultWebhookSecret     = "change-me-webhook-secret"
	defaultCheckoutBaseURL   = "https://api.stripe.com/v1"
)

// RuntimeConfig carries the operator-tunable knobs of the reservation
// core: hold lifetime, caddy list freshness, reconciliation bounds, and
// the checkout gateway credentials.
type RuntimeConfig struct {
	AppEnv string

	JWTSecret    string
	JWTAccessTTL time.Duration

	HoldTTL              time.Duration
	HoldSweepInterval    time.Duration
	CaddyRefreshInterval time.Duration

	ReconcileMaxAttempts int
	ReconcileDelay       time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutBaseURL     string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string
}

func LoadRuntimeConfig() (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.StripeSecretKey = strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	cfg.StripeWebhookSecret = strings.TrimSpace(getEnv("STRIPE_WEBHOOK_SECRET", defaultWebhookSecret))
	cfg.CheckoutBaseURL = strings.TrimSpace(getEnv("CHECKOUT_BASE_URL", defaultCheckoutBaseURL))
	cfg.CheckoutSuccessURL = strings.TrimSpace(os.Getenv("CHECKOUT_SUCCESS_URL"))
	cfg.CheckoutCancelURL = strings.TrimSpace(os.Getenv("CHECKOUT_CANCEL_URL"))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.HoldTTL, err = parseDurationEnv("CADDY_HOLD_TTL", defaultHoldTTL)
	if err != nil {
		return nil, err
	}
	cfg.HoldSweepInterval, err = parseDurationEnv("CADDY_HOLD_SWEEP_INTERVAL", defaultHoldSweep)
	if err != nil {
		return nil, err
	}
	cfg.CaddyRefreshInterval, err = parseDurationEnv("CADDY_REFRESH_INTERVAL", defaultCaddyRefresh)
	if err != nil {
		return nil, err
	}
	cfg.ReconcileDelay, err = parseDurationEnv("RECONCILE_DELAY", defaultReconcileDelay)
	if err != nil {
		return nil, err
	}
	cfg.ReconcileMaxAttempts, err = parseIntEnv("RECONCILE_MAX_ATTEMPTS", defaultReconcileAttempts)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("runtime config: hold_ttl=%s sweep=%s refresh=%s reconcile=%dx%s",
		cfg.HoldTTL, cfg.HoldSweepInterval, cfg.CaddyRefreshInterval,
		cfg.ReconcileMaxAttempts, cfg.ReconcileDelay)

	return cfg, nil
}

func validateConfig(cfg *RuntimeConfig) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.HoldTTL <= 0 {
		return fmt.Errorf("CADDY_HOLD_TTL must be > 0")
	}
	if cfg.HoldSweepInterval <= 0 {
		return fmt.Errorf("CADDY_HOLD_SWEEP_INTERVAL must be > 0")
	}
	if cfg.CaddyRefreshInterval <= 0 {
		return fmt.Errorf("CADDY_REFRESH_INTERVAL must be > 0")
	}
	if cfg.ReconcileMaxAttempts < 1 {
		return fmt.Errorf("RECONCILE_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.ReconcileDelay <= 0 {
		return fmt.Errorf("RECONCILE_DELAY must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.StripeWebhookSecret, defaultWebhookSecret) {
			return fmt.Errorf("in prod/release STRIPE_WEBHOOK_SECRET must be set and not default")
		}
		if cfg.StripeSecretKey == "" {
			return fmt.Errorf("in prod/release STRIPE_SECRET_KEY must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
