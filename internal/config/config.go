package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GuardPolicy selects how the page guard treats admins.
type GuardPolicy string

const (
	// GuardSuperuser lets admins through every protected prefix.
	GuardSuperuser GuardPolicy = "superuser"
	// GuardStrict limits each prefix to its own role.
	GuardStrict GuardPolicy = "strict"
)

// PaymentProvider selects the checkout/webhook backend.
type PaymentProvider string

const (
	ProviderStripe PaymentProvider = "stripe"
	ProviderMock   PaymentProvider = "mock"
)

// Config holds all application configuration loaded from environment variables.
// It is built once in main and handed to each constructor.
type Config struct {
	Port          int
	SiteURL       string
	DatabaseURL   string
	JWTSecret     string
	EncryptionKey string
	CORSOrigins   []string
	SessionCookie string
	GuardPolicy   GuardPolicy
	LogLevel      string
	LogFormat     string

	PaymentProvider   PaymentProvider
	StripeSecretKey   string
	WebhookSecret     string
	UnlockPriceID     string
	LimitedPriceID    string
	UnlimitedPriceID  string
	MockWebhookSecret string
	UnlockPriceEUR    int

	PlanCacheTTL time.Duration

	CVBucket   string
	CVEndpoint string
	CVLinkTTL  time.Duration
	CVMaxBytes int64

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Missing required values are
// returned as errors; price ids and the webhook secret are optional and only
// fail the request that needs them.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		SiteURL:           strings.TrimRight(env("SITE_URL", "http://localhost:3000"), "/"),
		DatabaseURL:       env("DATABASE_URL", ""),
		JWTSecret:         env("AUTH_JWT_SECRET", ""),
		EncryptionKey:     env("ENCRYPTION_KEY", ""),
		SessionCookie:     env("SESSION_COOKIE", "tv_session"),
		GuardPolicy:       GuardPolicy(env("GUARD_POLICY", string(GuardSuperuser))),
		LogLevel:          env("LOG_LEVEL", "info"),
		LogFormat:         env("LOG_FORMAT", "json"),
		PaymentProvider:   PaymentProvider(env("PAYMENT_PROVIDER", string(ProviderStripe))),
		StripeSecretKey:   env("STRIPE_SECRET_KEY", ""),
		WebhookSecret:     env("STRIPE_WEBHOOK_SECRET", ""),
		UnlockPriceID:     env("STRIPE_UNLOCK_PRICE_ID", ""),
		LimitedPriceID:    env("STRIPE_SUB_LIMITED_PRICE_ID", ""),
		UnlimitedPriceID:  env("STRIPE_SUB_UNLIMITED_PRICE_ID", ""),
		MockWebhookSecret: env("MOCK_WEBHOOK_SECRET", ""),
		CVBucket:          env("CV_BUCKET", ""),
		CVEndpoint:        env("CV_S3_ENDPOINT", ""),
		CVMaxBytes:        5 << 20,
	}

	var err error
	if cfg.Port, err = strconv.Atoi(env("PORT", "4001")); err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	if cfg.UnlockPriceEUR, err = strconv.Atoi(env("UNLOCK_PRICE_EUR", "25")); err != nil {
		return nil, fmt.Errorf("UNLOCK_PRICE_EUR: %w", err)
	}
	if cfg.PlanCacheTTL, err = time.ParseDuration(env("PLAN_CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("PLAN_CACHE_TTL: %w", err)
	}
	if cfg.CVLinkTTL, err = time.ParseDuration(env("CV_LINK_TTL", "15m")); err != nil {
		return nil, fmt.Errorf("CV_LINK_TTL: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(env("RATE_LIMIT_RPS", "20"), 64); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(env("RATE_LIMIT_BURST", "40")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	origins := strings.Split(env("CORS_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	cfg.CORSOrigins = origins

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if c.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required (must be exactly 32 bytes)")
	}
	if len(c.EncryptionKey) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes, got %d", len(c.EncryptionKey))
	}

	switch c.GuardPolicy {
	case GuardSuperuser, GuardStrict:
	default:
		return fmt.Errorf("GUARD_POLICY must be %q or %q, got %q", GuardSuperuser, GuardStrict, c.GuardPolicy)
	}

	switch c.PaymentProvider {
	case ProviderStripe:
		if c.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required when PAYMENT_PROVIDER=stripe")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("PAYMENT_PROVIDER must be %q or %q, got %q", ProviderStripe, ProviderMock, c.PaymentProvider)
	}
	return nil
}

// ActiveWebhookSecret is the signing secret of the selected provider.
func (c *Config) ActiveWebhookSecret() string {
	if c.PaymentProvider == ProviderMock {
		return c.MockWebhookSecret
	}
	return c.WebhookSecret
}

// SuccessURL and CancelURL are where the hosted checkout sends the employer back.
func (c *Config) SuccessURL() string { return c.SiteURL + "/employer/search?status=success" }

func (c *Config) CancelURL() string { return c.SiteURL + "/employer/search?status=cancelled" }
