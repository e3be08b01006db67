package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "Stride"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultTokenTTL       = 24 * time.Hour
	defaultOTPTTL         = 10 * time.Minute
	defaultOTPRatePerMin  = 5
	defaultVerifyBaseURL  = "http://localhost:3000/verify"
)

// Verification policy selects which signup confirmation flow is active.
const (
	VerificationModeOTP  = "otp"
	VerificationModeLink = "link"
)

// Notifier failure policy: whether a failed delivery aborts the operation.
const (
	NotifyFailurePropagate = "propagate"
	NotifyFailureIgnore    = "ignore"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration

	// VerificationMode picks the signup confirmation flow: "otp" or "link".
	VerificationMode string
	// SigninRequireVerified gates OTP sign-in on a verified account. The
	// default (false) matches the OTP flow as shipped; traditional login
	// always requires verification regardless of this flag.
	SigninRequireVerified bool
	// NotifyFailure controls whether a mail delivery error is returned to the
	// caller ("propagate") or logged and swallowed ("ignore"). The pending
	// challenge is persisted before delivery either way, so it stays
	// redeemable after a failed send.
	NotifyFailure string

	SendGridAPIKey string
	EmailFrom      string
	VerifyBaseURL  string

	OTPRatePerMin int
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		AppEnv:           getEnv("APP_ENV", defaultAppEnv),
		Port:             getEnv("PORT", defaultPort),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		ShutdownPeriod:   defaultShutdownDelay,
		IdempotencyTTL:   defaultIdempotencyTTL,
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         defaultTokenTTL,
		OTPTTL:           defaultOTPTTL,
		VerificationMode: strings.ToLower(getEnv("VERIFICATION_MODE", VerificationModeOTP)),
		NotifyFailure:    strings.ToLower(getEnv("NOTIFY_FAILURE", NotifyFailurePropagate)),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:        getEnv("EMAIL_FROM", "dev@stride.example"),
		VerifyBaseURL:    getEnv("VERIFY_BASE_URL", defaultVerifyBaseURL),
		OTPRatePerMin:    defaultOTPRatePerMin,
	}

	durations := []struct {
		envVar string
		dst    *time.Duration
	}{
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownPeriod},
		{"IDEMPOTENCY_TTL", &cfg.IdempotencyTTL},
		{"TOKEN_TTL", &cfg.TokenTTL},
		{"OTP_TTL", &cfg.OTPTTL},
	}
	for _, d := range durations {
		if v := os.Getenv(d.envVar); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", d.envVar, err)
			}
			*d.dst = parsed
		}
	}

	if v := os.Getenv("SIGNIN_REQUIRE_VERIFIED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SIGNIN_REQUIRE_VERIFIED: %w", err)
		}
		cfg.SigninRequireVerified = b
	}

	if v := os.Getenv("OTP_RATE_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OTP_RATE_PER_MIN: %w", err)
		}
		cfg.OTPRatePerMin = n
	}

	switch cfg.VerificationMode {
	case VerificationModeOTP, VerificationModeLink:
	default:
		return Config{}, fmt.Errorf("invalid VERIFICATION_MODE %q", cfg.VerificationMode)
	}

	switch cfg.NotifyFailure {
	case NotifyFailurePropagate, NotifyFailureIgnore:
	default:
		return Config{}, fmt.Errorf("invalid NOTIFY_FAILURE %q", cfg.NotifyFailure)
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
