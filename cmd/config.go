package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	PaymentProviderHTTP      = "http"
	PaymentProviderBraintree = "braintree"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"marketplace"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	RedisAddr    string   `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"marketplace.events"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	PaymentProvider         string        `env:"PAYMENT_PROVIDER" envDefault:"http"`
	PaymentGatewayBaseURL   string        `env:"PAYMENT_GATEWAY_BASE_URL"`
	PaymentGatewayAPIKey    string        `env:"PAYMENT_GATEWAY_API_KEY"`
	PaymentGatewayAPISecret string        `env:"PAYMENT_GATEWAY_API_SECRET"`
	PaymentGatewayCheckout  string        `env:"PAYMENT_GATEWAY_CHECKOUT_ENDPOINT"`
	PaymentGatewayTimeout   time.Duration `env:"PAYMENT_GATEWAY_TIMEOUT" envDefault:"5s"`

	BraintreeEnvironment       string `env:"BRAINTREE_ENVIRONMENT" envDefault:"sandbox"`
	BraintreeMerchantID        string `env:"BRAINTREE_MERCHANT_ID"`
	BraintreePublicKey         string `env:"BRAINTREE_PUBLIC_KEY"`
	BraintreePrivateKey        string `env:"BRAINTREE_PRIVATE_KEY"`
	BraintreeMinorUnitExponent int32  `env:"BRAINTREE_MINOR_UNIT_EXPONENT" envDefault:"0"`

	// Fee rates have no defaults: zero is only accepted when set explicitly.
	PlatformFeeRate decimal.Decimal `env:"PLATFORM_FEE_RATE,required"`
	PgFeeRate       decimal.Decimal `env:"PG_FEE_RATE,required"`
	Currency        string          `env:"CURRENCY" envDefault:"KRW"`

	AssignmentTimeout     time.Duration `env:"ASSIGNMENT_TIMEOUT" envDefault:"10m"`
	AssignmentTimeoutCron string        `env:"ASSIGNMENT_TIMEOUT_CRON" envDefault:"0 * * * * *"`
	AssignmentBatchSize   int           `env:"ASSIGNMENT_BATCH_SIZE" envDefault:"100"`
	SettlementCron        string        `env:"SETTLEMENT_CRON"`
	SettlementLockTTL     time.Duration `env:"SETTLEMENT_LOCK_TTL" envDefault:"30s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads an optional .env file, then the process environment.
func LoadConfig(dotEnvFiles ...string) (Config, error) {
	if err := godotenv.Load(dotEnvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errList []error
	if _, err := c.FeePolicy(); err != nil {
		errList = append(errList, err)
	}

	switch c.PaymentProvider {
	case PaymentProviderHTTP:
		if strings.TrimSpace(c.PaymentGatewayBaseURL) == "" {
			errList = append(errList, errs.NewValueIsRequiredError("PAYMENT_GATEWAY_BASE_URL"))
		}
	case PaymentProviderBraintree:
		if c.BraintreeMerchantID == "" || c.BraintreePublicKey == "" || c.BraintreePrivateKey == "" {
			errList = append(errList, errs.NewValueIsRequiredError("BRAINTREE_MERCHANT_ID, BRAINTREE_PUBLIC_KEY and BRAINTREE_PRIVATE_KEY"))
		}
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("PAYMENT_PROVIDER",
			fmt.Errorf("%q is neither %s nor %s", c.PaymentProvider, PaymentProviderHTTP, PaymentProviderBraintree)))
	}

	if c.AssignmentTimeout <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("ASSIGNMENT_TIMEOUT", c.AssignmentTimeout, "1s", "unbounded"))
	}
	if c.SettlementLockTTL <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("SETTLEMENT_LOCK_TTL", c.SettlementLockTTL, "1s", "unbounded"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errList = append(errList, err)
	}
	return errors.Join(errList...)
}

func (c Config) FeePolicy() (services.FeePolicy, error) {
	return services.NewFeePolicy(c.PlatformFeeRate, c.PgFeeRate)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err)
	}
	return level, nil
}
