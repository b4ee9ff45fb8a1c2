package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	NATSURL string

	PaymentGatewayURL string
	PaymentKeyID      string
	PaymentKeySecret  string
	Currency          string

	DispatchMaxRadiusKm    float64
	Pricing                services.PricingPolicy
	Settlement             services.SettlementPolicy
	AveragePartnerSpeedKmh float64

	RedispatchSchedule  string
	RefundRetrySchedule string

	LogLevel slog.Level
}

// LoadConfig reads .env when present, then the process environment, and
// falls back to defaults for everything except credentials.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	var errList []error
	collect := func(err error) {
		if err != nil {
			errList = append(errList, err)
		}
	}

	cfg := Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBName:              getEnv("DB_NAME", "fulfillment"),
		DBSslMode:           getEnv("DB_SSLMODE", "disable"),
		NATSURL:             getEnv("NATS_URL", "nats://localhost:4222"),
		PaymentGatewayURL:   getEnv("PAYMENT_GATEWAY_URL", ""),
		PaymentKeyID:        getEnv("PAYMENT_KEY_ID", ""),
		PaymentKeySecret:    getEnv("PAYMENT_KEY_SECRET", ""),
		Currency:            getEnv("CURRENCY", "INR"),
		RedispatchSchedule:  getEnv("REDISPATCH_SCHEDULE", jobs.DefaultRedispatchSchedule),
		RefundRetrySchedule: getEnv("REFUND_RETRY_SCHEDULE", jobs.DefaultRefundRetrySchedule),
	}

	var err error
	cfg.DispatchMaxRadiusKm, err = getFloat("DISPATCH_MAX_RADIUS_KM", services.DefaultMaxRadiusKm)
	collect(err)
	cfg.AveragePartnerSpeedKmh, err = getFloat("AVERAGE_PARTNER_SPEED_KMH", 20)
	collect(err)

	pricing := services.DefaultPricingPolicy()
	pricing.DeliveryFee, err = getMoney("DELIVERY_FEE", pricing.DeliveryFee)
	collect(err)
	pricing.FreeDeliveryThreshold, err = getMoney("FREE_DELIVERY_THRESHOLD", pricing.FreeDeliveryThreshold)
	collect(err)
	pricing.PlatformFee, err = getMoney("PLATFORM_FEE", pricing.PlatformFee)
	collect(err)
	pricing.TaxRatePercent, err = getDecimal("TAX_RATE_PERCENT", pricing.TaxRatePercent)
	collect(err)
	cfg.Pricing = pricing

	settlement := services.DefaultSettlementPolicy()
	settlement.DefaultCommissionPercent, err = getDecimal("DEFAULT_COMMISSION_PERCENT", settlement.DefaultCommissionPercent)
	collect(err)
	settlement.PartnerPayout, err = getMoney("DELIVERY_PARTNER_PAYOUT", settlement.PartnerPayout)
	collect(err)
	cfg.Settlement = settlement

	if err = cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "INFO"))); err != nil {
		collect(fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if err = errors.Join(errList...); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate reports every missing or out-of-range setting at once.
func (c Config) Validate() error {
	var errList []error
	for key, value := range map[string]string{
		"PAYMENT_GATEWAY_URL": c.PaymentGatewayURL,
		"PAYMENT_KEY_ID":      c.PaymentKeyID,
		"PAYMENT_KEY_SECRET":  c.PaymentKeySecret,
		"CURRENCY":            c.Currency,
	} {
		if strings.TrimSpace(value) == "" {
			errList = append(errList, fmt.Errorf("%s is required", key))
		}
	}
	if c.DispatchMaxRadiusKm <= 0 {
		errList = append(errList, errors.New("DISPATCH_MAX_RADIUS_KM must be positive"))
	}
	if c.AveragePartnerSpeedKmh <= 0 {
		errList = append(errList, errors.New("AVERAGE_PARTNER_SPEED_KMH must be positive"))
	}
	errList = append(errList, c.Pricing.Validate(), c.Settlement.Validate())
	return errors.Join(errList...)
}

// DSN is the libpq keyword/value connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getMoney(key string, fallback kernel.Money) (kernel.Money, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := kernel.ParseMoney(raw)
	if err != nil {
		return kernel.Money{}, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
