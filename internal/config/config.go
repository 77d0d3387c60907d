package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

const defaultDSN = "host=localhost port=5432 user=postgres password=postgres dbname=coop_banking sslmode=disable"
const defaultChannelID = "CoopBackOffice"
const defaultChannelKey = "CoopBackOfficeKey001"

type Config struct {
	Port          string
	DatabaseDSN   string
	MigrationsDir string
	LogLevel      string
	ChannelID     string
	ChannelKey    string

	// RecurringClosurePercent is the flat early-exit charge on recurring
	// deposits; MissedInstallmentPercent is charged per missed installment.
	RecurringClosurePercent  decimal.Decimal
	MissedInstallmentPercent decimal.Decimal

	// MaturitySweepSpec is the cron schedule for the deposit maturity sweep.
	MaturitySweepSpec string
}

func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", defaultDSN),
		MigrationsDir:     getEnv("MIGRATIONS_DIR", filepath.Join("migrations")),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ChannelID:         getEnv("CHANNEL_ID", defaultChannelID),
		ChannelKey:        getEnv("CHANNEL_KEY", defaultChannelKey),
		MaturitySweepSpec: getEnv("MATURITY_SWEEP_SPEC", "0 1 * * *"),
	}

	closurePercent, err := decimalEnv("RECURRING_CLOSURE_PERCENT", "1")
	if err != nil {
		return Config{}, err
	}
	cfg.RecurringClosurePercent = closurePercent

	missedPercent, err := decimalEnv("MISSED_INSTALLMENT_PERCENT", "2")
	if err != nil {
		return Config{}, err
	}
	cfg.MissedInstallmentPercent = missedPercent

	if cfg.DatabaseDSN == "" {
		return Config{}, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.ChannelID == "" || cfg.ChannelKey == "" {
		return Config{}, fmt.Errorf("CHANNEL_ID and CHANNEL_KEY are required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultVal
}

func decimalEnv(key, defaultVal string) (decimal.Decimal, error) {
	raw := getEnv(key, defaultVal)
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be numeric: %w", key, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", key)
	}
	return value, nil
}
