package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	IsProduction  bool
	EnableDBCheck bool
	LogLevel      slog.Level
	DBMaxConns    int32

	// Ledger event publishing. No brokers means events are only logged.
	KafkaBrokers []string
	KafkaTopic   string

	// CashAccountCode is the account debited/credited when a transaction is processed.
	CashAccountCode string
	// RequireFinancialPeriod rejects ledger writes dated outside any known period.
	RequireFinancialPeriod bool

	// Classification learning.
	LearningThreshold int
	LearningLookback  time.Duration
}

// DatabaseURLEnv names the variable holding the Postgres connection string.
const DatabaseURLEnv = "PGSQL_URL"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(DatabaseURLEnv, "")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "ledger-events")
	v.SetDefault("CASH_ACCOUNT_CODE", "1100")
	v.SetDefault("REQUIRE_FINANCIAL_PERIOD", true)
	v.SetDefault("CLASSIFIER_LEARNING_THRESHOLD", 3)
	v.SetDefault("CLASSIFIER_LEARNING_LOOKBACK", "2160h")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:            v.GetString(DatabaseURLEnv),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		DBMaxConns:             v.GetInt32("DB_MAX_CONNS"),
		KafkaTopic:             v.GetString("KAFKA_TOPIC"),
		CashAccountCode:        v.GetString("CASH_ACCOUNT_CODE"),
		RequireFinancialPeriod: v.GetBool("REQUIRE_FINANCIAL_PERIOD"),
		LearningThreshold:      v.GetInt("CLASSIFIER_LEARNING_THRESHOLD"),
	}

	if cfg.DatabaseURL == "" {
		slog.Warn(DatabaseURLEnv + " environment variable not set.")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	for _, broker := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
		}
	}

	lookbackStr := v.GetString("CLASSIFIER_LEARNING_LOOKBACK")
	lookback, err := time.ParseDuration(lookbackStr)
	if err != nil || lookback <= 0 {
		lookback = 90 * 24 * time.Hour
		slog.Warn("Invalid value for CLASSIFIER_LEARNING_LOOKBACK, using default",
			slog.String("value", lookbackStr), slog.Duration("default", lookback))
	}
	cfg.LearningLookback = lookback

	if cfg.LearningThreshold < 1 {
		slog.Warn("CLASSIFIER_LEARNING_THRESHOLD must be positive, using 3", slog.Int("value", cfg.LearningThreshold))
		cfg.LearningThreshold = 3
	}
	if cfg.DBMaxConns < 1 {
		cfg.DBMaxConns = 10
	}
	if len(cfg.CashAccountCode) != 4 || cfg.CashAccountCode[0] != '1' {
		return nil, fmt.Errorf("CASH_ACCOUNT_CODE %q must be a 4 digit asset code", cfg.CashAccountCode)
	}

	return cfg, nil
}
