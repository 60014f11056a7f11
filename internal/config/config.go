package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	// HTTP Server
	Port string

	// Goals database
	GoalsDBPath string

	// AMQP (optional; when set, the web process publishes mutations
	// instead of writing to the sheet directly)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Sync cadence
	PollInterval time.Duration
	SettleDelay  time.Duration

	// Defaults for the tracker UI
	DefaultGroup string
	DefaultGoal  string

	// Backend selection: memory or sheets
	LedgerBackend string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		GoalsDBPath: getEnv("GOALS_DB_PATH", "./data/goals.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tripfund"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_mutations"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Ledger"),

		PollInterval: getEnvDuration("POLL_INTERVAL", 30*time.Second),
		SettleDelay:  getEnvDuration("SETTLE_DELAY", 1500*time.Millisecond),

		DefaultGroup: getEnv("DEFAULT_GROUP", "Seniors"),
		DefaultGoal:  getEnv("DEFAULT_GOAL", "2300"),

		LedgerBackend: getEnv("LEDGER_BACKEND", "memory"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.LedgerBackend {
	case "memory", "sheets":
	default:
		errs = append(errs, fmt.Sprintf("invalid ledger backend '%s': must be one of [memory sheets]", c.LedgerBackend))
	}

	if c.LedgerBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errs = append(errs, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errs = append(errs, "Google Sheet name is required when using sheets backend")
		}
	}

	if c.GoalsDBPath == "" {
		errs = append(errs, "goals database path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.PollInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid poll interval %v: must be at least 1 second", c.PollInterval))
	} else if c.PollInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid poll interval %v: must be at most 24 hours", c.PollInterval))
	}

	if c.SettleDelay < 100*time.Millisecond || c.SettleDelay > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid settle delay %v: must be between 100ms and 1m", c.SettleDelay))
	}

	if c.DefaultGroup == "" {
		errs = append(errs, "default group cannot be empty")
	}
	if _, err := decimal.NewFromString(c.DefaultGoal); err != nil {
		errs = append(errs, fmt.Sprintf("invalid default goal '%s': must be a decimal amount", c.DefaultGoal))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
