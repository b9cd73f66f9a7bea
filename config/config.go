package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"quantBreakoutBot/internal/adapters/logger"
)

// Config holds all application configuration.
type Config struct {
	// Binance API
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Engine parameters
	ScoreThreshold int           // Minimum composite score to trade (default 75)
	RiskFraction   float64       // Fraction of cash risked per trade (default 0.05)
	RVOLThreshold  float64       // Minimum relative volume for a breakout (default 1.5)
	CycleInterval  time.Duration // Wait between scan cycles (default 1800s)

	// Symbol universe
	UniversePath string
	Universe     []string
	QuoteAsset   string // Asset the account cash query is denominated in

	// Journal
	DBPath string

	// HTTP liveness/metrics server
	HTTPAddr string

	// Notifications
	TelegramToken  string
	TelegramChatID string

	// Brokerage client
	BrokerRateLimit float64 // Max outbound requests per second

	// Logging
	LogLevel  logger.LogLevel
	LogFormat string // "std", "json" or "console"
}

// universeFile is the on-disk shape of the symbol universe.
type universeFile struct {
	QuoteAsset string   `yaml:"quote_asset"`
	Symbols    []string `yaml:"symbols"`
}

// defaultUniverse is used when no universe file is configured. High
// liquidity pairs so the relative-volume screen has stable baselines.
var defaultUniverse = []string{
	"BTCUSDT", "ETHUSDT", "SOLUSDT", "BNBUSDT", "XRPUSDT",
	"ADAUSDT", "DOGEUSDT", "AVAXUSDT", "LINKUSDT",
}

// Load reads configuration from environment variables (optionally via a
// .env file) and the universe YAML file. Validation errors are collected
// and reported together.
func Load() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string

	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety

	if cfg.APIKey == "" {
		errs = append(errs, "BINANCE_API_KEY must be set")
	}
	if cfg.SecretKey == "" {
		errs = append(errs, "BINANCE_API_SECRET must be set")
	}

	cfg.ScoreThreshold = getEnvAsInt("SCORE_THRESHOLD", 75)
	if cfg.ScoreThreshold < 0 || cfg.ScoreThreshold > 100 {
		errs = append(errs, "SCORE_THRESHOLD must be between 0 and 100")
	}

	cfg.RiskFraction = getEnvAsFloat("RISK_FRACTION", 0.05)
	if cfg.RiskFraction <= 0 || cfg.RiskFraction > 1.0 {
		errs = append(errs, "RISK_FRACTION must be between 0.0 (exclusive) and 1.0")
	}

	cfg.RVOLThreshold = getEnvAsFloat("RVOL_THRESHOLD", 1.5)
	if cfg.RVOLThreshold <= 0 {
		errs = append(errs, "RVOL_THRESHOLD must be positive")
	}

	intervalSeconds := getEnvAsInt("CYCLE_INTERVAL_SECONDS", 1800)
	if intervalSeconds <= 0 {
		errs = append(errs, "CYCLE_INTERVAL_SECONDS must be positive")
	}
	cfg.CycleInterval = time.Duration(intervalSeconds) * time.Second

	cfg.DBPath = getEnv("DB_PATH", "./data/decisions.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", "")

	cfg.BrokerRateLimit = getEnvAsFloat("BROKER_RATE_LIMIT", 8.0)
	if cfg.BrokerRateLimit <= 0 {
		errs = append(errs, "BROKER_RATE_LIMIT must be positive")
	}

	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "std"))
	switch cfg.LogFormat {
	case "std", "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("unsupported LOG_FORMAT %q (want std, json or console)", cfg.LogFormat))
	}

	cfg.UniversePath = getEnv("UNIVERSE_PATH", "./universe.yaml")
	universe, quoteAsset, err := loadUniverse(cfg.UniversePath)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid universe file: %v", err))
	}
	cfg.Universe = universe
	cfg.QuoteAsset = quoteAsset

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// loadUniverse reads the symbol universe YAML file. A missing file is not
// an error: the built-in default universe is used instead.
func loadUniverse(path string) ([]string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultUniverse, "USDT", nil
		}
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	var uf universeFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", path, err)
	}
	if len(uf.Symbols) == 0 {
		return nil, "", fmt.Errorf("%s lists no symbols", path)
	}
	quote := uf.QuoteAsset
	if quote == "" {
		quote = "USDT"
	}
	symbols := make([]string, 0, len(uf.Symbols))
	for _, s := range uf.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return nil, "", fmt.Errorf("%s lists no usable symbols", path)
	}
	return symbols, quote, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
