package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger             `mapstructure:"logger"`
	DB           Database           `mapstructure:"database"`
	API          API                `mapstructure:"api"`
	Scheduler    Scheduler          `mapstructure:"scheduler"`
	Cache        Cache              `mapstructure:"cache"`
	YahooFinance YahooFinanceConfig `mapstructure:"yahoo_finance"`
	NYSE         NYSEConfig         `mapstructure:"nyse"`
	Ingest       IngestConfig       `mapstructure:"ingest"`
	Backtest     BacktestConfig     `mapstructure:"backtest"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
	Gemini       GeminiConfig       `mapstructure:"gemini"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Scheduler struct {
	MaxConcurrency       int    `mapstructure:"max_concurrency"`
	ListingsCronSpec     string `mapstructure:"listings_cron_spec"`
	PricesCronSpec       string `mapstructure:"prices_cron_spec"`
	FundamentalsCronSpec string `mapstructure:"fundamentals_cron_spec"`
	FactorsCronSpec      string `mapstructure:"factors_cron_spec"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type YahooFinanceConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	BaseURLTimeseries   string        `mapstructure:"base_url_timeseries"`
	BaseURLQuoteSummary string        `mapstructure:"base_url_quote_summary"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type NYSEConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxPages int           `mapstructure:"max_pages"`
}

type IngestConfig struct {
	ChunkSize     int           `mapstructure:"chunk_size"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	MaxRetry      int           `mapstructure:"max_retry"`
	SleepBetween  time.Duration `mapstructure:"sleep_between"`
}

type BacktestConfig struct {
	DefaultStartBalance float64 `mapstructure:"default_start_balance"`
	MaxTickers          int     `mapstructure:"max_tickers"`
}

type TelegramConfig struct {
	Enabled                   bool   `mapstructure:"enabled"`
	BotToken                  string `mapstructure:"bot_token"`
	ChatID                    string `mapstructure:"chat_id"`
	MaxGlobalRequestPerSecond int    `mapstructure:"max_global_request_per_second"`
}

type GeminiConfig struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

func Load() (*Config, error) {
	// .env is optional, env vars may come from the environment directly
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "console")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("scheduler.max_concurrency", 2)
	viper.SetDefault("scheduler.listings_cron_spec", "0 6 * * 1")
	viper.SetDefault("scheduler.prices_cron_spec", "0 7 * * 1-5")
	viper.SetDefault("scheduler.fundamentals_cron_spec", "0 8 * * 6")
	viper.SetDefault("scheduler.factors_cron_spec", "0 10 * * 6")

	viper.SetDefault("cache.default_expiration", 15*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 30*time.Minute)

	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.base_url_timeseries", "https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries")
	viper.SetDefault("yahoo_finance.base_url_quote_summary", "https://query1.finance.yahoo.com/v10/finance/quoteSummary")
	viper.SetDefault("yahoo_finance.timeout", 30*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 60)

	viper.SetDefault("nyse.base_url", "https://www.nyse.com/listings_directory")
	viper.SetDefault("nyse.timeout", 30*time.Second)
	viper.SetDefault("nyse.max_pages", 500)

	viper.SetDefault("ingest.chunk_size", 25)
	viper.SetDefault("ingest.max_concurrent", 4)
	viper.SetDefault("ingest.max_retry", 3)
	viper.SetDefault("ingest.sleep_between", 600*time.Millisecond)

	viper.SetDefault("backtest.default_start_balance", 10000)
	viper.SetDefault("backtest.max_tickers", 20)

	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.max_request_per_minute", 10)
	viper.SetDefault("gemini.max_token_per_minute", 1000000)
}
