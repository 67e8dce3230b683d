package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/utils"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	LogLevel          string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Ledger
	DefaultCurrency string
	TaxRate         decimal.Decimal
	MaxReportRows   int

	// Semantic index and language model
	IndexPath            string
	OpenAIAPIKey         string
	OpenAIBaseURL        string
	OpenAIChatModel      string
	OpenAIEmbeddingModel string
	RetrieverK           int

	// Concurrency and edge
	RedisAddress       string
	RedisPassword      string
	IngestRateLimit    string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "ledger-assistant")
	v.SetDefault("DEFAULT_CURRENCY", "COP")
	v.SetDefault("TAX_RATE", "0.19")
	v.SetDefault("MAX_REPORT_ROWS", 50)
	v.SetDefault("INDEX_PATH", "data/index.db")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("OPENAI_CHAT_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small")
	v.SetDefault("RETRIEVER_K", 4)
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("INGEST_RATE_LIMIT", "30-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:          v.GetString("PGSQL_URL"),
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:        v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		DefaultCurrency:      strings.ToUpper(v.GetString("DEFAULT_CURRENCY")),
		MaxReportRows:        v.GetInt("MAX_REPORT_ROWS"),
		IndexPath:            v.GetString("INDEX_PATH"),
		OpenAIAPIKey:         v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:        v.GetString("OPENAI_BASE_URL"),
		OpenAIChatModel:      v.GetString("OPENAI_CHAT_MODEL"),
		OpenAIEmbeddingModel: v.GetString("OPENAI_EMBEDDING_MODEL"),
		RetrieverK:           v.GetInt("RETRIEVER_K"),
		RedisAddress:         v.GetString("REDIS_ADDRESS"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		IngestRateLimit:      v.GetString("INGEST_RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	expiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || expiry <= 0 {
		expiry = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, expiry)
	}
	cfg.JWTExpiryDuration = expiry

	taxRate, err := decimal.NewFromString(strings.TrimSpace(v.GetString("TAX_RATE")))
	if err != nil || taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("TAX_RATE must be a fraction between 0 and 1, got %q", v.GetString("TAX_RATE"))
	}
	cfg.TaxRate = taxRate

	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "COP"
	}
	if cfg.MaxReportRows <= 0 {
		cfg.MaxReportRows = 50
	}
	if cfg.RetrieverK <= 0 {
		cfg.RetrieverK = 4
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set. Search and assistant answers will use local fallbacks.")
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// TokenSettings returns the settings used to mint and verify bearer tokens.
func (c *Config) TokenSettings() utils.TokenSettings {
	return utils.TokenSettings{
		Secret: c.JWTSecret,
		Issuer: c.JWTIssuer,
		Expiry: c.JWTExpiryDuration,
	}
}
