package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Warehouse WarehouseConfig
	Pricing   PricingConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds warehouse connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// WarehouseConfig holds the logical table layout of the analytics warehouse.
// RentrollTable and CompetitionTable are optional boot-time overrides; when
// empty the resolver falls back to the conventional names under ProjectID.
type WarehouseConfig struct {
	ProjectID        string
	RentrollTable    string
	CompetitionTable string
	PairsTable       string
}

// PricingConfig holds the pricing-engine tunables plus the constants used
// when no market data exists and figures have to be estimated.
type PricingConfig struct {
	DefaultElasticity       float64
	MaxPriceAdjustment      float64
	CompPriceBand           float64
	ComparableBand          float64
	FallbackRentGapPct      float64
	FallbackSimilarity      float64
	MinComparableUnits      int
	MaxConcurrentOptimizers int
	FallbackCompCount       int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "rentroll")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("WAREHOUSE_PROJECT_ID", "rentroll-ai")
	v.SetDefault("WAREHOUSE_RENTROLL_TABLE", "")
	v.SetDefault("WAREHOUSE_COMPETITION_TABLE", "")
	v.SetDefault("WAREHOUSE_PAIRS_TABLE", "")
	v.SetDefault("PRICING_DEFAULT_ELASTICITY", -0.003)
	v.SetDefault("PRICING_MAX_ADJUSTMENT", 0.25)
	v.SetDefault("PRICING_COMP_PRICE_BAND", 0.30)
	v.SetDefault("PRICING_COMPARABLE_BAND", 0.15)
	v.SetDefault("PRICING_MIN_COMPARABLE_UNITS", 3)
	v.SetDefault("PRICING_MAX_CONCURRENT_OPTIMIZERS", 100)
	v.SetDefault("PRICING_FALLBACK_RENT_GAP_PCT", -4.8)
	v.SetDefault("PRICING_FALLBACK_SIMILARITY", 0.85)
	v.SetDefault("PRICING_FALLBACK_COMP_COUNT", 25)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3004")

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		Warehouse: WarehouseConfig{
			ProjectID:        v.GetString("WAREHOUSE_PROJECT_ID"),
			RentrollTable:    v.GetString("WAREHOUSE_RENTROLL_TABLE"),
			CompetitionTable: v.GetString("WAREHOUSE_COMPETITION_TABLE"),
			PairsTable:       v.GetString("WAREHOUSE_PAIRS_TABLE"),
		},
		Pricing: PricingConfig{
			DefaultElasticity:       v.GetFloat64("PRICING_DEFAULT_ELASTICITY"),
			MaxPriceAdjustment:      v.GetFloat64("PRICING_MAX_ADJUSTMENT"),
			CompPriceBand:           v.GetFloat64("PRICING_COMP_PRICE_BAND"),
			ComparableBand:          v.GetFloat64("PRICING_COMPARABLE_BAND"),
			MinComparableUnits:      v.GetInt("PRICING_MIN_COMPARABLE_UNITS"),
			MaxConcurrentOptimizers: v.GetInt("PRICING_MAX_CONCURRENT_OPTIMIZERS"),
			FallbackRentGapPct:      v.GetFloat64("PRICING_FALLBACK_RENT_GAP_PCT"),
			FallbackSimilarity:      v.GetFloat64("PRICING_FALLBACK_SIMILARITY"),
			FallbackCompCount:       v.GetInt("PRICING_FALLBACK_COMP_COUNT"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate database config
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	// Validate warehouse config
	if c.Warehouse.ProjectID == "" {
		return fmt.Errorf("WAREHOUSE_PROJECT_ID is required")
	}

	// Validate pricing config
	if c.Pricing.DefaultElasticity >= 0 {
		return fmt.Errorf("PRICING_DEFAULT_ELASTICITY must be negative")
	}
	if c.Pricing.MaxPriceAdjustment <= 0 || c.Pricing.MaxPriceAdjustment >= 1 {
		return fmt.Errorf("PRICING_MAX_ADJUSTMENT must be between 0 and 1")
	}
	if c.Pricing.CompPriceBand <= 0 || c.Pricing.CompPriceBand >= 1 {
		return fmt.Errorf("PRICING_COMP_PRICE_BAND must be between 0 and 1")
	}
	if c.Pricing.ComparableBand <= 0 || c.Pricing.ComparableBand >= 1 {
		return fmt.Errorf("PRICING_COMPARABLE_BAND must be between 0 and 1")
	}
	if c.Pricing.MinComparableUnits < 1 {
		return fmt.Errorf("PRICING_MIN_COMPARABLE_UNITS must be at least 1")
	}
	if c.Pricing.MaxConcurrentOptimizers < 1 {
		return fmt.Errorf("PRICING_MAX_CONCURRENT_OPTIMIZERS must be at least 1")
	}
	if c.Pricing.FallbackCompCount < 0 {
		return fmt.Errorf("PRICING_FALLBACK_COMP_COUNT must be non-negative")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
