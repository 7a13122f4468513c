package main

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurawell/aurawell-web/internal/analytics"
	"github.com/aurawell/aurawell-web/internal/logger"
)

// Config holds all server configuration, loaded from environment variables.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DatabaseURL  string

	RateLimitRPS   float64
	RateLimitBurst int

	Assumptions analytics.Assumptions
}

func loadConfig() Config {
	config := Config{
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		RateLimitRPS:   10,
		RateLimitBurst: 20,
		Assumptions:    loadAssumptions(),
	}

	if p := os.Getenv("PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			config.Port = parsed
		}
	}
	if rt := os.Getenv("HTTP_READ_TIMEOUT"); rt != "" {
		if parsed, err := time.ParseDuration(rt); err == nil {
			config.ReadTimeout = parsed
		}
	}
	if wt := os.Getenv("HTTP_WRITE_TIMEOUT"); wt != "" {
		if parsed, err := time.ParseDuration(wt); err == nil {
			config.WriteTimeout = parsed
		}
	}
	if rps := envFloat("RATE_LIMIT_RPS"); rps != nil {
		config.RateLimitRPS = *rps
	}
	if b := os.Getenv("RATE_LIMIT_BURST"); b != "" {
		if parsed, err := strconv.Atoi(b); err == nil && parsed > 0 {
			config.RateLimitBurst = parsed
		}
	}

	config.DatabaseURL = os.Getenv("DATABASE_URL")
	if config.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	return config
}

// loadAssumptions returns the business constants behind the composite
// metrics, with any ANALYTICS_* env overrides applied. Defaults keep the
// dashboard numbers identical to what finance signed off on.
func loadAssumptions() analytics.Assumptions {
	a := analytics.DefaultAssumptions()

	if v := envDecimal("ANALYTICS_PRICE_PER_USER"); v != nil {
		a.PricePerUser = *v
	}
	if v := envFloat("ANALYTICS_BASE_CHURN_RATE"); v != nil {
		a.BaseChurnRate = *v
	}
	if v := envFloat("ANALYTICS_CHURN_SCALE_FACTOR"); v != nil {
		a.ChurnScaleFactor = *v
	}
	if v := envDecimal("ANALYTICS_ASSUMED_CAC"); v != nil {
		a.AssumedCAC = *v
	}
	if v := envDecimal("ANALYTICS_PROGRAM_COST_PER_USER"); v != nil {
		a.ProgramCostPerUser = *v
	}
	if v := envDecimal("ANALYTICS_AVG_MONTHLY_SALARY"); v != nil {
		a.AvgMonthlySalary = *v
	}
	if v := envFloat("ANALYTICS_ABSENTEEISM_COST_SHARE"); v != nil {
		a.AbsenteeismCostShare = *v
	}
	if v := envFloat("ANALYTICS_ABSENTEEISM_REDUCTION"); v != nil {
		a.AbsenteeismReduction = *v
	}
	if v := envFloat("ANALYTICS_PRODUCTIVITY_GAIN_SHARE"); v != nil {
		a.ProductivityGainShare = *v
	}
	if v := envFloat("ANALYTICS_ENGAGEMENT_TIER_HIGH"); v != nil {
		a.EngagementTierHigh = *v
	}
	if v := envFloat("ANALYTICS_ENGAGEMENT_TIER_LOW"); v != nil {
		a.EngagementTierLow = *v
	}

	return a
}

func envFloat(name string) *float64 {
	s := os.Getenv(name)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logger.Warn("ignoring malformed env var", "name", name, "value", s)
		return nil
	}
	return &f
}

func envDecimal(name string) *decimal.Decimal {
	s := os.Getenv(name)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		logger.Warn("ignoring malformed env var", "name", name, "value", s)
		return nil
	}
	return &d
}
