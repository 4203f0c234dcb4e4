package config

import (
	"fmt"

	"mecfinder/pkg/pricing"
)

type PricingConfig struct {
	DefaultGSTPercent         float64 `yaml:"default_gst_percent"`
	DefaultPlatformFeePercent float64 `yaml:"default_platform_fee_percent"`
	DefaultTravelCharge       float64 `yaml:"default_travel_charge"`
}

func loadPricingConfig() *PricingConfig {
	return &PricingConfig{
		DefaultGSTPercent:         getEnvAsFloat64("PRICING_DEFAULT_GST_PERCENT", pricing.DefaultGSTPercent),
		DefaultPlatformFeePercent: getEnvAsFloat64("PRICING_DEFAULT_PLATFORM_FEE_PERCENT", pricing.DefaultPlatformFeePercent),
		DefaultTravelCharge:       getEnvAsFloat64("PRICING_DEFAULT_TRAVEL_CHARGE", pricing.DefaultTravelCharge),
	}
}

func (p *PricingConfig) Defaults() pricing.Defaults {
	return pricing.Defaults{
		GSTPercent:         p.DefaultGSTPercent,
		PlatformFeePercent: p.DefaultPlatformFeePercent,
		TravelCharge:       p.DefaultTravelCharge,
	}
}

func (p *PricingConfig) validate() error {
	probe := pricing.Input{
		GSTPercent:         p.DefaultGSTPercent,
		PlatformFeePercent: p.DefaultPlatformFeePercent,
		TravelCharge:       p.DefaultTravelCharge,
	}
	if err := probe.Validate(); err != nil {
		return fmt.Errorf("invalid pricing defaults: %w", err)
	}
	return nil
}
