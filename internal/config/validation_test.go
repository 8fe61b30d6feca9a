package config

import (
	"errors"
	"testing"

	"github.com/iwvelando/ecoprice/internal/pricing"
)

func TestValidateConfigurationEdgeCases(t *testing.T) {
	tests := []struct {
		name         string
		product      pricing.Inputs
		wantWarnings int
		wantErr      error
	}{
		{
			name: "positive elasticity",
			product: pricing.Inputs{
				VariableCostPerUnit: 10, FixedCostPerPeriod: 100, CurrentPrice: 20, CurrentVolume: 100, Elasticity: 0.5,
			},
			wantWarnings: 1,
		},
		{
			name: "inelastic demand",
			product: pricing.Inputs{
				VariableCostPerUnit: 10, FixedCostPerPeriod: 100, CurrentPrice: 20, CurrentVolume: 100, Elasticity: -0.4,
			},
			wantWarnings: 1,
		},
		{
			name: "price far above competitors",
			product: pricing.Inputs{
				VariableCostPerUnit: 10, CurrentPrice: 40, CurrentVolume: 100, CompetitorAvgPrice: 20, Elasticity: -2,
			},
			wantWarnings: 1,
		},
		{
			// Every candidate sits above cost, so the grid still exists.
			name: "selling below cost",
			product: pricing.Inputs{
				VariableCostPerUnit: 30, FixedCostPerPeriod: 100, CurrentPrice: 25, CurrentVolume: 100, Elasticity: -1.5,
			},
			wantWarnings: 1,
		},
		{
			name: "cost far above price",
			product: pricing.Inputs{
				VariableCostPerUnit: 100, CurrentPrice: 50, CurrentVolume: 100, Elasticity: -1.2,
			},
			wantWarnings: 1,
			wantErr:      pricing.ErrDegenerateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Configuration{Product: tt.product, Search: DefaultSearchConfig()}
			conf.Normalize()

			warnings := conf.ValidateConfiguration()
			if len(warnings) != tt.wantWarnings {
				t.Fatalf("expected %d warnings, got %d: %v", tt.wantWarnings, len(warnings), warnings)
			}

			// Warnings never block validation; only the optimizer decides.
			if err := conf.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			_, err := pricing.Optimize(conf.Product, conf.Search.Policy())
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Optimize() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateConfigurationValid(t *testing.T) {
	conf, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for valid config, got %d: %v", len(warnings), warnings)
	}
}
