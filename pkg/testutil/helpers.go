// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/ecoprice/internal/pricing"
	"github.com/iwvelando/ecoprice/pkg/mathutil"
)

// SampleInputs returns the reference product used across tests: a unit that
// costs 20, sells 500 units at 45 and faces elasticity -1.2.
func SampleInputs() pricing.Inputs {
	return pricing.Inputs{
		VariableCostPerUnit: 20,
		FixedCostPerPeriod:  2000,
		CurrentPrice:        45,
		CurrentVolume:       500,
		CompetitorAvgPrice:  44,
		Elasticity:          -1.2,
	}
}

// FindCurvePoint finds the curve entry whose price is within tolerance of price.
// Returns a pointer to the point if found, nil otherwise.
func FindCurvePoint(result *pricing.Result, price, tolerance float64) *pricing.CurvePoint {
	if result == nil {
		return nil
	}
	for i := range result.Curve {
		if mathutil.Near(result.Curve[i].Price, price, tolerance) {
			return &result.Curve[i]
		}
	}
	return nil
}
