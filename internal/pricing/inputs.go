// Package pricing estimates a profit-maximizing price under a
// constant-elasticity demand model using a grid search.
package pricing

import (
	"github.com/iwvelando/ecoprice/pkg/constants"
	"github.com/iwvelando/ecoprice/pkg/mathutil"
)

// Field names reported by InvalidInputError.
const (
	FieldVariableCost    = "variableCostPerUnit"
	FieldFixedCost       = "fixedCostPerPeriod"
	FieldCurrentPrice    = "currentPrice"
	FieldCurrentVolume   = "currentVolume"
	FieldCompetitorPrice = "competitorAvgPrice"
	FieldElasticity      = "elasticity"
	FieldSampleCount     = "sampleCount"
	FieldLowerFactor     = "lowerFactor"
	FieldUpperFactor     = "upperFactor"
	FieldFloor           = "floor"
)

// Inputs describes the product being priced. It is passed by value and never
// mutated by this package.
type Inputs struct {
	VariableCostPerUnit float64 `json:"variableCostPerUnit" yaml:"variableCostPerUnit" mapstructure:"variableCostPerUnit"`
	FixedCostPerPeriod  float64 `json:"fixedCostPerPeriod" yaml:"fixedCostPerPeriod" mapstructure:"fixedCostPerPeriod"`
	CurrentPrice        float64 `json:"currentPrice" yaml:"currentPrice" mapstructure:"currentPrice"`
	CurrentVolume       float64 `json:"currentVolume" yaml:"currentVolume" mapstructure:"currentVolume"`
	CompetitorAvgPrice  float64 `json:"competitorAvgPrice" yaml:"competitorAvgPrice" mapstructure:"competitorAvgPrice"`
	Elasticity          float64 `json:"elasticity" yaml:"elasticity" mapstructure:"elasticity"`
}

// Validate returns an *InvalidInputError for the first field that is
// non-finite or out of range. A zero current price is rejected because the
// demand ratio would be undefined.
func (in Inputs) Validate() error {
	nonNegative := []struct {
		field string
		value float64
	}{
		{FieldVariableCost, in.VariableCostPerUnit},
		{FieldFixedCost, in.FixedCostPerPeriod},
		{FieldCurrentPrice, in.CurrentPrice},
		{FieldCurrentVolume, in.CurrentVolume},
		{FieldCompetitorPrice, in.CompetitorAvgPrice},
	}
	for _, check := range nonNegative {
		if !mathutil.IsFinite(check.value) {
			return &InvalidInputError{Field: check.field, Value: check.value, Reason: "must be finite"}
		}
		if check.value < 0 {
			return &InvalidInputError{Field: check.field, Value: check.value, Reason: "must not be negative"}
		}
	}
	if in.CurrentPrice == 0 {
		return &InvalidInputError{Field: FieldCurrentPrice, Value: in.CurrentPrice, Reason: "must be greater than zero"}
	}
	if !mathutil.IsFinite(in.Elasticity) {
		return &InvalidInputError{Field: FieldElasticity, Value: in.Elasticity, Reason: "must be finite"}
	}
	return nil
}

// SearchPolicy controls the candidate price grid.
type SearchPolicy struct {
	SampleCount int     `json:"sampleCount" yaml:"sampleCount" mapstructure:"sampleCount"`
	LowerFactor float64 `json:"lowerFactor" yaml:"lowerFactor" mapstructure:"lowerFactor"`
	UpperFactor float64 `json:"upperFactor" yaml:"upperFactor" mapstructure:"upperFactor"`
	Floor       float64 `json:"floor" yaml:"floor" mapstructure:"floor"`
}

// DefaultSearchPolicy returns 20 samples between max(0.5, 1.05*cost) and
// 1.6*price.
func DefaultSearchPolicy() SearchPolicy {
	return SearchPolicy{
		SampleCount: constants.DefaultSampleCount,
		LowerFactor: constants.DefaultLowerFactor,
		UpperFactor: constants.DefaultUpperFactor,
		Floor:       constants.DefaultPriceFloor,
	}
}

func (p SearchPolicy) validate() error {
	if p.SampleCount < 1 {
		return &InvalidInputError{Field: FieldSampleCount, Value: float64(p.SampleCount), Reason: "must be at least 1"}
	}
	factors := []struct {
		field string
		value float64
	}{
		{FieldLowerFactor, p.LowerFactor},
		{FieldUpperFactor, p.UpperFactor},
		{FieldFloor, p.Floor},
	}
	for _, check := range factors {
		if !mathutil.IsFinite(check.value) || check.value <= 0 {
			return &InvalidInputError{Field: check.field, Value: check.value, Reason: "must be a finite positive number"}
		}
	}
	return nil
}

// Baseline holds the unit economics at the current price and volume.
type Baseline struct {
	UnitMargin     float64 `json:"unitMargin"`
	Revenue        float64 `json:"revenue"`
	Profit         float64 `json:"profit"`
	BreakevenUnits float64 `json:"breakevenUnits"`
	// MarginPositive is false when BreakevenUnits was computed against the
	// epsilon floor and carries no economic meaning.
	MarginPositive bool `json:"marginPositive"`
}

// CurvePoint is the simulated outcome of charging Price.
type CurvePoint struct {
	Price           float64 `json:"price"`
	SimulatedVolume float64 `json:"simulatedVolume"`
	SimulatedProfit float64 `json:"simulatedProfit"`
}

// Result is the output of Optimize. Curve is ascending by price and Optimal
// is always one of its entries.
type Result struct {
	Baseline Baseline     `json:"baseline"`
	Curve    []CurvePoint `json:"curve"`
	Optimal  CurvePoint   `json:"optimal"`
	// Excluded counts candidates skipped because their profit was not finite.
	Excluded int `json:"excluded"`
}

// OptimalIndex returns the position of Optimal within Curve, or -1.
func (r Result) OptimalIndex() int {
	for i, point := range r.Curve {
		if point.Price == r.Optimal.Price {
			return i
		}
	}
	return -1
}
