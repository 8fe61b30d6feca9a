package pricing

import (
	"fmt"
	"math"

	"github.com/iwvelando/ecoprice/pkg/constants"
	"github.com/iwvelando/ecoprice/pkg/mathutil"
)

// ComputeBaseline derives unit economics from already validated inputs.
//
// BreakevenUnits divides by max(unitMargin, 1e-6); with a non-positive margin
// the value is meaningless (and may overflow to +Inf for huge fixed costs)
// and MarginPositive is false.
func ComputeBaseline(in Inputs) Baseline {
	unitMargin := in.CurrentPrice - in.VariableCostPerUnit
	revenue := in.CurrentPrice * in.CurrentVolume
	profit := revenue - in.FixedCostPerPeriod - in.VariableCostPerUnit*in.CurrentVolume

	return Baseline{
		UnitMargin:     unitMargin,
		Revenue:        revenue,
		Profit:         profit,
		BreakevenUnits: in.FixedCostPerPeriod / mathutil.Max(unitMargin, constants.MarginEpsilon),
		MarginPositive: unitMargin > 0,
	}
}

// CandidateBounds returns the lowest and highest candidate price for the
// policy without checking that they form a usable range.
func CandidateBounds(in Inputs, policy SearchPolicy) (float64, float64) {
	lower := mathutil.Max(policy.Floor, in.VariableCostPerUnit*policy.LowerFactor)
	upper := in.CurrentPrice * policy.UpperFactor
	return lower, upper
}

// BuildCandidatePrices returns policy.SampleCount evenly spaced prices from
// the lower to the upper bound, both inclusive. An empty or inverted range is
// rejected with a *DegenerateRangeError rather than collapsed, as is a range
// too narrow to hold n distinct prices.
func BuildCandidatePrices(in Inputs, policy SearchPolicy) ([]float64, error) {
	if err := policy.validate(); err != nil {
		return nil, err
	}

	lower, upper := CandidateBounds(in, policy)
	if !mathutil.IsFinite(lower) || !mathutil.IsFinite(upper) || lower >= upper {
		return nil, &DegenerateRangeError{Lower: lower, Upper: upper}
	}

	n := policy.SampleCount
	prices := make([]float64, n)
	if n == 1 {
		prices[0] = lower
		return prices, nil
	}

	step := (upper - lower) / float64(n-1)
	for i := 0; i < n-1; i++ {
		prices[i] = lower + float64(i)*step
		// A range narrower than float64 spacing would repeat prices.
		if i > 0 && prices[i] <= prices[i-1] {
			return nil, &DegenerateRangeError{Lower: lower, Upper: upper}
		}
	}
	prices[n-1] = upper
	if prices[n-1] <= prices[n-2] {
		return nil, &DegenerateRangeError{Lower: lower, Upper: upper}
	}

	return prices, nil
}

// SimulateProfit projects volume and profit at price with the
// constant-elasticity curve calibrated on the current price and volume.
// The result may be non-finite for extreme inputs; callers decide how to
// treat that.
func SimulateProfit(price float64, in Inputs) CurvePoint {
	ratio := price / in.CurrentPrice
	volume := in.CurrentVolume * math.Pow(ratio, in.Elasticity)
	profit := (price-in.VariableCostPerUnit)*volume - in.FixedCostPerPeriod

	return CurvePoint{
		Price:           price,
		SimulatedVolume: volume,
		SimulatedProfit: profit,
	}
}

// Optimize validates the inputs, simulates every candidate price and returns
// the first candidate with the highest finite profit. It never interpolates
// between candidates.
func Optimize(in Inputs, policy SearchPolicy) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	prices, err := BuildCandidatePrices(in, policy)
	if err != nil {
		return nil, err
	}

	curve := make([]CurvePoint, len(prices))
	best := -1
	excluded := 0
	for i, price := range prices {
		point := SimulateProfit(price, in)
		curve[i] = point

		if !mathutil.IsFinite(point.SimulatedProfit) {
			excluded++
			continue
		}
		// Strict comparison keeps the lowest price on ties.
		if best < 0 || point.SimulatedProfit > curve[best].SimulatedProfit {
			best = i
		}
	}

	if best < 0 {
		return nil, &SimulationFailedError{Candidates: len(prices)}
	}

	return &Result{
		Baseline: ComputeBaseline(in),
		Curve:    curve,
		Optimal:  curve[best],
		Excluded: excluded,
	}, nil
}

// OptimizeDefault runs Optimize with DefaultSearchPolicy.
func OptimizeDefault(in Inputs) (*Result, error) {
	result, err := Optimize(in, DefaultSearchPolicy())
	if err != nil {
		return nil, fmt.Errorf("optimize with default policy: %w", err)
	}
	return result, nil
}
