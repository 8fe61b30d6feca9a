package output

import (
	"encoding/json"
	"fmt"

	"github.com/iwvelando/ecoprice/internal/pricing"
	"github.com/iwvelando/ecoprice/pkg/mathutil"
)

// BaselineView is the JSON form of pricing.Baseline. Values that JSON cannot
// carry (Inf, NaN) are encoded as null.
type BaselineView struct {
	UnitMargin     *float64 `json:"unitMargin"`
	Revenue        *float64 `json:"revenue"`
	Profit         *float64 `json:"profit"`
	BreakevenUnits *float64 `json:"breakevenUnits"`
	MarginPositive bool     `json:"marginPositive"`
}

// PointView is the JSON form of one simulated price.
type PointView struct {
	Price   float64  `json:"price"`
	Volume  *float64 `json:"volume"`
	Profit  *float64 `json:"profit"`
	Optimal bool     `json:"optimal,omitempty"`
}

// ResultView is the JSON form of an optimization result, shared by the CLI
// json output and the HTTP API.
type ResultView struct {
	Baseline BaselineView `json:"baseline"`
	Curve    []PointView  `json:"curve"`
	Optimal  PointView    `json:"optimal"`
	Excluded int          `json:"excluded"`
}

// NewBaselineView converts baseline metrics for encoding.
func NewBaselineView(b pricing.Baseline) BaselineView {
	return BaselineView{
		UnitMargin:     FiniteOrNil(b.UnitMargin),
		Revenue:        FiniteOrNil(b.Revenue),
		Profit:         FiniteOrNil(b.Profit),
		BreakevenUnits: FiniteOrNil(b.BreakevenUnits),
		MarginPositive: b.MarginPositive,
	}
}

// NewPointView converts one curve point for encoding.
func NewPointView(point pricing.CurvePoint, optimal bool) PointView {
	return PointView{
		Price:   point.Price,
		Volume:  FiniteOrNil(point.SimulatedVolume),
		Profit:  FiniteOrNil(point.SimulatedProfit),
		Optimal: optimal,
	}
}

// NewResultView converts a result for encoding. A nil result yields an empty
// curve.
func NewResultView(result *pricing.Result) ResultView {
	if result == nil {
		return ResultView{Curve: []PointView{}}
	}
	optimalIndex := result.OptimalIndex()
	points := make([]PointView, 0, len(result.Curve))
	for i, point := range result.Curve {
		points = append(points, NewPointView(point, i == optimalIndex))
	}
	return ResultView{
		Baseline: NewBaselineView(result.Baseline),
		Curve:    points,
		Optimal:  NewPointView(result.Optimal, true),
		Excluded: result.Excluded,
	}
}

// FiniteOrNil returns nil for Inf and NaN.
func FiniteOrNil(value float64) *float64 {
	if !mathutil.IsFinite(value) {
		return nil
	}
	v := value
	return &v
}

// JsonFormat outputs the result as indented JSON.
func JsonFormat(result *pricing.Result) error {
	encoded, err := JsonString(result)
	if err != nil {
		return err
	}
	fmt.Print(encoded)
	return nil
}

// JsonString renders the result with the same field names as the HTTP API.
func JsonString(result *pricing.Result) (string, error) {
	encoded, err := json.MarshalIndent(NewResultView(result), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result as JSON: %w", err)
	}
	return string(encoded) + "\n", nil
}
