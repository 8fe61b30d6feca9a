package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/iwvelando/ecoprice/internal/pricing"
	"github.com/iwvelando/ecoprice/pkg/format"
)

// SystemPrompt frames the model as a pricing analyst.
const SystemPrompt = "You are an economic analyst who writes concise, technical pricing reports for small businesses."

// Facts are the structured figures handed to the language model.
type Facts struct {
	Inputs         pricing.Inputs
	Baseline       pricing.Baseline
	Optimal        pricing.CurvePoint
	CurrencySymbol string
}

// NewFacts collects the figures for a finished optimization.
func NewFacts(in pricing.Inputs, result *pricing.Result, currencySymbol string) Facts {
	facts := Facts{Inputs: in, CurrencySymbol: currencySymbol}
	if result != nil {
		facts.Baseline = result.Baseline
		facts.Optimal = result.Optimal
	}
	return facts
}

var promptTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": func(symbol string, v float64) string { return format.CurrencyWithSymbol(v, symbol) },
	"num":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`Product data:
- Variable cost per unit: {{money .CurrencySymbol .Inputs.VariableCostPerUnit}}
- Fixed cost per period: {{money .CurrencySymbol .Inputs.FixedCostPerPeriod}}
- Current price: {{money .CurrencySymbol .Inputs.CurrentPrice}}
- Current volume per period: {{num .Inputs.CurrentVolume}}
- Competitor average price: {{money .CurrencySymbol .Inputs.CompetitorAvgPrice}}
- Assumed price elasticity of demand: {{num .Inputs.Elasticity}}

Current unit economics:
- Unit margin: {{money .CurrencySymbol .Baseline.UnitMargin}}
- Revenue per period: {{money .CurrencySymbol .Baseline.Revenue}}
- Profit per period: {{money .CurrencySymbol .Baseline.Profit}}
- Breakeven units: {{num .Baseline.BreakevenUnits}}{{if not .Baseline.MarginPositive}} (approximation, the unit margin is not positive){{end}}

The simulation indicates:
- Suggested optimal price: {{money .CurrencySymbol .Optimal.Price}}
- Estimated volume at that price: {{num .Optimal.SimulatedVolume}}
- Estimated profit at that price: {{money .CurrencySymbol .Optimal.SimulatedProfit}}

Write a short technical report in four paragraphs covering:
1) The microeconomic interpretation of the results (elasticity, margin, breakeven point).
2) The main risks and assumptions of this simulation.
3) A practical pricing recommendation with a test plan (A/B pricing) and one metric to measure success.
4) Which financial metrics to track (CAC, LTV, average ticket, margin, churn).

Be clear and direct and use business language.
`))

// BuildPrompt renders the user prompt for facts.
func BuildPrompt(facts Facts) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, facts); err != nil {
		return "", fmt.Errorf("render report prompt: %w", err)
	}
	return b.String(), nil
}
