// Package output provides utilities for formatting and displaying optimization results.
package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/ecoprice/internal/pricing"
	"github.com/iwvelando/ecoprice/pkg/format"
	"github.com/iwvelando/ecoprice/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const notAvailable = "n/a"

// PrettyFormat outputs a human-readable rather than machine-readable summary.
func PrettyFormat(result *pricing.Result, symbol string) {
	fmt.Print(PrettyString(result, symbol))
}

// PrettyString renders the baseline metrics, the simulated price curve with
// the optimum marked, and the suggested price. An empty symbol uses the
// default currency symbol.
func PrettyString(result *pricing.Result, symbol string) string {
	if result == nil {
		return ""
	}
	p := message.NewPrinter(language.English)
	money := func(v float64) string {
		if !mathutil.IsFinite(v) {
			return notAvailable
		}
		if symbol == "" {
			return format.Currency(v)
		}
		return format.CurrencyWithSymbol(v, symbol)
	}
	units := func(v float64) string {
		if !mathutil.IsFinite(v) {
			return notAvailable
		}
		return p.Sprintf("%.0f", v)
	}

	var b strings.Builder
	baseline := result.Baseline

	b.WriteString("--- Baseline metrics ---\n")
	fmt.Fprintf(&b, "Unit margin:       %s\n", money(baseline.UnitMargin))
	fmt.Fprintf(&b, "Revenue:           %s\n", money(baseline.Revenue))
	fmt.Fprintf(&b, "Profit:            %s\n", money(baseline.Profit))
	breakeven := units(baseline.BreakevenUnits)
	if !baseline.MarginPositive {
		breakeven += " (approximation: unit margin is not positive)"
	}
	fmt.Fprintf(&b, "Breakeven units:   %s\n", breakeven)

	b.WriteString("\n--- Price curve ---\n")
	b.WriteString("Price         | Volume        | Profit          |\n")
	b.WriteString("_____         | ______        | ______          |\n")
	optimalIndex := result.OptimalIndex()
	for i, point := range result.Curve {
		marker := ""
		if i == optimalIndex {
			marker = " <- optimal"
		}
		fmt.Fprintf(&b, "%-13s | %-13s | %-15s |%s\n",
			money(point.Price), units(point.SimulatedVolume), money(point.SimulatedProfit), marker)
	}
	if result.Excluded > 0 {
		fmt.Fprintf(&b, "(%d candidate(s) excluded: non-finite profit)\n", result.Excluded)
	}

	fmt.Fprintf(&b, "\nSuggested price: %s - estimated profit: %s\n",
		money(result.Optimal.Price), money(result.Optimal.SimulatedProfit))

	delta := result.Optimal.SimulatedProfit - baseline.Profit
	if mathutil.IsFinite(delta) {
		sign := ""
		if mathutil.Sign(delta) > 0 {
			sign = "+"
		}
		if mathutil.Sign(baseline.Profit) == 0 {
			fmt.Fprintf(&b, "Profit change vs current: %s%s\n", sign, money(delta))
		} else {
			pct := mathutil.RoundCents(mathutil.PercentChange(delta, baseline.Profit))
			fmt.Fprintf(&b, "Profit change vs current: %s%s (%+.2f%%)\n", sign, money(delta), pct)
		}
	}
	if mathutil.Sign(result.Optimal.SimulatedProfit) < 0 {
		b.WriteString("Warning: no candidate price covers the fixed costs\n")
	}

	return b.String()
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *pricing.Result) {
	fmt.Print(CsvString(result))
}

// CsvString renders the price curve as CSV with an optimal flag column.
func CsvString(result *pricing.Result) string {
	if result == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(`"price","volume","profit","optimal"`)
	b.WriteString("\n")

	optimalIndex := result.OptimalIndex()
	for i, point := range result.Curve {
		fmt.Fprintf(&b, `"%s","%s","%s","%t"`,
			csvNumber(point.Price), csvNumber(point.SimulatedVolume), csvNumber(point.SimulatedProfit), i == optimalIndex)
		b.WriteString("\n")
	}

	return b.String()
}

func csvNumber(v float64) string {
	if !mathutil.IsFinite(v) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}
