// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"
)

// ProductInfo is the subset of product figures that drive warnings.
type ProductInfo struct {
	VariableCostPerUnit float64
	CurrentPrice        float64
	CompetitorAvgPrice  float64
	Elasticity          float64
}

// ReportInfo is the subset of report settings that drive warnings.
type ReportInfo struct {
	Enabled  bool
	Provider string
	APIKey   string
}

// ValidateElasticity warns when the demand assumption cannot produce an
// interior optimum.
func ValidateElasticity(elasticity float64) []string {
	var warnings []string

	switch {
	case elasticity >= 0:
		warnings = append(warnings, fmt.Sprintf("Elasticity %.2f is not negative - simulated demand does not fall as price rises", elasticity))
	case elasticity > -1:
		warnings = append(warnings, fmt.Sprintf("Elasticity %.2f is inelastic - profit keeps rising with price and the optimum will sit at the upper bound", elasticity))
	}

	return warnings
}

// ValidateMargin warns when the current price does not cover the variable
// cost, in which case breakeven units are not meaningful.
func ValidateMargin(variableCost, currentPrice float64) (string, bool) {
	if currentPrice-variableCost <= 0 {
		return fmt.Sprintf("Current price %.2f does not exceed variable cost %.2f - breakeven units are an approximation only",
			currentPrice, variableCost), true
	}
	return "", false
}

// ValidateCompetitor warns when the current price is far away from the
// competitor average. The competitor price never enters the optimization.
func ValidateCompetitor(currentPrice, competitorPrice float64) (string, bool) {
	if competitorPrice <= 0 || currentPrice <= 0 {
		return "", false
	}
	ratio := currentPrice / competitorPrice
	if ratio > 1.5 || ratio < 0.5 {
		return fmt.Sprintf("Current price %.2f differs from competitor average %.2f by more than 50%%", currentPrice, competitorPrice), true
	}
	return "", false
}

// ConfigValidator collects warnings for a whole configuration.
type ConfigValidator struct {
	Product ProductInfo
	Report  ReportInfo
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	warnings = append(warnings, ValidateElasticity(cv.Product.Elasticity)...)

	if warning, ok := ValidateMargin(cv.Product.VariableCostPerUnit, cv.Product.CurrentPrice); ok {
		warnings = append(warnings, warning)
	}

	if warning, ok := ValidateCompetitor(cv.Product.CurrentPrice, cv.Product.CompetitorAvgPrice); ok {
		warnings = append(warnings, warning)
	}

	if cv.Report.Enabled && strings.TrimSpace(cv.Report.APIKey) == "" {
		warnings = append(warnings, fmt.Sprintf("Report provider '%s' is enabled without an API key - reports will fail", cv.Report.Provider))
	}

	return warnings
}
