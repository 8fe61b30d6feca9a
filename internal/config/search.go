package config

import (
	"fmt"

	"github.com/iwvelando/ecoprice/internal/pricing"
	"github.com/iwvelando/ecoprice/pkg/constants"
	"github.com/iwvelando/ecoprice/pkg/mathutil"
)

const maxSampleCount = 10000

// SearchConfig defines the candidate price grid.
type SearchConfig struct {
	SampleCount int     `yaml:"sampleCount,omitempty" mapstructure:"sampleCount" json:"sampleCount,omitempty"`
	LowerFactor float64 `yaml:"lowerFactor,omitempty" mapstructure:"lowerFactor" json:"lowerFactor,omitempty"`
	UpperFactor float64 `yaml:"upperFactor,omitempty" mapstructure:"upperFactor" json:"upperFactor,omitempty"`
	Floor       float64 `yaml:"floor,omitempty" mapstructure:"floor" json:"floor,omitempty"`
}

// DefaultSearchConfig returns the search settings used when a field is
// absent. Config files get these through viper defaults and API requests
// decode on top of them, so an explicit zero stays zero and fails validation.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		SampleCount: constants.DefaultSampleCount,
		LowerFactor: constants.DefaultLowerFactor,
		UpperFactor: constants.DefaultUpperFactor,
		Floor:       constants.DefaultPriceFloor,
	}
}

// Validate returns an error when the search configuration is unsupported.
func (s *SearchConfig) Validate() error {
	if s == nil {
		return fmt.Errorf("search configuration cannot be nil")
	}

	if s.SampleCount < 1 {
		return fmt.Errorf("search sampleCount %d must be at least 1", s.SampleCount)
	}
	if s.SampleCount > maxSampleCount {
		return fmt.Errorf("search sampleCount %d must not exceed %d", s.SampleCount, maxSampleCount)
	}
	if !mathutil.IsFinite(s.LowerFactor) || s.LowerFactor <= 0 {
		return fmt.Errorf("search lowerFactor %.4f must be a positive number", s.LowerFactor)
	}
	if !mathutil.IsFinite(s.UpperFactor) || s.UpperFactor <= 0 {
		return fmt.Errorf("search upperFactor %.4f must be a positive number", s.UpperFactor)
	}
	if !mathutil.IsFinite(s.Floor) || s.Floor <= 0 {
		return fmt.Errorf("search floor %.4f must be a positive number", s.Floor)
	}

	return nil
}

// Policy converts the configuration into the optimizer's search policy.
func (s SearchConfig) Policy() pricing.SearchPolicy {
	return pricing.SearchPolicy{
		SampleCount: s.SampleCount,
		LowerFactor: s.LowerFactor,
		UpperFactor: s.UpperFactor,
		Floor:       s.Floor,
	}
}
