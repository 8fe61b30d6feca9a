// Package constants provides shared constants for the ecoprice application.
package constants

// Price search defaults
const (
	// DefaultSampleCount is the number of candidate prices evaluated per run
	DefaultSampleCount = 20

	// DefaultLowerFactor is applied to the variable cost to get the lowest candidate price
	DefaultLowerFactor = 1.05

	// DefaultUpperFactor is applied to the current price to get the highest candidate price
	DefaultUpperFactor = 1.6

	// DefaultPriceFloor is the absolute minimum candidate price
	DefaultPriceFloor = 0.5

	// DefaultElasticity is the assumed price elasticity of demand
	DefaultElasticity = -1.2

	// MarginEpsilon keeps breakeven units finite when the unit margin is not positive
	MarginEpsilon = 1e-6
)

// Currency constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// DefaultCurrencySymbol prefixes formatted amounts
	DefaultCurrencySymbol = "$"

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON mirrors the HTTP API's result payload
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix scopes environment overrides, e.g. ECOPRICE_REPORT_APIKEY
	EnvPrefix = "ECOPRICE"
)

// Report defaults
const (
	// ReportProviderOpenAI selects an OpenAI-compatible chat completions API
	ReportProviderOpenAI = "openai"

	// ReportProviderGemini selects the Google Gemini API
	ReportProviderGemini = "gemini"

	// DefaultReportModel is the chat model used when none is configured
	DefaultReportModel = "gpt-4o-mini"

	// DefaultGeminiModel is the Gemini model used when none is configured
	DefaultGeminiModel = "gemini-2.0-flash"

	// DefaultReportBaseURL is the OpenAI API root
	DefaultReportBaseURL = "https://api.openai.com/v1"

	// DefaultReportMaxTokens bounds the generated report length
	DefaultReportMaxTokens = 450

	// DefaultReportTemperature keeps the report mostly deterministic
	DefaultReportTemperature = 0.3

	// DefaultReportTimeoutSeconds bounds a single report request
	DefaultReportTimeoutSeconds = 30

	// DefaultReportFileName is the download name for the plain text report
	DefaultReportFileName = "ecoprice-report.txt"

	// DefaultReportHTMLFileName is the download name for the rendered report
	DefaultReportHTMLFileName = "ecoprice-report.html"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultRequestTimeout bounds reading a request and writing its response
	DefaultRequestTimeout = "60s"
)
