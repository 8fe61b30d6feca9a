package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/ecoprice/pkg/constants"
)

// OutputFormats lists the result renderings the CLI supports.
var OutputFormats = []string{
	constants.OutputFormatPretty,
	constants.OutputFormatCSV,
	constants.OutputFormatJSON,
}

// ParseOutputFormat returns the canonical output format for value. Case and
// surrounding whitespace are ignored and an empty value selects pretty.
func ParseOutputFormat(value string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(value))
	if format == "" {
		return constants.OutputFormatPretty, nil
	}
	for _, supported := range OutputFormats {
		if format == supported {
			return supported, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q, expected one of %s",
		value, strings.Join(OutputFormats, ", "))
}
