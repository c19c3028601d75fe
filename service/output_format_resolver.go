package service

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/prosim/domain"
)

// OutputFormatResolver resolves output format and file extension from flags.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates format flags and returns the selected format and extension.
// At most one of json/csv/yaml may be true; if none are true, defaults to text.
func (r *OutputFormatResolver) Determine(json, csv, yaml bool) (domain.OutputFormat, string, error) {
	formatCount := 0
	var format domain.OutputFormat
	var ext string

	if json {
		formatCount++
		format = domain.OutputFormatJSON
		ext = "json"
	}
	if csv {
		formatCount++
		format = domain.OutputFormatCSV
		ext = "csv"
	}
	if yaml {
		formatCount++
		format = domain.OutputFormatYAML
		ext = "yaml"
	}

	if formatCount > 1 {
		return "", "", fmt.Errorf("only one output format flag can be specified")
	}
	if formatCount == 0 {
		return domain.OutputFormatText, "txt", nil
	}
	return format, ext, nil
}

// Parse resolves a format name as written in configuration files
func (r *OutputFormatResolver) Parse(name string) (domain.OutputFormat, string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return domain.OutputFormatText, "txt", nil
	case "json":
		return domain.OutputFormatJSON, "json", nil
	case "csv":
		return domain.OutputFormatCSV, "csv", nil
	case "yaml", "yml":
		return domain.OutputFormatYAML, "yaml", nil
	default:
		return "", "", domain.NewUnsupportedFormatError(name)
	}
}
