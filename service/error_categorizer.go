package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/prosim/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	patterns []categoryPatterns
}

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorPatterns returns the message patterns in match order
func initializeErrorPatterns() []categoryPatterns {
	return []categoryPatterns{
		{domain.ErrorCategoryTimeout, []string{
			"timeout",
			"timed out",
			"deadline",
			"context canceled",
			"cancelled",
		}},
		{domain.ErrorCategoryConfig, []string{
			"config",
			"configuration",
			"toml",
			"invalid settings",
		}},
		{domain.ErrorCategoryInput, []string{
			"invalid input",
			"no corpus files found",
			"file not found",
			"directory",
			"cannot access",
			"permission denied",
			"missing channel",
			"ingest",
		}},
		{domain.ErrorCategoryOutput, []string{
			"output",
			"write",
			"cannot create",
			"unsupported format",
		}},
		{domain.ErrorCategoryProcessing, []string{
			"parse",
			"solve",
			"solver",
			"aggregat",
			"analysis",
		}},
	}
}

// codeCategories maps domain error codes to categories
var codeCategories = map[string]domain.ErrorCategory{
	domain.ErrCodeInvalidInput:      domain.ErrorCategoryInput,
	domain.ErrCodeFileNotFound:      domain.ErrorCategoryInput,
	domain.ErrCodeIngestionError:    domain.ErrorCategoryInput,
	domain.ErrCodeParseError:        domain.ErrorCategoryInput,
	domain.ErrCodeConfigError:       domain.ErrorCategoryConfig,
	domain.ErrCodeOutputError:       domain.ErrorCategoryOutput,
	domain.ErrCodeUnsupportedFormat: domain.ErrorCategoryOutput,
	domain.ErrCodeSolveError:        domain.ErrorCategoryProcessing,
	domain.ErrCodeAnalysisError:     domain.ErrorCategoryProcessing,
}

// Categorize determines the category of an error. Context errors and domain
// error codes win over message patterns.
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ec.categorized(domain.ErrorCategoryTimeout, err)
	}

	var de domain.DomainError
	if errors.As(err, &de) {
		if category, ok := codeCategories[de.Code]; ok {
			return ec.categorized(category, err)
		}
	}

	errMsg := strings.ToLower(err.Error())
	for _, cp := range ec.patterns {
		if containsAnyPattern(errMsg, cp.patterns) {
			return ec.categorized(cp.category, err)
		}
	}

	return &domain.CategorizedError{
		Category: domain.ErrorCategoryUnknown,
		Message:  err.Error(),
		Original: err,
	}
}

func (ec *ErrorCategorizerImpl) categorized(category domain.ErrorCategory, err error) *domain.CategorizedError {
	return &domain.CategorizedError{
		Category: category,
		Message:  ec.getCategoryMessage(category),
		Original: err,
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the paths exist and contain .csv, .tsv, .json or .yaml corpus files",
			"Make sure every configured channel has a column and a value in every tuple",
			"Try: prosim analyze <dir> --verbose to see which document failed",
			"Adjust [corpus] include_patterns or channels in .prosim.toml",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: prosim init to generate a valid config file",
			"Check for syntax errors in .prosim.toml",
			"Check PROSIM_ environment variables for bad overrides",
		},
		domain.ErrorCategoryTimeout: {
			"Increase --timeout or set it to 0 to disable it",
			"Limit the run with --start-document, --end-document or --max-windows",
			"Use more worker threads with --threads",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions and output format validity",
			"Pick one of --json, --yaml or --csv, or omit them for text",
			"Try writing to a different location",
		},
		domain.ErrorCategoryProcessing: {
			"Run with --verbose for the failing problem index",
			"Try a smaller --window-size to isolate the problem",
			"Report the issue if it persists",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to read or ingest the corpus",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Similarity run timed out or was cancelled",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while solving similarity problems",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
