package service

import (
	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/config"
)

// Flag names shared by the CLI and MergeConfig
const (
	FlagRecursive        = "recursive"
	FlagInclude          = "include"
	FlagExclude          = "exclude"
	FlagPhraseField      = "phrase-field"
	FlagChannel          = "channel"
	FlagWindowSize       = "window-size"
	FlagWeightingPower   = "power"
	FlagThreads          = "threads"
	FlagStartDocument    = "start-document"
	FlagEndDocument      = "end-document"
	FlagMaxWindows       = "max-windows"
	FlagSeed             = "seed"
	FlagProgressInterval = "progress-interval"
	FlagTimeout          = "timeout"
	FlagRows             = "rows"
	FlagJSON             = "json"
	FlagCSV              = "csv"
	FlagYAML             = "yaml"
)

// SimilarityConfigurationLoaderWithFlags wraps configuration loading with explicit flag tracking
type SimilarityConfigurationLoaderWithFlags struct {
	loader      *SimilarityConfigurationLoader
	flagTracker *config.FlagTracker
}

// NewSimilarityConfigurationLoaderWithFlags creates a loader that only lets
// explicitly set flags override file values
func NewSimilarityConfigurationLoaderWithFlags(explicitFlags map[string]bool) *SimilarityConfigurationLoaderWithFlags {
	return &SimilarityConfigurationLoaderWithFlags{
		loader:      NewSimilarityConfigurationLoader(),
		flagTracker: config.NewFlagTrackerWithFlags(explicitFlags),
	}
}

// LoadConfig loads configuration from the specified path
func (cl *SimilarityConfigurationLoaderWithFlags) LoadConfig(configPath, targetPath string) (*domain.SimilarityRequest, error) {
	return cl.loader.LoadConfig(configPath, targetPath)
}

// GetDefaultConfig loads the default configuration
func (cl *SimilarityConfigurationLoaderWithFlags) GetDefaultConfig() *domain.SimilarityRequest {
	return cl.loader.GetDefaultConfig()
}

// MergeConfig merges CLI flags with the loaded configuration, respecting explicit flags
func (cl *SimilarityConfigurationLoaderWithFlags) MergeConfig(base *domain.SimilarityRequest, override *domain.SimilarityRequest) *domain.SimilarityRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	ft := cl.flagTracker
	merged := *base

	// Paths and destinations come from the command line only
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}

	// Corpus
	merged.Recursive = ft.MergeBool(merged.Recursive, override.Recursive, FlagRecursive)
	merged.IncludePatterns = ft.MergeStringSlice(merged.IncludePatterns, override.IncludePatterns, FlagInclude)
	merged.ExcludePatterns = ft.MergeStringSlice(merged.ExcludePatterns, override.ExcludePatterns, FlagExclude)
	merged.PhraseField = ft.MergeString(merged.PhraseField, override.PhraseField, FlagPhraseField)
	merged.Channels = config.MergeSlice(merged.Channels, override.Channels, FlagChannel, ft.GetAll())

	// Engine
	merged.WindowSize = ft.MergeInt(merged.WindowSize, override.WindowSize, FlagWindowSize)
	merged.WeightingPower = ft.MergeFloat64(merged.WeightingPower, override.WeightingPower, FlagWeightingPower)
	merged.Threads = ft.MergeInt(merged.Threads, override.Threads, FlagThreads)
	merged.StartDocument = ft.MergeInt(merged.StartDocument, override.StartDocument, FlagStartDocument)
	merged.EndDocument = ft.MergeInt(merged.EndDocument, override.EndDocument, FlagEndDocument)
	merged.MaxWindowsPerDocument = ft.MergeInt(merged.MaxWindowsPerDocument, override.MaxWindowsPerDocument, FlagMaxWindows)
	merged.Seed = ft.MergeUint64(merged.Seed, override.Seed, FlagSeed)
	merged.ProgressInterval = config.Merge(merged.ProgressInterval, override.ProgressInterval, FlagProgressInterval, ft.GetAll())
	merged.Timeout = config.Merge(merged.Timeout, override.Timeout, FlagTimeout, ft.GetAll())

	// Output
	merged.ShowRows = ft.MergeBool(merged.ShowRows, override.ShowRows, FlagRows)
	if ft.WasSet(FlagJSON) || ft.WasSet(FlagCSV) || ft.WasSet(FlagYAML) {
		merged.OutputFormat = override.OutputFormat
	}

	return &merged
}
