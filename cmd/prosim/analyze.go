package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/prosim/app"
	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/metrics"
	"github.com/ludo-technologies/prosim/service"
)

// AnalyzeCommand handles the similarity analysis CLI command
type AnalyzeCommand struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string
	phraseField     string
	channels        []string

	// Engine configuration
	windowSize       int
	weightingPower   float64
	threads          int
	startDocument    int
	endDocument      int
	maxWindows       int
	seed             uint64
	progressInterval time.Duration
	timeout          time.Duration

	// Output format flags (only one should be true)
	json bool
	csv  bool
	yaml bool

	// Output options
	outputPath string
	showRows   bool

	metricsAddr string
}

// NewAnalyzeCommand creates a new analyze command
func NewAnalyzeCommand() *AnalyzeCommand {
	return &AnalyzeCommand{
		recursive:        domain.DefaultRecursive,
		phraseField:      domain.DefaultPhraseField,
		windowSize:       domain.DefaultWindowSize,
		weightingPower:   domain.DefaultWeightingPower,
		threads:          domain.DefaultThreads,
		progressInterval: domain.DefaultProgressInterval,
	}
}

// CreateCobraCommand creates the Cobra command for similarity analysis
func (c *AnalyzeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Compute window similarity across a prosodic corpus",
		Long: `Compute window-level similarity between every pair of documents.

Each corpus file (.csv, .tsv, .json, .yaml) is one document. Files are read
in sorted path order and every configured channel must be present for every
phoneme. Settings come from .prosim.toml (discovered upwards from the first
path) or --config, and flags set on the command line take precedence.

Examples:
  # Analyze every corpus file below corpus/
  prosim analyze corpus/

  # Only part-of-speech and tone, tone counting double
  prosim analyze --channel pos --channel tone:2 corpus/

  # Reproducible JSON report with per-position rows
  prosim analyze --seed 42 --json --rows corpus/ > report.json

  # Solve only the windows of documents 10..19, at most 500 per document
  prosim analyze --start-document 10 --end-document 20 --max-windows 500 corpus/`,
		RunE:          c.runAnalyze,
		SilenceErrors: true,
	}

	// Input flags
	cmd.Flags().BoolVarP(&c.recursive, service.FlagRecursive, "r", c.recursive,
		"Recursively analyze directories")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file (TOML, YAML or JSON)")
	cmd.Flags().StringSliceVar(&c.includePatterns, service.FlagInclude, domain.DefaultIncludePatterns(),
		"Corpus file patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, service.FlagExclude, nil,
		"Corpus file patterns to exclude")
	cmd.Flags().StringVar(&c.phraseField, service.FlagPhraseField, c.phraseField,
		"Column or key holding the phrase identifier")
	cmd.Flags().StringArrayVar(&c.channels, service.FlagChannel, nil,
		"Feature channel as name[:weight]; repeat for each channel, in tuple order")

	// Engine flags
	cmd.Flags().IntVarP(&c.windowSize, service.FlagWindowSize, "w", c.windowSize,
		"Window size in phonemes")
	cmd.Flags().Float64Var(&c.weightingPower, service.FlagWeightingPower, c.weightingPower,
		"Exponent applied to the normalized window score")
	cmd.Flags().IntVarP(&c.threads, service.FlagThreads, "j", c.threads,
		"Solver worker threads (0 = one per CPU)")
	cmd.Flags().IntVar(&c.startDocument, service.FlagStartDocument, 0,
		"First document whose windows are solved")
	cmd.Flags().IntVar(&c.endDocument, service.FlagEndDocument, 0,
		"Document index to stop before (0 = all documents)")
	cmd.Flags().IntVar(&c.maxWindows, service.FlagMaxWindows, 0,
		"Maximum windows solved per document (0 = unbounded)")
	cmd.Flags().Uint64Var(&c.seed, service.FlagSeed, 0,
		"Tie-break seed (0 = random per run)")
	cmd.Flags().DurationVar(&c.progressInterval, service.FlagProgressInterval, c.progressInterval,
		"How often solve progress is reported")
	cmd.Flags().DurationVar(&c.timeout, service.FlagTimeout, 0,
		"Maximum time for the run, e.g. 10m (0 = no limit)")

	// Output format flags
	cmd.Flags().BoolVar(&c.json, service.FlagJSON, false, "Generate JSON report")
	cmd.Flags().BoolVar(&c.csv, service.FlagCSV, false, "Generate CSV report (always includes rows)")
	cmd.Flags().BoolVar(&c.yaml, service.FlagYAML, false, "Generate YAML report")

	// Output options
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&c.showRows, service.FlagRows, false,
		"Include per-position similarity rows")
	cmd.Flags().StringVar(&c.metricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on host:port while the run lasts")

	_ = cmd.Flags().MarkHidden(service.FlagProgressInterval)

	return cmd
}

// runAnalyze executes the analyze command
func (c *AnalyzeCommand) runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	err := c.execute(cmd, args)
	if err != nil {
		c.printError(cmd, err)
	}
	return err
}

func (c *AnalyzeCommand) execute(cmd *cobra.Command, args []string) error {
	request, err := c.createSimilarityRequest(cmd, args)
	if err != nil {
		return err
	}

	m := metrics.New()
	useCase, err := c.createSimilarityUseCase(cmd, m)
	if err != nil {
		return fmt.Errorf("failed to create similarity use case: %w", err)
	}

	if c.metricsAddr != "" {
		shutdown, err := m.StartServer(c.metricsAddr)
		if err != nil {
			return domain.NewConfigError("failed to start metrics server", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return useCase.Execute(ctx, *request)
}

// createSimilarityRequest loads configuration for the first path and lays
// the explicitly set flags over it
func (c *AnalyzeCommand) createSimilarityRequest(cmd *cobra.Command, paths []string) (*domain.SimilarityRequest, error) {
	loader := service.NewSimilarityConfigurationLoaderWithFlags(GetExplicitFlags(cmd))

	base, err := loader.LoadConfig(c.configFile, getTargetPathFromArgs(paths))
	if err != nil {
		return nil, err
	}

	override, err := c.flagRequest(paths)
	if err != nil {
		return nil, err
	}
	override.OutputWriter = cmd.OutOrStdout()

	request := loader.MergeConfig(base, override)

	// Without --output, file formats land in the configured output directory
	if request.OutputPath == "" && request.OutputDir != "" && request.OutputFormat != domain.OutputFormatText {
		_, extension, err := service.NewOutputFormatResolver().Parse(string(request.OutputFormat))
		if err != nil {
			return nil, err
		}
		request.OutputPath, err = generateOutputFilePath("prosim", extension, request.OutputDir)
		if err != nil {
			return nil, domain.NewOutputError("failed to prepare output directory", err)
		}
	}

	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return request, nil
}

// flagRequest builds a request carrying every flag value
func (c *AnalyzeCommand) flagRequest(paths []string) (*domain.SimilarityRequest, error) {
	outputFormat, _, err := service.NewOutputFormatResolver().Determine(c.json, c.csv, c.yaml)
	if err != nil {
		return nil, domain.NewInvalidInputError(err.Error(), nil)
	}

	channels, err := service.ParseChannels(c.channels)
	if err != nil {
		return nil, domain.NewInvalidInputError(err.Error(), nil)
	}

	return &domain.SimilarityRequest{
		Paths:                 paths,
		Recursive:             c.recursive,
		IncludePatterns:       c.includePatterns,
		ExcludePatterns:       c.excludePatterns,
		PhraseField:           c.phraseField,
		Channels:              channels,
		WindowSize:            c.windowSize,
		WeightingPower:        c.weightingPower,
		Threads:               c.threads,
		StartDocument:         c.startDocument,
		EndDocument:           c.endDocument,
		MaxWindowsPerDocument: c.maxWindows,
		Seed:                  c.seed,
		ProgressInterval:      c.progressInterval,
		Timeout:               c.timeout,
		OutputFormat:          outputFormat,
		OutputPath:            c.outputPath,
		ShowRows:              c.showRows,
	}, nil
}

// createSimilarityUseCase creates a similarity use case with all dependencies
func (c *AnalyzeCommand) createSimilarityUseCase(cmd *cobra.Command, m *metrics.Metrics) (*app.SimilarityUseCase, error) {
	progress := service.NewProgressManager()
	progress.SetWriter(cmd.ErrOrStderr())

	return app.NewSimilarityUseCaseBuilder().
		WithService(service.NewSimilarityService(progress, m)).
		WithCorpusLoader(service.NewCorpusReader()).
		WithFormatter(service.NewSimilarityFormatter()).
		WithReportWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

// printError prints a categorized error with recovery suggestions
func (c *AnalyzeCommand) printError(cmd *cobra.Command, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "❌ %s: %s\n", categorized.Category, categorized.Message)
	fmt.Fprintf(out, "   %v\n", err)

	if errors.Is(err, context.Canceled) {
		return
	}

	fmt.Fprintf(out, "\n💡 Recovery Suggestions:\n")
	for _, suggestion := range categorizer.GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(out, "  • %s\n", suggestion)
	}
}

// NewAnalyzeCmd creates and returns the analyze cobra command
func NewAnalyzeCmd() *cobra.Command {
	return NewAnalyzeCommand().CreateCobraCommand()
}
