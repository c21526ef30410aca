package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/zen-systems/reviewgate/pkg/adapter"
	"github.com/zen-systems/reviewgate/pkg/config"
	"github.com/zen-systems/reviewgate/pkg/report"
	"github.com/zen-systems/reviewgate/pkg/review"
	"github.com/zen-systems/reviewgate/pkg/source"
	"github.com/zen-systems/reviewgate/pkg/telemetry"
)

var version = "dev"

var (
	verboseFlag bool
	aliases     *config.ModelAliases
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reviewgate",
		Short: "Sequential multi-stage LLM code review",
		Long: `Reviewgate runs a fixed sequence of LLM analysis stages over the files
of a repository. Each stage sees everything earlier stages found, and a
final synthesis stage produces the verdict for every file.`,
	}

	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(stagesCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func reviewCmd() *cobra.Command {
	var adapterFlag string
	var modelFlag string
	var patternFlag string
	var excludeFlag []string
	var pipelineFlag string
	var concurrencyFlag int
	var timeoutFlag time.Duration
	var outputFlag string
	var quietFlag bool

	cmd := &cobra.Command{
		Use:   "review [path]",
		Short: "Review files under a repository path",
		Long: `Runs the review pipeline over every matching file under the given path.

Files are processed independently: a failed review of one file never
stops the rest of the batch. The exit code is zero when the batch
completes, even if individual files failed; per-file failures are
reported inline.

Examples:
  # Review all Go files in the current repository with defaults
  reviewgate review . --pattern '*.go'

  # Use a specific provider and model
  reviewgate review ./service --adapter anthropic --model deep

  # Run a custom pipeline with four concurrent files and a deadline
  reviewgate review . --pipeline review.yaml --concurrency 4 --timeout 10m

  # Write a markdown report
  reviewgate review . --output review.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger := newLogger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeoutFlag > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeoutFlag)
				defer cancel()
			}

			pipeline, err := loadPipeline(pipelineFlag)
			if err != nil {
				return err
			}

			targetAdapter, model, err := selectAdapter(cfg, adapterFlag, modelFlag)
			if err != nil {
				return err
			}

			tel := telemetry.Noop()
			if !quietFlag {
				provider, err := telemetry.Init(ctx, os.Stderr)
				if err != nil {
					return fmt.Errorf("failed to init telemetry: %w", err)
				}
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := provider.Shutdown(shutdownCtx); err != nil {
						logger.Warn("telemetry shutdown failed", "error", err)
					}
				}()
				tel = provider.Telemetry
			}

			executor, err := review.NewExecutor(pipeline, targetAdapter, model,
				review.WithTelemetry(tel),
				review.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			excludes := append(append([]string(nil), cfg.Excludes...), excludeFlag...)
			items, err := source.Discover(root, patternFlag, excludes)
			if err != nil {
				return fmt.Errorf("failed to discover inputs: %w", err)
			}

			runner, err := review.NewRunner(executor, &source.FileLoader{Root: root},
				review.WithBatchLogger(logger),
				review.WithConcurrency(concurrencyFlag),
			)
			if err != nil {
				return err
			}

			outcome, runErr := runner.Run(ctx, items)
			if errors.Is(runErr, review.ErrNoInput) {
				return fmt.Errorf("no files found under %s matching %q", root, patternFlag)
			}

			printOutcome(outcome)

			if outputFlag != "" {
				if err := writeReport(outputFlag, outcome); err != nil {
					return err
				}
			}

			if runErr != nil {
				return fmt.Errorf("batch interrupted: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&adapterFlag, "adapter", "a", "", "provider adapter (anthropic, openai, google, deepseek, mock)")
	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "model name or alias")
	cmd.Flags().StringVarP(&patternFlag, "pattern", "p", "", "file name pattern, e.g. '*.go' (default: all files)")
	cmd.Flags().StringSliceVar(&excludeFlag, "exclude", nil, "additional directory names to skip")
	cmd.Flags().StringVarP(&pipelineFlag, "pipeline", "f", "", "pipeline manifest path (default: built-in review pipeline)")
	cmd.Flags().IntVar(&concurrencyFlag, "concurrency", 1, "number of files reviewed at once")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "deadline for the whole batch (0 disables)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write a markdown report to this file ('-' for stdout)")
	cmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable telemetry export")

	return cmd
}

func stagesCmd() *cobra.Command {
	var pipelineFlag string

	cmd := &cobra.Command{
		Use:   "stages",
		Short: "List the stages of the review pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := loadPipeline(pipelineFlag)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ORDER\tSTAGE")
			for i, stage := range pipeline.Stages() {
				fmt.Fprintf(w, "%d\t%s\n", i+1, stage.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&pipelineFlag, "pipeline", "f", "", "pipeline manifest path (default: built-in review pipeline)")

	return cmd
}

func modelsCmd() *cobra.Command {
	var resolveFlag bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available adapters, models, and aliases",
		Long: `Lists adapters and their available models.

Use --resolve to show aliases and what they resolve to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if resolveFlag {
				return showAliases()
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODELS\tSTATUS")

			providers := aliases.ListProviders()
			if len(providers) == 0 {
				providers = []string{"anthropic", "deepseek", "google", "openai"}
			}

			for _, provider := range providers {
				models := formatList(aliases.GetProviderModels(provider))
				status := "no key"
				if cfg.HasAdapter(provider) {
					status = "ready"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", provider, models, status)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&resolveFlag, "resolve", false, "show aliases and what they resolve to")

	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [pipeline.yaml]",
		Short: "Validate a pipeline manifest",
		Long:  "Validates pipeline YAML without executing.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := review.LoadManifest(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Pipeline manifest is valid: %s (%d stages).\n", pipeline.Name(), pipeline.Len())
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the reviewgate version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("reviewgate", version)
		},
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	aliases = config.LoadAliasesWithFallback()

	return cfg, nil
}

func loadPipeline(path string) (*review.Pipeline, error) {
	if path == "" {
		return review.DefaultPipeline(), nil
	}
	return review.LoadManifest(path)
}

// selectAdapter picks the provider and model from flags, config defaults,
// and the adapter's own model list, in that order.
func selectAdapter(cfg *config.Config, adapterName, model string) (adapter.Adapter, string, error) {
	adapters, err := createAdapters(cfg)
	if err != nil {
		return nil, "", err
	}

	if adapterName == "" {
		adapterName = cfg.DefaultAdapter
	}
	if adapterName == "" {
		adapterName = "mock"
	}
	target, ok := adapters[adapterName]
	if !ok {
		return nil, "", fmt.Errorf("adapter %q not available (missing API key?)", adapterName)
	}

	if model == "" {
		model = cfg.DefaultModel
	}
	if model != "" && aliases != nil {
		model = aliases.Resolve(model)
	}

	return target, model, nil
}

func createAdapters(cfg *config.Config) (map[string]adapter.Adapter, error) {
	adapters := make(map[string]adapter.Adapter)

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic adapter: %w", err)
		}
		adapters["anthropic"] = a
	}

	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai adapter: %w", err)
		}
		adapters["openai"] = a
	}

	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create google adapter: %w", err)
		}
		adapters["google"] = a
	}

	if cfg.DeepSeekAPIKey != "" {
		a, err := adapter.NewDeepSeekAdapter(cfg.DeepSeekAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create deepseek adapter: %w", err)
		}
		adapters["deepseek"] = a
	}

	adapters["mock"] = adapter.NewMockAdapter()

	return adapters, nil
}

func printOutcome(outcome review.BatchOutcome) {
	for _, run := range outcome {
		if run.Failed {
			reason := "unknown failure"
			if run.Err != nil {
				reason = run.Err.Error()
			}
			fmt.Fprintf(os.Stderr, "review failed for %s: %s\n", run.Item, reason)
			continue
		}
		fmt.Printf("reviewed %s (%d stages)\n", run.Item, len(run.Stages))
	}
}

func writeReport(path string, outcome review.BatchOutcome) error {
	if path == "-" {
		return report.WriteMarkdown(os.Stdout, outcome)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := report.WriteMarkdown(f, outcome); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func showAliases() error {
	if aliases == nil {
		fmt.Println("No model aliases configured.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALIAS\tMODEL\tPROVIDER")

	aliasMap := aliases.ListAliases()
	var aliasNames []string
	for name := range aliasMap {
		aliasNames = append(aliasNames, name)
	}
	sort.Strings(aliasNames)

	for _, alias := range aliasNames {
		model := aliasMap[alias]
		provider := aliases.GetProviderForModel(model)
		fmt.Fprintf(w, "%s\t%s\t%s\n", alias, model, provider)
	}

	return w.Flush()
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	result := items[0]
	for i := 1; i < len(items); i++ {
		result += ", " + items[i]
	}
	return result
}
