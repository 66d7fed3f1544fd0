// Command textsummary summarizes documents, scores summaries against a
// reference and serves both as MCP tools.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/localrivet/textsummary"
	"github.com/localrivet/textsummary/internal/config"
	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	verbose     bool
	showMetrics bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "textsummary",
	Short: "Extractive and abstractive text summarization with ROUGE and BLEU scoring",
	Long: `textsummary condenses a document into its most representative sentences.

Available commands:
  summarize  - Summarize a document with one method
  evaluate   - Score a candidate summary against a reference
  benchmark  - Run every method on a document and score the results
  methods    - List the summarization methods and their availability
  serve      - Expose the service as MCP tools over stdio
  results    - Show a saved results document
  history    - Show the latest stored result of every method
  health     - Report the health of the summarization engine
  init       - Write a default configuration file`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigFilename, "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print collected metrics to stderr on exit")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the service with the resources the commands must release.
type app struct {
	service *textsummary.Service
	config  *config.Config
	logger  *slog.Logger
	closer  io.Closer
}

func (a *app) Close() {
	if showMetrics {
		fmt.Fprint(os.Stderr, a.service.Metrics().GetReport())
	}
	if err := a.closer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
}

// newApp loads the configuration, sets up logging and builds the service.
// Logs go to stderr so command output on stdout stays machine readable.
func newApp() (*app, error) {
	cfg, err := config.InitGlobal(configPath)
	if err != nil {
		return nil, errortypes.ConfigError(err, "failed to load configuration")
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.Logging.Level)
	logCfg.Format = logger.ParseFormat(cfg.Logging.Format)
	logCfg.File = cfg.Logging.File
	if verbose {
		logCfg.Level = slog.LevelDebug
	}
	log, closer := logger.New(logCfg)
	slog.SetDefault(log)
	log.Debug("Configuration loaded", "path", cfg.GetConfigPath())

	service, err := textsummary.NewService(textsummary.ServiceOptions{
		Config: cfg,
		Logger: log,
	})
	if err != nil {
		closer.Close()
		return nil, err
	}

	return &app{
		service: service,
		config:  cfg,
		logger:  logger.Component(log, "cli"),
		closer:  closer,
	}, nil
}
