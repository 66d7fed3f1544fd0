package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/localrivet/textsummary"
	"github.com/localrivet/textsummary/internal/config"
	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/resultstore"
	"github.com/localrivet/textsummary/internal/summarizer"
	"github.com/spf13/cobra"
)

var (
	inputFile    string
	method       string
	numSentences int
	maxLength    int
	minLength    int
	jsonOutput   bool

	candidateFile string
	referenceFile string

	benchMethods []string
	outputPath   string
	noStore      bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [text]",
	Short: "Summarize a document",
	Long: `Summarize a document with one method. The text is taken from the
argument, from --file, or from stdin when neither is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		text, err := readInput(cmd.InOrStdin(), args, inputFile)
		if err != nil {
			return err
		}

		m := method
		if m == "" {
			m = a.config.Summarizer.Method
		}
		n := numSentences
		if n == 0 {
			n = a.config.Summarizer.NumSentences
		}

		ctx, stop := signalContext()
		defer stop()

		summary, err := a.service.Summarize(ctx, textsummary.Request{
			Text:    text,
			Method:  m,
			Options: summarizer.OptionsFromInput(n, maxLength, minLength),
		})
		if err != nil {
			errortypes.LogError(a.logger, err)
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, map[string]any{"method": m, "summary": summary})
		}
		for _, sentence := range summary {
			fmt.Fprintln(out, sentence)
		}
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate --candidate FILE --reference FILE",
	Short: "Score a candidate summary against a reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		candidate, err := readFile(candidateFile)
		if err != nil {
			return err
		}
		reference, err := readFile(referenceFile)
		if err != nil {
			return err
		}

		m := a.service.Evaluate(candidate, reference)
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, m)
		}
		fmt.Fprintf(out, "Status:  %s\n", m.Status)
		if m.Message != "" {
			fmt.Fprintf(out, "Message: %s\n", m.Message)
		}
		if scores := m.Scores(); scores != nil {
			fmt.Fprintf(out, "ROUGE-1: %.4f\nROUGE-2: %.4f\nROUGE-L: %.4f\nBLEU:    %.4f\n",
				m.ROUGE1, m.ROUGE2, m.ROUGEL, m.BLEU)
		}
		return nil
	},
}

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Run every method on a document and score the results",
	Long: `Run the summarization methods concurrently on a document, score each
summary against a reference and save the results. Without --file the built-in
solar eclipse sample and its reference are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		text, reference, source := textsummary.SampleText, textsummary.SampleReference, "sample"
		if inputFile != "" {
			if referenceFile == "" {
				return errortypes.ValidationError(errors.New("missing reference"), "--reference is required with --file")
			}
			if text, err = readFile(inputFile); err != nil {
				return err
			}
			if reference, err = readFile(referenceFile); err != nil {
				return err
			}
			source = inputFile
		}

		plans, err := selectPlans(benchMethods)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		report, err := a.service.Benchmark(ctx, text, reference, plans)
		if err != nil {
			return err
		}

		if !noStore {
			store := resultstore.NewSQLiteStore()
			if err := store.Initialize(a.config.Store.SQLitePath); err != nil {
				return err
			}
			defer store.Close()
			if _, err := a.service.SaveBenchmark(store, report, source); err != nil {
				return err
			}
		}

		path := outputPath
		if path == "" {
			path = a.config.Store.ResultsPath
		}
		if err := resultstore.WriteDocument(path, report); err != nil {
			return errortypes.InternalError(err, "failed to write results").WithField("path", path)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, textsummary.FormatBenchmark(report))
		fmt.Fprintf(out, "Results saved to %s\n", path)
		return nil
	},
}

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the summarization methods and their availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, a.service.Methods())
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tALIASES\tFAMILY\tAVAILABLE\tDESCRIPTION")
		for _, m := range a.service.Methods() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", m.Name, strings.Join(m.Aliases, ","), m.Family, m.Available, m.Description)
		}
		return w.Flush()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the service as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.logger.Info("Starting MCP server", "version", textsummary.Version)
		return a.service.Serve()
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results [path]",
	Short: "Show a saved results document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			cfg, err := config.InitGlobal(configPath)
			if err != nil {
				return errortypes.ConfigError(err, "failed to load configuration")
			}
			path = cfg.Store.ResultsPath
		}

		var report textsummary.BenchmarkReport
		if err := resultstore.ReadDocument(path, &report); err != nil {
			return errortypes.ValidationError(err, "cannot read results document "+path)
		}
		report.Order = sortedMethods(report.Results)
		fmt.Fprint(cmd.OutOrStdout(), textsummary.FormatBenchmark(&report))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the latest stored result of every method",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		store := resultstore.NewSQLiteStore()
		if err := store.Initialize(a.config.Store.SQLitePath); err != nil {
			return err
		}
		defer store.Close()

		latest, err := store.Latest()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, latest)
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tSTATUS\tROUGE-1\tBLEU\tRUN\tCREATED")
		for _, r := range latest {
			fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%s\t%s\n", r.Method, r.EvaluationStatus,
				r.Metrics["rouge1"], r.Metrics["bleu"], r.RunID, r.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report the health of the summarization engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.service.HealthJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil {
			return errortypes.ValidationError(os.ErrExist, configPath+" already exists")
		}
		if err := config.NewConfig().SaveToFile(configPath); err != nil {
			return errortypes.ConfigError(err, "failed to write configuration")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "textsummary %s (%s %s/%s)\n",
			textsummary.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the document from a file")
	summarizeCmd.Flags().StringVarP(&method, "method", "m", "", "method identifier or alias (default from config)")
	summarizeCmd.Flags().IntVarP(&numSentences, "sentences", "n", 0, "number of sentences for ranking methods (default from config)")
	summarizeCmd.Flags().IntVar(&maxLength, "max-length", 0, "maximum summary length in words for generation methods")
	summarizeCmd.Flags().IntVar(&minLength, "min-length", 0, "minimum summary length in words for generation methods")
	summarizeCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")

	evaluateCmd.Flags().StringVar(&candidateFile, "candidate", "", "file holding the candidate summary")
	evaluateCmd.Flags().StringVar(&referenceFile, "reference", "", "file holding the reference summary")
	evaluateCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	evaluateCmd.MarkFlagRequired("candidate")
	evaluateCmd.MarkFlagRequired("reference")

	benchmarkCmd.Flags().StringVarP(&inputFile, "file", "f", "", "document to benchmark (default: built-in sample)")
	benchmarkCmd.Flags().StringVar(&referenceFile, "reference", "", "reference summary file, required with --file")
	benchmarkCmd.Flags().StringSliceVar(&benchMethods, "methods", nil, "methods to run (default: all)")
	benchmarkCmd.Flags().StringVarP(&outputPath, "output", "o", "", "results document, .json or .yaml (default from config)")
	benchmarkCmd.Flags().BoolVar(&noStore, "no-store", false, "do not record the run in the SQLite store")

	methodsCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	historyCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
}

// selectPlans returns the default plans, narrowed to names when given.
func selectPlans(names []string) ([]textsummary.BenchmarkPlan, error) {
	all := textsummary.DefaultBenchmarkPlans()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]textsummary.BenchmarkPlan, len(all))
	for _, p := range all {
		byName[p.Method] = p
	}
	var plans []textsummary.BenchmarkPlan
	for _, name := range names {
		info, err := summarizer.Lookup(name)
		if err != nil {
			return nil, err
		}
		plans = append(plans, byName[info.Name])
	}
	return plans, nil
}

func sortedMethods(results map[string]resultstore.Record) []string {
	methods := make([]string, 0, len(results))
	for m := range results {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

func readInput(stdin io.Reader, args []string, path string) (string, error) {
	switch {
	case len(args) > 0:
		return args[0], nil
	case path != "":
		return readFile(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", errortypes.InternalError(err, "failed to read stdin")
	}
	return string(data), nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errortypes.ValidationError(err, "cannot read "+path)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
