// Package textsummary summarizes documents with extractive and abstractive
// methods and scores summaries against reference summaries.
package textsummary

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/localrivet/textsummary/internal/config"
	"github.com/localrivet/textsummary/internal/errortypes"
	"github.com/localrivet/textsummary/internal/evaluate"
	"github.com/localrivet/textsummary/internal/server"
	"github.com/localrivet/textsummary/internal/summarizer"
	"github.com/localrivet/textsummary/internal/summarizer/providers"
	"github.com/localrivet/textsummary/internal/telemetry"
	"github.com/localrivet/textsummary/internal/textproc"
)

// Version is reported by health checks and the CLI.
const Version = "0.1.0"

// Config represents the configuration for the textsummary service.
type Config = config.Config

// Request is one summarization call.
type Request = summarizer.Request

// Options carries the per-request settings of both method families.
type Options = summarizer.Options

// GenerationOptions bounds generated summaries, in words.
type GenerationOptions = summarizer.GenerationOptions

// Service summarizes and evaluates documents. It is safe for concurrent use.
type Service struct {
	config       *Config
	processor    *textproc.Processor
	registry     *summarizer.Registry
	evaluator    *evaluate.Evaluator
	modelService providers.ModelService
	metrics      *telemetry.MetricsCollector
	logger       *slog.Logger
}

// ServiceOptions defines the options for creating a new Service.
type ServiceOptions struct {
	Config     *Config // Pre-filled config. If nil, ConfigPath is used.
	ConfigPath string  // Path to config file. Used if Config is nil. If both are empty, DefaultConfig() is used.

	// ModelService backs the external methods. If nil, one is built from the
	// model section of the configuration, if any.
	ModelService providers.ModelService

	Metrics *telemetry.MetricsCollector // If nil, a new collector is created.
	Logger  *slog.Logger                // External logger. If nil, slog.Default() is used.
}

// NewService creates a Service with the given options.
func NewService(opts ServiceOptions) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var cfg *Config
	var err error

	if opts.Config != nil {
		cfg = opts.Config
	} else if opts.ConfigPath != "" {
		logger.Info("Loading configuration", "path", opts.ConfigPath)
		cfg, err = config.LoadConfigWithPath(opts.ConfigPath)
		if err != nil {
			logger.Error("Failed to load configuration from path", "path", opts.ConfigPath, "error", err)
			return nil, errortypes.ConfigError(err, "failed to load configuration from path: "+opts.ConfigPath)
		}
	} else {
		logger.Debug("No Config object or ConfigPath provided, using default configuration")
		cfg = DefaultConfig()
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetricsCollector()
	}

	processor, err := textproc.NewProcessor(textproc.Options{
		Language:      cfg.Language,
		StopwordsFile: cfg.Summarizer.StopwordsFile,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("Failed to create text processor", "language", cfg.Language, "error", err)
		return nil, err
	}

	modelService := opts.ModelService
	if modelService == nil {
		modelService, err = NewModelService(cfg, metrics, logger)
		if err != nil {
			logger.Error("Failed to create model service", "provider", cfg.Model.Provider, "error", err)
			return nil, err
		}
	}

	registry := summarizer.NewRegistry(summarizer.RegistryOptions{
		Graph: summarizer.GraphOptions{
			Damping:       cfg.Summarizer.Damping,
			Tolerance:     cfg.Summarizer.Tolerance,
			MaxIterations: cfg.Summarizer.MaxIterations,
		},
		ModelService: modelService,
		Metrics:      metrics,
		Logger:       logger,
	})

	evaluator := evaluate.New(evaluate.Options{
		Language: processor.Language(),
		Metrics:  metrics,
		Logger:   logger,
	})

	logger.Info("textsummary service initialized",
		"language", processor.Language(),
		"model_service", modelService != nil,
		"evaluation", evaluator.Available())

	return &Service{
		config:       cfg,
		processor:    processor,
		registry:     registry,
		evaluator:    evaluator,
		modelService: modelService,
		metrics:      metrics,
		logger:       logger,
	}, nil
}

// DefaultConfig returns the default configuration for the textsummary service.
func DefaultConfig() *Config {
	return config.NewConfig()
}

// NewModelService builds the model service named by cfg.Model.Provider,
// wrapped with caching and rate limiting. It returns nil when no provider is
// configured. An OpenAI provider without a configured key falls back to the
// OPENAI_API_KEY environment variable.
func NewModelService(cfg *Config, metrics *telemetry.MetricsCollector, logger *slog.Logger) (providers.ModelService, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Model.Provider))
	if provider == "" || provider == "none" {
		return nil, nil
	}

	apiKey := cfg.Model.ApiKey
	if apiKey == "" && provider == providers.ProviderOpenAI {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	factory := providers.NewServiceFactory(map[string]providers.Config{
		provider: {
			APIKey:         apiKey,
			ModelID:        cfg.Model.ModelID,
			EmbeddingModel: cfg.Model.EmbeddingModel,
			BaseURL:        cfg.Model.BaseURL,
			Timeout:        cfg.Model.Timeout,
		},
	}, providers.CacheOptions{
		TTL:               cfg.Model.CacheTTL,
		RequestsPerSecond: cfg.Model.RequestsPerSecond,
		Metrics:           metrics,
		Logger:            logger,
	})

	svc, err := factory.GetService(provider)
	if err != nil {
		return nil, errortypes.ConfigError(err, "failed to create model service").WithField("provider", provider)
	}
	return svc, nil
}

// Summarize runs the requested method over req.Text. The method may be a
// canonical identifier or an alias; options are validated for the method's
// family before any work is done.
func (s *Service) Summarize(ctx context.Context, req Request) (summary []string, err error) {
	start := time.Now()
	s.metrics.IncrementCounter(telemetry.MetricSummarizeCalls, 1)
	s.metrics.RecordTimestamp(telemetry.MetricLastSummarize)

	method := req.Method
	defer func() {
		s.metrics.Time(telemetry.MetricSummarizeLatency, start)
		s.metrics.Time(telemetry.MethodMetric(telemetry.MetricSummarizeLatency, method), start)
		s.metrics.IncrementCounter(telemetry.MethodMetric(telemetry.MetricSummarizeCalls, method), 1)
		if err != nil {
			s.metrics.IncrementCounter(telemetry.MetricSummarizeFailures, 1)
			s.metrics.IncrementCounter(telemetry.MethodMetric(telemetry.MetricSummarizeFailures, method), 1)
		}
	}()

	info, err := summarizer.Lookup(req.Method)
	if err != nil {
		method = "unknown"
		return nil, err
	}
	method = info.Name

	if err := req.Options.Validate(info.Family); err != nil {
		return nil, err
	}

	strategy, err := s.registry.Resolve(info.Name)
	if err != nil {
		return nil, err
	}

	doc := summarizer.Document{Text: req.Text}
	if info.Family == summarizer.FamilyRanking {
		doc.Sentences = s.processor.Collection(req.Text)
	}

	s.logger.Debug("Summarizing", "method", info.Name, "requested_as", req.Method, "sentences", len(doc.Sentences))
	summary, err = strategy.Summarize(ctx, doc, req.Options)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Evaluate scores candidate against reference. It never fails; see
// evaluate.Metrics.Status.
func (s *Service) Evaluate(candidate, reference string) evaluate.Metrics {
	return s.evaluator.Evaluate(candidate, reference)
}

// EvaluationAvailable reports whether Evaluate computes scores.
func (s *Service) EvaluationAvailable() bool {
	return s.evaluator.Available()
}

// Methods describes every known method and whether it can run with this
// service's configuration.
func (s *Service) Methods() []summarizer.MethodStatus {
	return s.registry.Statuses()
}

// Health reports the state of the summarization engine.
func (s *Service) Health() (*summarizer.HealthReport, error) {
	return summarizer.CreateHealthReport(s.registry, s.metrics, Version)
}

// HealthJSON reports the state of the summarization engine as indented JSON.
func (s *Service) HealthJSON() (string, error) {
	return summarizer.CreateHealthReportJSON(s.registry, s.metrics, Version)
}

// Metrics returns the collector recording this service's telemetry.
func (s *Service) Metrics() *telemetry.MetricsCollector {
	return s.metrics
}

// Config returns the configuration the service was built with.
func (s *Service) Config() *Config {
	return s.config
}

// Serve exposes the service as MCP tools on stdio and blocks until stdin is
// closed.
func (s *Service) Serve() error {
	toolServer := server.NewToolServer(s, s.logger)
	if err := toolServer.Initialize(); err != nil {
		s.logger.Error("Failed to initialize MCP tool server", "error", err)
		return errortypes.ConfigError(err, "failed to initialize MCP tool server")
	}
	defer toolServer.Stop()
	return toolServer.Start()
}
