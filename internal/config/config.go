package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/localrivet/configurator"
)

// Global configuration instance
var (
	// Global is the global configuration instance
	Global *Config
	// initOnce ensures initialization happens only once
	initOnce sync.Once
)

// InitGlobal initializes the global configuration
func InitGlobal(configPath string) (*Config, error) {
	var err error
	initOnce.Do(func() {
		Global, err = LoadConfigWithPath(configPath)
	})
	return Global, err
}

// Config represents the textsummary configuration
type Config struct {
	// Language selects the stopword set and sentence-boundary model.
	Language string `json:"language" env:"LANGUAGE" validate:"required"`

	// Summarizer contains ranking-related configuration.
	Summarizer struct {
		// Method is the default method identifier used when a request names none.
		Method string `json:"method" env:"SUMMARIZER_METHOD"`

		// NumSentences is the default summary length for ranking methods.
		NumSentences int `json:"num_sentences" env:"SUMMARIZER_NUM_SENTENCES" validate:"min:1"`

		// Damping is the graph-centrality damping factor.
		Damping float64 `json:"damping" env:"SUMMARIZER_DAMPING"`

		// Tolerance is the graph-centrality convergence tolerance.
		Tolerance float64 `json:"tolerance" env:"SUMMARIZER_TOLERANCE"`

		// MaxIterations bounds the graph-centrality power iteration.
		MaxIterations int `json:"max_iterations" env:"SUMMARIZER_MAX_ITERATIONS"`

		// StopwordsFile optionally extends the built-in stopword set, one word per line.
		StopwordsFile string `json:"stopwords_file" env:"SUMMARIZER_STOPWORDS_FILE"`
	} `json:"summarizer"`

	// Model configures the external model service used by delegated methods.
	Model struct {
		// Provider is "openai", "ollama", "mock" or empty for none.
		Provider string `json:"provider" env:"MODEL_PROVIDER"`

		// ModelID is the generation model.
		ModelID string `json:"model_id" env:"MODEL_ID"`

		// EmbeddingModel is the sentence embedding model.
		EmbeddingModel string `json:"embedding_model" env:"MODEL_EMBEDDING_MODEL"`

		// ApiKey is the API key for the provider.
		ApiKey string `json:"api_key" env:"MODEL_API_KEY"`

		// BaseURL overrides the provider endpoint.
		BaseURL string `json:"base_url" env:"MODEL_BASE_URL"`

		// RequestsPerSecond limits outgoing model calls; 0 disables limiting.
		RequestsPerSecond float64 `json:"requests_per_second" env:"MODEL_REQUESTS_PER_SECOND"`

		// CacheTTL is how long model responses are memoized.
		CacheTTL time.Duration `json:"cache_ttl" env:"MODEL_CACHE_TTL"`

		// Timeout bounds a single model call.
		Timeout time.Duration `json:"timeout" env:"MODEL_TIMEOUT"`
	} `json:"model"`

	// Store contains result persistence configuration.
	Store struct {
		// SQLitePath is the path to the SQLite database holding benchmark runs.
		SQLitePath string `json:"sqlite_path" env:"SQLITE_PATH"`

		// ResultsPath is where benchmark result documents are written (.json or .yaml).
		ResultsPath string `json:"results_path" env:"RESULTS_PATH"`
	} `json:"store"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`

		// File, when set, writes logs to a rotating file.
		File string `json:"file" env:"LOG_FILE"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath     string       `json:"-"`
	mutex          sync.RWMutex `json:"-"`
	lastModifiedAt time.Time    `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".textsummaryconfig"
	DefaultLanguage       = "english"
	DefaultMethod         = "frequency"
	DefaultNumSentences   = 3
	DefaultDamping        = 0.85
	DefaultTolerance      = 1e-6
	DefaultMaxIterations  = 100
	DefaultSQLitePath     = ".textsummary.db"
	DefaultResultsPath    = "evaluation_results.json"
	DefaultCacheTTL       = 24 * time.Hour
	DefaultModelTimeout   = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.Language = DefaultLanguage
	config.Summarizer.Method = DefaultMethod
	config.Summarizer.NumSentences = DefaultNumSentences
	config.Summarizer.Damping = DefaultDamping
	config.Summarizer.Tolerance = DefaultTolerance
	config.Summarizer.MaxIterations = DefaultMaxIterations
	config.Model.CacheTTL = DefaultCacheTTL
	config.Model.Timeout = DefaultModelTimeout
	config.Store.SQLitePath = DefaultSQLitePath
	config.Store.ResultsPath = DefaultResultsPath
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path
func LoadConfigWithPath(configPath string) (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg := NewConfig()

	if configPath == "" {
		configPath = DefaultConfigFilename
	}

	// Try to find config file if path is default
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		stdLogger.Debug("Config file not found, using default configuration", "path", configPath)
		cfg.configPath = configPath
		cfg.lastModifiedAt = time.Now()
		return cfg, cfg.Validate()
	}

	stdLogger.Debug("Loading configuration", "path", configPath)

	config := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider()).
		WithProvider(configurator.NewFileProvider(configPath)).
		WithProvider(configurator.NewEnvProvider("TEXTSUMMARY")).
		WithValidator(configurator.NewDefaultValidator())

	ctx := context.Background()
	if err := config.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, cfg.Validate()
}

// Validate checks value ranges the struct tags cannot express.
func (c *Config) Validate() error {
	if c.Summarizer.NumSentences < 1 {
		return fmt.Errorf("summarizer.num_sentences must be at least 1, got %d", c.Summarizer.NumSentences)
	}
	if c.Summarizer.Damping <= 0 || c.Summarizer.Damping >= 1 {
		return fmt.Errorf("summarizer.damping must be in (0, 1), got %g", c.Summarizer.Damping)
	}
	if c.Summarizer.Tolerance <= 0 {
		return fmt.Errorf("summarizer.tolerance must be positive, got %g", c.Summarizer.Tolerance)
	}
	if c.Summarizer.MaxIterations < 1 {
		return fmt.Errorf("summarizer.max_iterations must be at least 1, got %d", c.Summarizer.MaxIterations)
	}
	if c.Model.RequestsPerSecond < 0 {
		return fmt.Errorf("model.requests_per_second must not be negative, got %g", c.Model.RequestsPerSecond)
	}
	return nil
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}
