package providers

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/localrivet/textsummary/internal/telemetry"
	"github.com/localrivet/textsummary/internal/util"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// CacheOptions configures a CachedService.
type CacheOptions struct {
	// TTL is how long responses are kept. Defaults to DefaultCacheTTL.
	TTL time.Duration
	// RequestsPerSecond limits calls reaching the wrapped service. Zero disables limiting.
	RequestsPerSecond float64
	// Burst is the limiter burst size. Defaults to 1.
	Burst   int
	Metrics *telemetry.MetricsCollector
	Logger  *slog.Logger
}

// CachedService wraps a ModelService with response memoization and rate
// limiting. Cache keys are SHA-256 hashes of the request inputs.
type CachedService struct {
	inner   ModelService
	cache   *gocache.Cache
	limiter *rate.Limiter
	metrics *telemetry.MetricsCollector
	logger  *slog.Logger
}

// NewCachedService wraps inner.
func NewCachedService(inner ModelService, opts CacheOptions) *CachedService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetricsCollector()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &CachedService{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		limiter: limiter,
		metrics: metrics,
		logger:  logger.With("provider", inner.Name()),
	}
}

// Name returns the wrapped provider name
func (s *CachedService) Name() string {
	return s.inner.Name()
}

// GenerateSummary returns a cached summary or calls the wrapped service.
func (s *CachedService) GenerateSummary(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	key := util.ContentHash("generate", s.inner.Name(), strconv.Itoa(maxLength), strconv.Itoa(minLength), text)
	if v, ok := s.cache.Get(key); ok {
		s.metrics.IncrementCounter(telemetry.MetricModelCacheHits, 1)
		return v.(string), nil
	}
	s.metrics.IncrementCounter(telemetry.MetricModelCacheMisses, 1)

	if err := s.wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	summary, err := s.inner.GenerateSummary(ctx, text, maxLength, minLength)
	s.record(start, err)
	if err != nil {
		return "", err
	}

	s.cache.SetDefault(key, summary)
	return summary, nil
}

// EmbedSentences returns cached embeddings or calls the wrapped service.
func (s *CachedService) EmbedSentences(ctx context.Context, sentences []string) ([][]float32, error) {
	key := util.ContentHash(append([]string{"embed", s.inner.Name()}, sentences...)...)
	if v, ok := s.cache.Get(key); ok {
		s.metrics.IncrementCounter(telemetry.MetricModelCacheHits, 1)
		return v.([][]float32), nil
	}
	s.metrics.IncrementCounter(telemetry.MetricModelCacheMisses, 1)

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	embeddings, err := s.inner.EmbedSentences(ctx, sentences)
	s.record(start, err)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, embeddings)
	return embeddings, nil
}

// ItemCount returns the number of cached responses.
func (s *CachedService) ItemCount() int {
	return s.cache.ItemCount()
}

func (s *CachedService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

func (s *CachedService) record(start time.Time, err error) {
	s.metrics.IncrementCounter(telemetry.MetricModelCalls, 1)
	s.metrics.RecordTimer(telemetry.MethodMetric(telemetry.MetricModelResponseTime, s.inner.Name()), time.Since(start))
	if err != nil {
		s.metrics.IncrementCounter(telemetry.MetricModelFailures, 1)
		s.logger.Warn("Model service call failed", "error", err)
	}
}
