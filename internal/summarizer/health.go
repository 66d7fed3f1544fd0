package summarizer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/localrivet/textsummary/internal/telemetry"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	// StatusHealthy indicates a component is fully operational
	StatusHealthy HealthStatus = "healthy"

	// StatusDegraded indicates a component is operational but with reduced capability
	StatusDegraded HealthStatus = "degraded"

	// StatusUnhealthy indicates a component is not operational
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthReport describes the state of the summarization engine.
type HealthReport struct {
	Status        HealthStatus       `json:"status"`
	Timestamp     time.Time          `json:"timestamp"`
	Methods       map[string]bool    `json:"methods"`
	Loaded        []string           `json:"loaded"`
	ModelService  string             `json:"model_service,omitempty"`
	ResponseTimes map[string]float64 `json:"response_times_ms"`
	CacheStats    map[string]int64   `json:"cache_stats"`
	SuccessRate   float64            `json:"success_rate"`
	TotalRequests int64              `json:"total_requests"`
	// LastRequest is the time since the most recent summarization request,
	// zero when there has been none.
	LastRequest time.Duration `json:"last_request_ago"`
	Version     string        `json:"version"`
}

// CreateHealthReport generates a health report for the registry. Status is
// degraded when external methods are unavailable or the model service has
// failed, and unhealthy when every summarization request has failed.
func CreateHealthReport(registry *Registry, metrics *telemetry.MetricsCollector, version string) (*HealthReport, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if metrics == nil {
		return nil, fmt.Errorf("metrics collector is nil")
	}

	availability := make(map[string]bool)
	responseTimes := map[string]float64{
		"total":     float64(metrics.GetTimerAverage(telemetry.MetricSummarizeLatency)) / float64(time.Millisecond),
		"total_p95": float64(metrics.GetTimerP95(telemetry.MetricSummarizeLatency)) / float64(time.Millisecond),
	}
	allAvailable := true
	for _, info := range Methods() {
		ok := registry.Available(info)
		availability[info.Name] = ok
		if !ok {
			allAvailable = false
		}
		avg := metrics.GetTimerAverage(telemetry.MethodMetric(telemetry.MetricSummarizeLatency, info.Name))
		responseTimes[info.Name] = float64(avg) / float64(time.Millisecond)
	}

	totalRequests := metrics.GetCounter(telemetry.MetricSummarizeCalls)
	failures := metrics.GetCounter(telemetry.MetricSummarizeFailures)

	var successRate float64
	if totalRequests > 0 {
		successRate = float64(totalRequests-failures) / float64(totalRequests) * 100.0
	}

	status := StatusHealthy
	switch {
	case totalRequests > 0 && failures == totalRequests:
		status = StatusUnhealthy
	case !allAvailable || metrics.GetCounter(telemetry.MetricModelFailures) > 0:
		status = StatusDegraded
	}

	var modelService string
	if svc := registry.ModelService(); svc != nil {
		modelService = svc.Name()
	}

	return &HealthReport{
		Status:        status,
		Timestamp:     time.Now(),
		Methods:       availability,
		Loaded:        registry.Loaded(),
		ModelService:  modelService,
		ResponseTimes: responseTimes,
		CacheStats: map[string]int64{
			"registry_hits":   metrics.GetCounter(telemetry.MetricRegistryHits),
			"registry_misses": metrics.GetCounter(telemetry.MetricRegistryMisses),
			"model_hits":      metrics.GetCounter(telemetry.MetricModelCacheHits),
			"model_misses":    metrics.GetCounter(telemetry.MetricModelCacheMisses),
		},
		SuccessRate:   successRate,
		TotalRequests: totalRequests,
		LastRequest:   metrics.GetTimeSince(telemetry.MetricLastSummarize),
		Version:       version,
	}, nil
}

// CreateHealthReportJSON generates an indented JSON health report
func CreateHealthReportJSON(registry *Registry, metrics *telemetry.MetricsCollector, version string) (string, error) {
	report, err := CreateHealthReport(registry, metrics, version)
	if err != nil {
		return "", err
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal health report: %w", err)
	}

	return string(reportJSON), nil
}
