package providers

import (
	"fmt"
	"strings"
)

// ServiceFactory creates model services from per-provider configuration.
type ServiceFactory struct {
	// ServiceConfigs stores configuration for each provider
	ServiceConfigs map[string]Config
	// Cache configures the wrapper applied to every created service.
	Cache CacheOptions
}

// NewServiceFactory creates a new service factory
func NewServiceFactory(configs map[string]Config, cache CacheOptions) *ServiceFactory {
	return &ServiceFactory{
		ServiceConfigs: configs,
		Cache:          cache,
	}
}

// GetService returns a cached, rate-limited service for the named provider.
// Providers without an explicit configuration use zero-value settings.
func (f *ServiceFactory) GetService(providerName string) (ModelService, error) {
	providerName = strings.ToLower(strings.TrimSpace(providerName))
	config := f.ServiceConfigs[providerName]

	var (
		svc ModelService
		err error
	)
	switch providerName {
	case ProviderOpenAI:
		svc, err = NewOpenAIService(config)
	case ProviderOllama:
		svc, err = NewOllamaService(config)
	case ProviderMock:
		svc = NewMockService(0)
	default:
		return nil, fmt.Errorf("unknown provider: %q", providerName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s service: %w", providerName, err)
	}

	return NewCachedService(svc, f.Cache), nil
}
