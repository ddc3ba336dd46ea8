package providers

import (
	"fmt"
	"time"

	"weathersub.app/config"
	"weathersub.app/metrics"
	"weathersub.app/models"
	"weathersub.app/providers/cache"
)

// Manager assembles the configured weather providers into a fallback
// chain, optionally fronted by a shared cache. It satisfies
// WeatherProvider so services stay unaware of the chain.
type Manager struct {
	chain WeatherProviderChain
}

// NewManager builds the provider chain from configuration
func NewManager(weatherConfig *config.WeatherConfig, cacheConfig *config.CacheConfig) (*Manager, error) {
	builder := NewChainBuilder()

	primary := NewWeatherAPIProvider(weatherConfig)
	builder.AddHandler(NewBaseWeatherHandler(primary, "WeatherAPI"))

	if weatherConfig.OpenWeatherMapKey != "" {
		fallback := NewOpenWeatherMapProvider(weatherConfig.OpenWeatherMapKey)
		builder.AddHandler(NewBaseWeatherHandler(fallback, "OpenWeatherMap"))
	}

	chain := builder.Build()
	if chain == nil {
		return nil, fmt.Errorf("no weather providers configured")
	}

	if weatherConfig.EnableCache {
		backend, err := newCacheBackend(cacheConfig)
		if err != nil {
			return nil, fmt.Errorf("create cache backend: %w", err)
		}
		ttl := time.Duration(weatherConfig.CacheTTLMinutes) * time.Minute
		chain = NewWeatherChainCacheProxy(chain, backend, ttl, metrics.NewCacheMetrics(cacheConfig.Type))
	}

	return &Manager{chain: chain}, nil
}

func newCacheBackend(cacheConfig *config.CacheConfig) (Cache, error) {
	switch cacheConfig.Type {
	case config.CacheTypeRedis:
		return cache.NewRedisCache(&cache.RedisCacheConfig{
			Addr:         cacheConfig.RedisAddr,
			Password:     cacheConfig.RedisPassword,
			DB:           cacheConfig.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	default:
		return cache.NewMemoryCache(), nil
	}
}

// GetCurrentWeather resolves weather through the chain
func (m *Manager) GetCurrentWeather(city string) (*models.WeatherResponse, error) {
	return m.chain.Handle(city)
}

// ProviderName reports the active chain head, used for diagnostics
func (m *Manager) ProviderName() string {
	return m.chain.GetProviderName()
}
