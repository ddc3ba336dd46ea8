package providers

import (
	"fmt"
	"log/slog"
	"time"

	"weathersub.app/metrics"
	"weathersub.app/models"
)

// WeatherChainCacheProxy fronts the provider chain with a shared cache.
// This cache persists across dispatch runs and HTTP requests; the
// dispatcher additionally keeps its own per-run city map.
type WeatherChainCacheProxy struct {
	realChain WeatherProviderChain
	cache     Cache
	cacheTTL  time.Duration
	metrics   *metrics.CacheMetrics
}

// NewWeatherChainCacheProxy creates a caching proxy for the provider chain
func NewWeatherChainCacheProxy(realChain WeatherProviderChain, cache Cache, cacheTTL time.Duration, cacheMetrics *metrics.CacheMetrics) *WeatherChainCacheProxy {
	return &WeatherChainCacheProxy{
		realChain: realChain,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   cacheMetrics,
	}
}

// Handle serves from cache when possible and populates it on a miss
func (p *WeatherChainCacheProxy) Handle(city string) (*models.WeatherResponse, error) {
	cacheKey := p.generateCacheKey(city)

	if cachedResponse, found := p.cache.Get(cacheKey); found {
		p.metrics.RecordHit()
		slog.Debug("weather cache hit", "city", city)
		return cachedResponse, nil
	}

	p.metrics.RecordMiss()
	slog.Debug("weather cache miss", "city", city)

	response, err := p.realChain.Handle(city)
	if err != nil {
		return nil, err
	}

	p.cache.Set(cacheKey, response, p.cacheTTL)

	return response, nil
}

// SetNext delegates to the real chain
func (p *WeatherChainCacheProxy) SetNext(handler WeatherProviderChain) {
	p.realChain.SetNext(handler)
}

// GetProviderName returns a descriptive name for the cached chain
func (p *WeatherChainCacheProxy) GetProviderName() string {
	return fmt.Sprintf("Cached(%s)", p.realChain.GetProviderName())
}

func (p *WeatherChainCacheProxy) generateCacheKey(city string) string {
	return fmt.Sprintf("weather:%s", city)
}
