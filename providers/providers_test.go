package providers

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weathersub.app/config"
	apperrors "weathersub.app/errors"
	"weathersub.app/metrics"
	"weathersub.app/models"
	"weathersub.app/providers/cache"
)

func assertErrorType(t *testing.T, err error, expected apperrors.ErrorType) {
	t.Helper()

	var appErr *apperrors.AppError
	require.True(t, stderrors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, expected, appErr.Type)
}

func TestWeatherAPIProvider(t *testing.T) {
	t.Run("ParsesCurrentConditions", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/current.json", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			assert.Equal(t, "Kyiv", r.URL.Query().Get("q"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"current":{"temp_c":21.5,"humidity":64,"condition":{"text":"Partly cloudy"}}}`))
		}))
		defer server.Close()

		provider := NewWeatherAPIProvider(&config.WeatherConfig{APIKey: "test-key", BaseURL: server.URL})
		weather, err := provider.GetCurrentWeather("Kyiv")

		require.NoError(t, err)
		assert.Equal(t, 21.5, weather.Temperature)
		assert.Equal(t, 64.0, weather.Humidity)
		assert.Equal(t, "Partly cloudy", weather.Description)
	})

	t.Run("UnknownCityIsNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
		}))
		defer server.Close()

		provider := NewWeatherAPIProvider(&config.WeatherConfig{APIKey: "test-key", BaseURL: server.URL})
		_, err := provider.GetCurrentWeather("Atlantis")

		assertErrorType(t, err, apperrors.NotFoundError)
	})

	t.Run("ServerErrorIsExternalAPIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		provider := NewWeatherAPIProvider(&config.WeatherConfig{APIKey: "test-key", BaseURL: server.URL})
		_, err := provider.GetCurrentWeather("Kyiv")

		assertErrorType(t, err, apperrors.ExternalAPIError)
	})

	t.Run("EmptyCityRejected", func(t *testing.T) {
		provider := NewWeatherAPIProvider(&config.WeatherConfig{APIKey: "test-key", BaseURL: "http://unused"})
		_, err := provider.GetCurrentWeather("")

		assertErrorType(t, err, apperrors.ValidationError)
	})

	t.Run("CityNameIsQueryEscaped", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			_, _ = w.Write([]byte(`{"current":{"temp_c":10,"humidity":50,"condition":{"text":"Cloudy"}}}`))
		}))
		defer server.Close()

		provider := NewWeatherAPIProvider(&config.WeatherConfig{APIKey: "test-key", BaseURL: server.URL})
		_, err := provider.GetCurrentWeather("New York")

		require.NoError(t, err)
		assert.Equal(t, "New York", gotQuery)
	})
}

func TestOpenWeatherMapProvider(t *testing.T) {
	t.Run("ParsesCurrentConditions", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Lviv", r.URL.Query().Get("q"))
			assert.Equal(t, "owm-key", r.URL.Query().Get("appid"))
			assert.Equal(t, "metric", r.URL.Query().Get("units"))
			_, _ = w.Write([]byte(`{"main":{"temp":18.2,"humidity":70},"weather":[{"description":"light rain"}]}`))
		}))
		defer server.Close()

		provider := NewOpenWeatherMapProviderWithBaseURL("owm-key", server.URL)
		weather, err := provider.GetCurrentWeather("Lviv")

		require.NoError(t, err)
		assert.Equal(t, 18.2, weather.Temperature)
		assert.Equal(t, 70.0, weather.Humidity)
		assert.Equal(t, "light rain", weather.Description)
	})

	t.Run("UnknownCityIsNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		}))
		defer server.Close()

		provider := NewOpenWeatherMapProviderWithBaseURL("owm-key", server.URL)
		_, err := provider.GetCurrentWeather("Atlantis")

		assertErrorType(t, err, apperrors.NotFoundError)
	})

	t.Run("EmptyWeatherArrayYieldsEmptyDescription", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"main":{"temp":5,"humidity":90},"weather":[]}`))
		}))
		defer server.Close()

		provider := NewOpenWeatherMapProviderWithBaseURL("owm-key", server.URL)
		weather, err := provider.GetCurrentWeather("Lviv")

		require.NoError(t, err)
		assert.Empty(t, weather.Description)
	})
}

type stubProvider struct {
	mu       sync.Mutex
	response *models.WeatherResponse
	err      error
	calls    int
}

func (p *stubProvider) GetCurrentWeather(city string) (*models.WeatherResponse, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return p.response, p.err
}

func TestWeatherProviderChain(t *testing.T) {
	t.Run("PrimarySucceeds", func(t *testing.T) {
		primary := &stubProvider{response: &models.WeatherResponse{Temperature: 20}}
		fallback := &stubProvider{response: &models.WeatherResponse{Temperature: 99}}

		chain := NewChainBuilder().
			AddHandler(NewBaseWeatherHandler(primary, "primary")).
			AddHandler(NewBaseWeatherHandler(fallback, "fallback")).
			Build()

		weather, err := chain.Handle("Kyiv")

		require.NoError(t, err)
		assert.Equal(t, 20.0, weather.Temperature)
		assert.Zero(t, fallback.calls)
	})

	t.Run("FallsThroughOnPrimaryFailure", func(t *testing.T) {
		primary := &stubProvider{err: apperrors.NewExternalAPIError("primary down", nil)}
		fallback := &stubProvider{response: &models.WeatherResponse{Temperature: 15}}

		chain := NewChainBuilder().
			AddHandler(NewBaseWeatherHandler(primary, "primary")).
			AddHandler(NewBaseWeatherHandler(fallback, "fallback")).
			Build()

		weather, err := chain.Handle("Kyiv")

		require.NoError(t, err)
		assert.Equal(t, 15.0, weather.Temperature)
		assert.Equal(t, 1, primary.calls)
		assert.Equal(t, 1, fallback.calls)
	})

	t.Run("LastHandlerErrorIsReturned", func(t *testing.T) {
		primary := &stubProvider{err: apperrors.NewExternalAPIError("primary down", nil)}
		fallback := &stubProvider{err: apperrors.NewNotFoundError("city not found")}

		chain := NewChainBuilder().
			AddHandler(NewBaseWeatherHandler(primary, "primary")).
			AddHandler(NewBaseWeatherHandler(fallback, "fallback")).
			Build()

		_, err := chain.Handle("Atlantis")

		assertErrorType(t, err, apperrors.NotFoundError)
	})

	t.Run("EmptyBuilderYieldsNil", func(t *testing.T) {
		assert.Nil(t, NewChainBuilder().Build())
	})
}

func TestWeatherChainCacheProxy(t *testing.T) {
	newProxy := func(chain WeatherProviderChain) (*WeatherChainCacheProxy, *metrics.CacheMetrics) {
		cacheMetrics := metrics.NewCacheMetrics("memory")
		backend := cache.NewMemoryCache()
		return NewWeatherChainCacheProxy(chain, backend, 5*time.Minute, cacheMetrics), cacheMetrics
	}

	t.Run("SecondLookupServedFromCache", func(t *testing.T) {
		provider := &stubProvider{response: &models.WeatherResponse{Temperature: 20}}
		proxy, cacheMetrics := newProxy(NewBaseWeatherHandler(provider, "primary"))

		first, err := proxy.Handle("Kyiv")
		require.NoError(t, err)

		second, err := proxy.Handle("Kyiv")
		require.NoError(t, err)

		assert.Equal(t, first.Temperature, second.Temperature)
		assert.Equal(t, 1, provider.calls)

		hits, misses := cacheMetrics.Stats()
		assert.EqualValues(t, 1, hits)
		assert.EqualValues(t, 1, misses)
	})

	t.Run("FailuresAreNotCached", func(t *testing.T) {
		provider := &stubProvider{err: apperrors.NewExternalAPIError("down", nil)}
		proxy, _ := newProxy(NewBaseWeatherHandler(provider, "primary"))

		_, err := proxy.Handle("Kyiv")
		require.Error(t, err)

		_, err = proxy.Handle("Kyiv")
		require.Error(t, err)

		assert.Equal(t, 2, provider.calls)
	})

	t.Run("DistinctCitiesCachedSeparately", func(t *testing.T) {
		provider := &stubProvider{response: &models.WeatherResponse{Temperature: 20}}
		proxy, _ := newProxy(NewBaseWeatherHandler(provider, "primary"))

		_, err := proxy.Handle("Kyiv")
		require.NoError(t, err)
		_, err = proxy.Handle("Lviv")
		require.NoError(t, err)

		assert.Equal(t, 2, provider.calls)
	})
}
