package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"weathersub.app/errors"
	"weathersub.app/models"
)

const openWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherMapProvider implements WeatherProvider for OpenWeatherMap
type OpenWeatherMapProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type openWeatherMapResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Message string `json:"message,omitempty"`
}

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider
func NewOpenWeatherMapProvider(apiKey string) *OpenWeatherMapProvider {
	return NewOpenWeatherMapProviderWithBaseURL(apiKey, openWeatherMapBaseURL)
}

// NewOpenWeatherMapProviderWithBaseURL allows overriding the endpoint,
// used by tests against a local server.
func NewOpenWeatherMapProviderWithBaseURL(apiKey, baseURL string) *OpenWeatherMapProvider {
	return &OpenWeatherMapProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetCurrentWeather retrieves weather data from OpenWeatherMap
func (p *OpenWeatherMapProvider) GetCurrentWeather(city string) (*models.WeatherResponse, error) {
	if city == "" {
		return nil, errors.NewValidationError("city cannot be empty")
	}

	requestURL := fmt.Sprintf("%s?q=%s&appid=%s&units=metric", p.baseURL, url.QueryEscape(city), p.apiKey)

	resp, err := p.httpClient.Get(requestURL)
	if err != nil {
		return nil, errors.NewExternalAPIError("openweathermap API request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewNotFoundError("city not found")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalAPIError(fmt.Sprintf("openweathermap returned status code %d", resp.StatusCode), nil)
	}

	var apiResponse openWeatherMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, errors.NewExternalAPIError("failed to decode openweathermap response", err)
	}

	description := ""
	if len(apiResponse.Weather) > 0 {
		description = apiResponse.Weather[0].Description
	}

	return &models.WeatherResponse{
		Temperature: apiResponse.Main.Temp,
		Humidity:    apiResponse.Main.Humidity,
		Description: description,
	}, nil
}
