package service

import (
	"weathersub.app/errors"
	"weathersub.app/models"
)

// WeatherService handles weather-related operations
type WeatherService struct {
	provider WeatherProvider
}

// NewWeatherService creates a new weather service with the specified provider
func NewWeatherService(provider WeatherProvider) *WeatherService {
	return &WeatherService{provider: provider}
}

// GetWeather retrieves current weather information for a specific city
func (s *WeatherService) GetWeather(city string) (*models.WeatherResponse, error) {
	if city == "" {
		return nil, errors.NewValidationError("city cannot be empty")
	}

	return s.provider.GetCurrentWeather(city)
}
