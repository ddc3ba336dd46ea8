package providers

import (
	"weathersub.app/models"
	"weathersub.app/providers/cache"
)

// WeatherProvider defines the interface for weather data providers
type WeatherProvider interface {
	GetCurrentWeather(city string) (*models.WeatherResponse, error)
}

// WeatherProviderChain defines the interface for the provider fallback chain
type WeatherProviderChain interface {
	Handle(city string) (*models.WeatherResponse, error)
	SetNext(handler WeatherProviderChain)
	GetProviderName() string
}

// Cache is an alias to avoid circular imports
type Cache = cache.Cache

// EmailProvider defines the interface for email providers
type EmailProvider interface {
	SendEmail(to, subject, body string, isHTML bool) error
}
