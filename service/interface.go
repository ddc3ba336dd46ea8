package service

import (
	"weathersub.app/models"
	"weathersub.app/providers"
)

// WeatherServiceInterface defines the interface for weather operations
type WeatherServiceInterface interface {
	GetWeather(city string) (*models.WeatherResponse, error)
}

// TokenServiceInterface mints and resolves opaque tokens. It has no
// knowledge of subscriptions.
type TokenServiceInterface interface {
	Issue() (*models.Token, error)
	Resolve(value string) (*models.Token, error)
	Remove(id uint) error
}

// SubscriptionServiceInterface drives the subscription lifecycle
type SubscriptionServiceInterface interface {
	Subscribe(req *models.SubscriptionRequest) (*models.Subscription, error)
	Confirm(tokenValue string) (*models.Subscription, error)
	Unsubscribe(tokenValue string) error
	GetConfirmedByFrequency(frequency string) ([]models.Subscription, error)
}

// EmailServiceInterface defines the interface for email operations
type EmailServiceInterface interface {
	SendConfirmationEmail(email, confirmURL, city string) error
	SendWelcomeEmail(email, city, frequency, unsubscribeURL string) error
	SendUnsubscribeConfirmationEmail(email, city string) error
	SendWeatherUpdateEmail(email, city string, weather *models.WeatherResponse, unsubscribeURL string) error
}

// SubscriptionRepositoryInterface defines the interface for subscription data operations
type SubscriptionRepositoryInterface interface {
	FindByTriple(email, city, frequency string) (*models.Subscription, error)
	FindByTokenID(tokenID uint) (*models.Subscription, error)
	Create(subscription *models.Subscription) error
	Update(subscription *models.Subscription) error
	Delete(subscription *models.Subscription) error
	FindConfirmedByFrequency(frequency string) ([]models.Subscription, error)
}

// TokenRepositoryInterface defines the interface for token data operations
type TokenRepositoryInterface interface {
	Create(value string) (*models.Token, error)
	FindByValue(value string) (*models.Token, error)
	Delete(id uint) error
}

// WeatherProvider is re-exported so service consumers do not need to
// import the providers package directly.
type WeatherProvider = providers.WeatherProvider

// Ensure implementations satisfy interfaces
var _ WeatherServiceInterface = (*WeatherService)(nil)
var _ TokenServiceInterface = (*TokenService)(nil)
var _ SubscriptionServiceInterface = (*SubscriptionService)(nil)
var _ EmailServiceInterface = (*EmailService)(nil)
