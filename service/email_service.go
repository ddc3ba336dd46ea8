package service

import (
	"fmt"

	"weathersub.app/errors"
	"weathersub.app/models"
	"weathersub.app/providers"
)

// EmailService composes notification emails and hands them to a provider
type EmailService struct {
	provider providers.EmailProvider
}

// NewEmailService creates a new email service with the specified provider
func NewEmailService(provider providers.EmailProvider) *EmailService {
	return &EmailService{provider: provider}
}

// SendConfirmationEmail sends an email with a confirmation link
func (s *EmailService) SendConfirmationEmail(email, confirmURL, city string) error {
	if email == "" {
		return errors.NewValidationError("email cannot be empty")
	}
	if confirmURL == "" {
		return errors.NewValidationError("confirmation URL cannot be empty")
	}
	if city == "" {
		return errors.NewValidationError("city cannot be empty")
	}

	subject := fmt.Sprintf("Confirm your weather subscription for %s", city)
	htmlContent := fmt.Sprintf(
		"<p>Click the link below to confirm your subscription to weather updates for %s:</p>"+
			"<p><a href=\"%s\">Confirm Subscription</a></p>",
		city, confirmURL,
	)

	return s.provider.SendEmail(email, subject, htmlContent, true)
}

// SendWelcomeEmail sends a welcome email after subscription confirmation
func (s *EmailService) SendWelcomeEmail(email, city, frequency, unsubscribeURL string) error {
	if email == "" {
		return errors.NewValidationError("email cannot be empty")
	}
	if city == "" {
		return errors.NewValidationError("city cannot be empty")
	}
	if unsubscribeURL == "" {
		return errors.NewValidationError("unsubscribe URL cannot be empty")
	}

	frequencyText := "every hour"
	if frequency == models.FrequencyDaily {
		frequencyText = "every day"
	}

	subject := fmt.Sprintf("Welcome to weather updates for %s", city)
	htmlContent := fmt.Sprintf(
		"<p>Thank you for subscribing to weather updates for %s.</p>"+
			"<p>You will receive updates %s.</p>"+
			"<p>If you no longer wish to receive updates, you can <a href=\"%s\">unsubscribe here</a>.</p>",
		city, frequencyText, unsubscribeURL,
	)

	return s.provider.SendEmail(email, subject, htmlContent, true)
}

// SendUnsubscribeConfirmationEmail sends a confirmation after unsubscribing
func (s *EmailService) SendUnsubscribeConfirmationEmail(email, city string) error {
	if email == "" {
		return errors.NewValidationError("email cannot be empty")
	}
	if city == "" {
		return errors.NewValidationError("city cannot be empty")
	}

	subject := "Unsubscription"
	htmlContent := fmt.Sprintf(
		"<p>You have successfully unsubscribed from weather updates for %s.</p>",
		city,
	)

	return s.provider.SendEmail(email, subject, htmlContent, true)
}

// SendWeatherUpdateEmail sends a weather update email to a subscriber
func (s *EmailService) SendWeatherUpdateEmail(email, city string, weather *models.WeatherResponse, unsubscribeURL string) error {
	if email == "" {
		return errors.NewValidationError("email cannot be empty")
	}
	if city == "" {
		return errors.NewValidationError("city cannot be empty")
	}
	if weather == nil {
		return errors.NewValidationError("weather data cannot be nil")
	}
	if unsubscribeURL == "" {
		return errors.NewValidationError("unsubscribe URL cannot be empty")
	}

	subject := fmt.Sprintf("Weather update for %s", city)
	htmlContent := fmt.Sprintf(
		"<p>Current weather in <strong>%s</strong>:</p>"+
			"<ul>"+
			"<li>Temperature: %.1f°C</li>"+
			"<li>Humidity: %.0f%%</li>"+
			"<li>Description: %s</li>"+
			"</ul>"+
			"<p>If you no longer wish to receive updates, you can <a href=\"%s\">unsubscribe here</a>.</p>",
		city, weather.Temperature, weather.Humidity, weather.Description, unsubscribeURL,
	)

	return s.provider.SendEmail(email, subject, htmlContent, true)
}
