package providers

import (
	"fmt"
	"log/slog"

	"weathersub.app/models"
)

// BaseWeatherHandler links one provider into the fallback chain
type BaseWeatherHandler struct {
	next         WeatherProviderChain
	provider     WeatherProvider
	providerName string
}

// NewBaseWeatherHandler wraps a provider as a chain handler
func NewBaseWeatherHandler(provider WeatherProvider, providerName string) *BaseWeatherHandler {
	return &BaseWeatherHandler{
		provider:     provider,
		providerName: providerName,
	}
}

// Handle tries this handler's provider and falls through to the next one
// on failure. The last handler's error is returned as-is.
func (h *BaseWeatherHandler) Handle(city string) (*models.WeatherResponse, error) {
	if h.provider != nil {
		response, err := h.provider.GetCurrentWeather(city)
		if err == nil {
			return response, nil
		}

		slog.Info("weather provider failed", "provider", h.providerName, "city", city, "error", err)

		if h.next == nil {
			return nil, err
		}
	}

	if h.next != nil {
		return h.next.Handle(city)
	}

	return nil, fmt.Errorf("all weather providers failed for city: %s", city)
}

func (h *BaseWeatherHandler) SetNext(handler WeatherProviderChain) {
	h.next = handler
}

func (h *BaseWeatherHandler) GetProviderName() string {
	return h.providerName
}

// ChainBuilder assembles handlers into a chain in insertion order
type ChainBuilder struct {
	handlers []WeatherProviderChain
}

func NewChainBuilder() *ChainBuilder {
	return &ChainBuilder{
		handlers: make([]WeatherProviderChain, 0),
	}
}

func (cb *ChainBuilder) AddHandler(handler WeatherProviderChain) *ChainBuilder {
	cb.handlers = append(cb.handlers, handler)
	return cb
}

func (cb *ChainBuilder) Build() WeatherProviderChain {
	if len(cb.handlers) == 0 {
		return nil
	}

	for i := 0; i < len(cb.handlers)-1; i++ {
		cb.handlers[i].SetNext(cb.handlers[i+1])
	}

	return cb.handlers[0]
}
