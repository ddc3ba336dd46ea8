// Package models defines data structures shared across the application
package models

import (
	"time"
)

// Frequency values accepted for a subscription.
const (
	FrequencyHourly = "hourly"
	FrequencyDaily  = "daily"
)

// Token authorizes confirm and unsubscribe actions for a single
// subscription. Value is the opaque string shared in links; ID is the
// internal store key and never leaves the system.
type Token struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Value     string    `json:"token" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"-"`
}

// Subscription represents a recipient of periodic weather updates for a
// city. Each subscription owns exactly one token for its lifetime.
type Subscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex:idx_subscription_triple"`
	City      string    `json:"city" gorm:"not null;uniqueIndex:idx_subscription_triple"`
	Frequency string    `json:"frequency" gorm:"not null;uniqueIndex:idx_subscription_triple"`
	Confirmed bool      `json:"confirmed" gorm:"default:false"`
	TokenID   uint      `json:"-" gorm:"uniqueIndex;not null"`
	Token     Token     `json:"-" gorm:"foreignKey:TokenID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeatherResponse represents current conditions for a city
type WeatherResponse struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
}

// SubscriptionRequest represents data required to create a subscription
type SubscriptionRequest struct {
	Email     string `json:"email" form:"email" binding:"required,email"`
	City      string `json:"city" form:"city" binding:"required"`
	Frequency string `json:"frequency" form:"frequency" binding:"required,frequency"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
