// Package repository implements the data access layer for subscriptions and tokens
package repository

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"
	apperrors "weathersub.app/errors"
	"weathersub.app/models"
)

// SubscriptionRepository handles data access operations for subscriptions
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new repository for subscription data
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// FindByTriple retrieves a subscription matching email, city and frequency
// exactly. Returns nil without error when no row matches.
func (r *SubscriptionRepository) FindByTriple(email, city, frequency string) (*models.Subscription, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email cannot be empty")
	}
	if city == "" {
		return nil, apperrors.NewValidationError("city cannot be empty")
	}

	var subscription models.Subscription
	result := r.db.Where("email = ? AND city = ? AND frequency = ?", email, city, frequency).First(&subscription)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &subscription, nil
}

// FindByTokenID retrieves the subscription owning the given token.
// Returns nil without error when the token is orphaned.
func (r *SubscriptionRepository) FindByTokenID(tokenID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	result := r.db.Where("token_id = ?", tokenID).First(&subscription)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &subscription, nil
}

// Create persists a new subscription
func (r *SubscriptionRepository) Create(subscription *models.Subscription) error {
	result := r.db.Create(subscription)
	if result.Error != nil {
		return result.Error
	}

	slog.Debug("created subscription", "id", subscription.ID, "email", subscription.Email)
	return nil
}

// Update modifies an existing subscription
func (r *SubscriptionRepository) Update(subscription *models.Subscription) error {
	return r.db.Save(subscription).Error
}

// Delete removes a subscription
func (r *SubscriptionRepository) Delete(subscription *models.Subscription) error {
	return r.db.Delete(subscription).Error
}

// FindConfirmedByFrequency returns a snapshot of all confirmed
// subscriptions for the given cadence with their tokens preloaded.
func (r *SubscriptionRepository) FindConfirmedByFrequency(frequency string) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	result := r.db.Preload("Token").
		Where("frequency = ? AND confirmed = ?", frequency, true).
		Find(&subscriptions)
	if result.Error != nil {
		return nil, result.Error
	}

	slog.Debug("loaded confirmed subscriptions", "frequency", frequency, "count", len(subscriptions))
	return subscriptions, nil
}
