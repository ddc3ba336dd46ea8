package service

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"weathersub.app/config"
	"weathersub.app/errors"
	"weathersub.app/models"
	"weathersub.app/pkg/validation"
)

// SubscriptionService owns the subscription lifecycle: Pending on
// subscribe, Confirmed on confirm, removed on unsubscribe. Token
// identity is delegated to the token service.
type SubscriptionService struct {
	db               *gorm.DB
	subscriptionRepo SubscriptionRepositoryInterface
	tokens           TokenServiceInterface
	emailService     EmailServiceInterface
	config           *config.Config
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	db *gorm.DB,
	subscriptionRepo SubscriptionRepositoryInterface,
	tokens TokenServiceInterface,
	emailService EmailServiceInterface,
	config *config.Config,
) *SubscriptionService {
	return &SubscriptionService{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		tokens:           tokens,
		emailService:     emailService,
		config:           config,
	}
}

// Subscribe creates a new pending subscription with a fresh token. The
// (email, city, frequency) triple must be unique among all existing
// subscriptions regardless of confirmation state.
func (s *SubscriptionService) Subscribe(req *models.SubscriptionRequest) (*models.Subscription, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	email := validation.NormalizeEmail(req.Email)
	city := validation.NormalizeCity(req.City)

	existing, err := s.subscriptionRepo.FindByTriple(email, city, req.Frequency)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to check existing subscription", err)
	}
	if existing != nil {
		return nil, errors.NewAlreadyExistsError("email already subscribed")
	}

	token, err := s.tokens.Issue()
	if err != nil {
		return nil, err
	}

	subscription := &models.Subscription{
		Email:     email,
		City:      city,
		Frequency: req.Frequency,
		Confirmed: false,
		TokenID:   token.ID,
	}

	if err := s.subscriptionRepo.Create(subscription); err != nil {
		if removeErr := s.tokens.Remove(token.ID); removeErr != nil {
			slog.Warn("failed to clean up token after subscription create failure", "error", removeErr)
		}
		// The unique index on the triple closes the race between two
		// concurrent subscribe calls with the same triple.
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.NewAlreadyExistsError("email already subscribed")
		}
		return nil, errors.NewDatabaseError("failed to create subscription", err)
	}
	subscription.Token = *token

	// Best effort: a failed confirmation email does not roll back the
	// created subscription.
	confirmURL := fmt.Sprintf("%s/api/confirm/%s", s.config.AppBaseURL, token.Value)
	if err := s.emailService.SendConfirmationEmail(email, confirmURL, city); err != nil {
		slog.Warn("failed to send confirmation email", "error", err, "email", email)
	}

	return subscription, nil
}

func (s *SubscriptionService) validateRequest(req *models.SubscriptionRequest) error {
	if req == nil {
		return errors.NewValidationError("request cannot be nil")
	}
	if validation.NormalizeEmail(req.Email) == "" {
		return errors.NewValidationError("email is required")
	}
	if validation.NormalizeCity(req.City) == "" {
		return errors.NewValidationError("city is required")
	}
	if !validation.IsValidFrequency(req.Frequency) {
		return errors.NewValidationError("frequency must be either 'hourly' or 'daily'")
	}
	return nil
}

// Confirm marks the subscription owning the token as confirmed.
// Confirming an already-confirmed subscription is an idempotent success.
func (s *SubscriptionService) Confirm(tokenValue string) (*models.Subscription, error) {
	token, err := s.tokens.Resolve(tokenValue)
	if err != nil {
		return nil, err
	}

	subscription, err := s.subscriptionRepo.FindByTokenID(token.ID)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to find subscription", err)
	}
	if subscription == nil {
		// Orphaned token with no owning subscription.
		return nil, errors.NewNotFoundError("token not found")
	}

	if subscription.Confirmed {
		return subscription, nil
	}

	subscription.Confirmed = true
	if err := s.subscriptionRepo.Update(subscription); err != nil {
		return nil, errors.NewDatabaseError("failed to update subscription", err)
	}

	unsubscribeURL := fmt.Sprintf("%s/api/unsubscribe/%s", s.config.AppBaseURL, token.Value)
	if err := s.emailService.SendWelcomeEmail(subscription.Email, subscription.City, subscription.Frequency, unsubscribeURL); err != nil {
		slog.Warn("failed to send welcome email", "error", err, "email", subscription.Email)
	}

	return subscription, nil
}

// Unsubscribe deletes the subscription owning the token together with
// the token itself.
func (s *SubscriptionService) Unsubscribe(tokenValue string) error {
	token, err := s.tokens.Resolve(tokenValue)
	if err != nil {
		return err
	}

	subscription, err := s.subscriptionRepo.FindByTokenID(token.ID)
	if err != nil {
		return errors.NewDatabaseError("failed to find subscription", err)
	}
	if subscription == nil {
		return errors.NewNotFoundError("token not found")
	}

	if err := s.removeSubscriptionWithToken(subscription, token); err != nil {
		return err
	}

	if err := s.emailService.SendUnsubscribeConfirmationEmail(subscription.Email, subscription.City); err != nil {
		slog.Warn("failed to send unsubscribe confirmation email", "error", err, "email", subscription.Email)
	}

	return nil
}

// removeSubscriptionWithToken deletes the subscription and then its
// token in one transaction. The explicit two-step delete keeps the
// cascade portable across storage backends.
func (s *SubscriptionService) removeSubscriptionWithToken(subscription *models.Subscription, token *models.Token) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return errors.NewDatabaseError("failed to begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(subscription).Error; err != nil {
		tx.Rollback()
		return errors.NewDatabaseError("failed to delete subscription", err)
	}

	if err := tx.Delete(token).Error; err != nil {
		tx.Rollback()
		return errors.NewDatabaseError("failed to delete token", err)
	}

	if err := tx.Commit().Error; err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}

	return nil
}

// GetConfirmedByFrequency returns a snapshot of all confirmed
// subscriptions for the given cadence. Used by the notification
// dispatcher.
func (s *SubscriptionService) GetConfirmedByFrequency(frequency string) ([]models.Subscription, error) {
	if !validation.IsValidFrequency(frequency) {
		return nil, errors.NewValidationError("frequency must be either 'hourly' or 'daily'")
	}

	subscriptions, err := s.subscriptionRepo.FindConfirmedByFrequency(frequency)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load confirmed subscriptions", err)
	}

	return subscriptions, nil
}
