package service

import (
	stderrors "errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"weathersub.app/errors"
	"weathersub.app/models"
)

// tokenIssueAttempts bounds the retry loop on a value collision. A uuid
// collision is statistically impossible, so hitting the bound means the
// store itself is misbehaving.
const tokenIssueAttempts = 3

// TokenService mints unique opaque tokens and resolves token strings
// back to their identity.
type TokenService struct {
	tokenRepo TokenRepositoryInterface
}

// NewTokenService creates a new token service
func NewTokenService(tokenRepo TokenRepositoryInterface) *TokenService {
	return &TokenService{tokenRepo: tokenRepo}
}

// Issue generates a fresh unguessable token value and persists it. A
// unique-constraint violation at create time is retried with a new
// value rather than surfaced to the caller.
func (s *TokenService) Issue() (*models.Token, error) {
	var lastErr error
	for attempt := 0; attempt < tokenIssueAttempts; attempt++ {
		token, err := s.tokenRepo.Create(uuid.New().String())
		if err == nil {
			return token, nil
		}
		if !stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.NewDatabaseError("failed to create token", err)
		}
		slog.Warn("token value collision, retrying", "attempt", attempt+1)
		lastErr = err
	}
	return nil, errors.NewDatabaseError("failed to create unique token", lastErr)
}

// Resolve looks up a token by its public value. A value that is not a
// well-formed uuid is rejected before touching the store.
func (s *TokenService) Resolve(value string) (*models.Token, error) {
	if uuid.Validate(value) != nil {
		return nil, errors.NewValidationError("invalid token")
	}

	token, err := s.tokenRepo.FindByValue(value)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to look up token", err)
	}
	if token == nil {
		return nil, errors.NewNotFoundError("token not found")
	}

	return token, nil
}

// Remove deletes a token record. Absence is treated as success.
func (s *TokenService) Remove(id uint) error {
	if err := s.tokenRepo.Delete(id); err != nil {
		return errors.NewDatabaseError("failed to delete token", err)
	}
	return nil
}
