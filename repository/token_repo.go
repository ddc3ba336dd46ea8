package repository

import (
	"errors"

	"gorm.io/gorm"
	"weathersub.app/models"
)

// TokenRepository handles data access operations for tokens
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new repository for token operations
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create persists a token with the given value
func (r *TokenRepository) Create(value string) (*models.Token, error) {
	token := &models.Token{Value: value}
	if err := r.db.Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// FindByValue retrieves a token by its string value. Returns nil without
// error when no token has that value.
func (r *TokenRepository) FindByValue(value string) (*models.Token, error) {
	var token models.Token
	result := r.db.Where("value = ?", value).First(&token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &token, nil
}

// Delete removes a token by its store identity. Deleting an absent row
// is not an error: the caller has typically just resolved the token and
// a concurrent unsubscribe winning the race is acceptable.
func (r *TokenRepository) Delete(id uint) error {
	return r.db.Delete(&models.Token{}, id).Error
}
