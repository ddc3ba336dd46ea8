package repository

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	apperrors "weathersub.app/errors"
	"weathersub.app/models"
)

// Setup test database with in-memory SQLite
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Token{}, &models.Subscription{})
	require.NoError(t, err)

	return db
}

func createTestSubscription(t *testing.T, db *gorm.DB, email, city, frequency string, confirmed bool) *models.Subscription {
	t.Helper()

	tokenRepo := NewTokenRepository(db)
	token, err := tokenRepo.Create(uuid.New().String())
	require.NoError(t, err)

	sub := &models.Subscription{
		Email:     email,
		City:      city,
		Frequency: frequency,
		Confirmed: confirmed,
		TokenID:   token.ID,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func TestSubscriptionRepository_FindByTriple(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	t.Run("NotFound", func(t *testing.T) {
		sub, err := repo.FindByTriple("nobody@example.com", "London", "daily")
		assert.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("Found", func(t *testing.T) {
		createTestSubscription(t, db, "test@example.com", "London", "daily", false)

		sub, err := repo.FindByTriple("test@example.com", "London", "daily")
		assert.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, "test@example.com", sub.Email)
		assert.Equal(t, "London", sub.City)
		assert.Equal(t, "daily", sub.Frequency)
		assert.False(t, sub.Confirmed)
	})

	t.Run("FrequencyDistinguishesTriples", func(t *testing.T) {
		sub, err := repo.FindByTriple("test@example.com", "London", "hourly")
		assert.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("EmptyEmail", func(t *testing.T) {
		sub, err := repo.FindByTriple("", "London", "daily")
		assert.Error(t, err)
		assert.Nil(t, sub)

		var appErr *apperrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperrors.ValidationError, appErr.Type)
	})
}

func TestSubscriptionRepository_TripleUniqueness(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	first := createTestSubscription(t, db, "dup@example.com", "Kyiv", "daily", false)

	tokenRepo := NewTokenRepository(db)
	token, err := tokenRepo.Create("22222222-2222-4222-8222-222222222222")
	require.NoError(t, err)

	duplicate := &models.Subscription{
		Email:     first.Email,
		City:      first.City,
		Frequency: first.Frequency,
		TokenID:   token.ID,
	}

	err = repo.Create(duplicate)
	assert.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestSubscriptionRepository_FindByTokenID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	t.Run("Orphaned", func(t *testing.T) {
		sub, err := repo.FindByTokenID(9999)
		assert.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("Found", func(t *testing.T) {
		created := createTestSubscription(t, db, "owner@example.com", "Lviv", "hourly", true)

		sub, err := repo.FindByTokenID(created.TokenID)
		assert.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, created.ID, sub.ID)
	})
}

func TestSubscriptionRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	sub := createTestSubscription(t, db, "life@example.com", "Odesa", "daily", false)

	sub.Confirmed = true
	require.NoError(t, repo.Update(sub))

	found, err := repo.FindByTriple("life@example.com", "Odesa", "daily")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Confirmed)

	require.NoError(t, repo.Delete(found))

	gone, err := repo.FindByTriple("life@example.com", "Odesa", "daily")
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSubscriptionRepository_FindConfirmedByFrequency(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)

	createTestSubscription(t, db, "a@example.com", "Kyiv", "daily", true)
	createTestSubscription(t, db, "b@example.com", "Lviv", "daily", false)
	createTestSubscription(t, db, "c@example.com", "Kyiv", "hourly", true)
	createTestSubscription(t, db, "d@example.com", "Dnipro", "daily", true)

	subs, err := repo.FindConfirmedByFrequency("daily")
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	for _, sub := range subs {
		assert.True(t, sub.Confirmed)
		assert.Equal(t, "daily", sub.Frequency)
		assert.NotEmpty(t, sub.Token.Value, "token should be preloaded for the dispatcher")
	}
}

func TestTokenRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTokenRepository(db)

	t.Run("CreateAndFind", func(t *testing.T) {
		token, err := repo.Create("33333333-3333-4333-8333-333333333333")
		require.NoError(t, err)
		assert.NotZero(t, token.ID)

		found, err := repo.FindByValue("33333333-3333-4333-8333-333333333333")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, token.ID, found.ID)
	})

	t.Run("FindUnknownValue", func(t *testing.T) {
		found, err := repo.FindByValue("00000000-0000-4000-8000-000000000000")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("DuplicateValue", func(t *testing.T) {
		_, err := repo.Create("33333333-3333-4333-8333-333333333333")
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("Delete", func(t *testing.T) {
		token, err := repo.Create("44444444-4444-4444-8444-444444444444")
		require.NoError(t, err)

		require.NoError(t, repo.Delete(token.ID))

		found, err := repo.FindByValue("44444444-4444-4444-8444-444444444444")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("DeleteAbsentIsSuccess", func(t *testing.T) {
		assert.NoError(t, repo.Delete(98765))
	})
}
