package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestNormalizeCity(t *testing.T) {
	assert.Equal(t, "Kyiv", NormalizeCity("  Kyiv "))
	assert.Equal(t, "New York", NormalizeCity("New York"))
}

func TestIsValidFrequency(t *testing.T) {
	assert.True(t, IsValidFrequency("hourly"))
	assert.True(t, IsValidFrequency("daily"))
	assert.False(t, IsValidFrequency("weekly"))
	assert.False(t, IsValidFrequency(""))
	assert.False(t, IsValidFrequency("Hourly"))
}
