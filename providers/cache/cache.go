// Package cache provides pluggable backends for the cross-run weather cache
package cache

import (
	"time"

	"weathersub.app/models"
)

// Cache defines weather caching operations shared by all backends
type Cache interface {
	Get(key string) (*models.WeatherResponse, bool)
	Set(key string, value *models.WeatherResponse, ttl time.Duration)
	Delete(key string)
	Clear()
}
