package interfaces

import (
	"context"

	"github.com/ternarybob/oraculum/internal/models"
)

// WeatherService is the boundary to the external weather provider.
type WeatherService interface {
	// CurrentWeather fetches current conditions for a location. An
	// empty location means the configured default. Failures are
	// reported as ErrWeatherUnavailable so the workflow can degrade.
	CurrentWeather(ctx context.Context, location string) (*models.WeatherFact, error)
}
