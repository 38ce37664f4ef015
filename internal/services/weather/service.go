package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
	"golang.org/x/time/rate"
)

const openWeatherEndpoint = "https://api.openweathermap.org/data/2.5/weather"

// currentWeatherResponse mirrors the fields we use from the
// OpenWeatherMap current weather payload.
type currentWeatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Name string `json:"name"`
}

// Service fetches current conditions from OpenWeatherMap.
type Service struct {
	config   *common.WeatherConfig
	client   *http.Client
	limiter  *rate.Limiter
	logger   arbor.ILogger
	endpoint string
}

// NewService creates a weather service
func NewService(config *common.WeatherConfig, logger arbor.ILogger) *Service {
	timeout := config.RequestTimeout.Std()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Every(config.RateLimit.Std()), 1)
	}

	return &Service{
		config:   config,
		client:   &http.Client{Timeout: timeout},
		limiter:  limiter,
		logger:   logger,
		endpoint: openWeatherEndpoint,
	}
}

// CurrentWeather returns current conditions for the location. An empty
// location falls back to the configured default. Provider failures are
// wrapped in ErrWeatherUnavailable.
func (s *Service) CurrentWeather(ctx context.Context, location string) (*models.WeatherFact, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		location = s.config.DefaultLocation
	}
	if location == "" {
		return nil, fmt.Errorf("%w: no location given and no default configured", interfaces.ErrWeatherUnavailable)
	}
	if s.config.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is missing", interfaces.ErrWeatherUnavailable)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", s.config.APIKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn().Err(err).Str("location", location).Msg("Weather request failed")
		return nil, fmt.Errorf("%w: %v", interfaces.ErrWeatherUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: unknown location %q", interfaces.ErrWeatherUnavailable, location)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d", interfaces.ErrWeatherUnavailable, resp.StatusCode)
	}

	var payload currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrWeatherUnavailable, err)
	}
	if len(payload.Weather) == 0 {
		return nil, fmt.Errorf("%w: empty conditions for %q", interfaces.ErrWeatherUnavailable, location)
	}

	name := payload.Name
	if name == "" {
		name = location
	}

	fact := &models.WeatherFact{
		Location:           name,
		Condition:          payload.Weather[0].Description,
		TemperatureCelsius: payload.Main.Temp,
	}

	s.logger.Info().
		Str("location", fact.Location).
		Str("condition", fact.Condition).
		Msg("Weather fetched")

	return fact, nil
}

// Describe renders a weather fact as a one-line answer.
func Describe(fact *models.WeatherFact) string {
	if fact == nil {
		return ""
	}
	return fmt.Sprintf("The weather in %s is %s with %.1f°C.", fact.Location, fact.Condition, fact.TemperatureCelsius)
}

// IsUnavailable reports whether the error is a weather provider failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, interfaces.ErrWeatherUnavailable)
}
