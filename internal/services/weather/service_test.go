package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/oraculum/internal/common"
	"github.com/ternarybob/oraculum/internal/interfaces"
	"github.com/ternarybob/oraculum/internal/models"
)

func newTestService(t *testing.T, handler http.HandlerFunc, config *common.WeatherConfig) (*Service, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewService(config, common.GetLogger())
	svc.endpoint = server.URL
	return svc, server
}

func TestCurrentWeather(t *testing.T) {
	var gotQuery string
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("units = %s, want metric", r.URL.Query().Get("units"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"weather": []map[string]string{{"description": "clear sky"}},
			"main":    map[string]float64{"temp": 22.5},
			"name":    "Tokyo",
		})
	}, &common.WeatherConfig{APIKey: "test-key", DefaultLocation: "London"})

	fact, err := svc.CurrentWeather(context.Background(), "Tokyo")
	if err != nil {
		t.Fatalf("CurrentWeather failed: %v", err)
	}

	if gotQuery != "Tokyo" {
		t.Errorf("queried location = %q, want Tokyo", gotQuery)
	}
	if fact.Location != "Tokyo" {
		t.Errorf("Location = %q, want Tokyo", fact.Location)
	}
	if fact.Condition != "clear sky" {
		t.Errorf("Condition = %q, want clear sky", fact.Condition)
	}
	if fact.TemperatureCelsius != 22.5 {
		t.Errorf("TemperatureCelsius = %v, want 22.5", fact.TemperatureCelsius)
	}
}

func TestCurrentWeather_DefaultLocation(t *testing.T) {
	var gotQuery string
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string]any{
			"weather": []map[string]string{{"description": "light rain"}},
			"main":    map[string]float64{"temp": 12.0},
			"name":    "London",
		})
	}, &common.WeatherConfig{APIKey: "test-key", DefaultLocation: "London"})

	fact, err := svc.CurrentWeather(context.Background(), "")
	if err != nil {
		t.Fatalf("CurrentWeather failed: %v", err)
	}
	if gotQuery != "London" {
		t.Errorf("queried location = %q, want the configured default London", gotQuery)
	}
	if fact.Location != "London" {
		t.Errorf("Location = %q, want London", fact.Location)
	}
}

func TestCurrentWeather_UnknownLocation(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, &common.WeatherConfig{APIKey: "test-key", DefaultLocation: "London"})

	_, err := svc.CurrentWeather(context.Background(), "Nowhereville")
	if !errors.Is(err, interfaces.ErrWeatherUnavailable) {
		t.Errorf("error = %v, want ErrWeatherUnavailable", err)
	}
}

func TestCurrentWeather_MissingAPIKey(t *testing.T) {
	svc := NewService(&common.WeatherConfig{DefaultLocation: "London"}, common.GetLogger())
	_, err := svc.CurrentWeather(context.Background(), "Tokyo")
	if !errors.Is(err, interfaces.ErrWeatherUnavailable) {
		t.Errorf("error = %v, want ErrWeatherUnavailable", err)
	}
}

func TestCurrentWeather_EmptyConditions(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"weather": []map[string]string{},
			"main":    map[string]float64{"temp": 20.0},
			"name":    "Tokyo",
		})
	}, &common.WeatherConfig{APIKey: "test-key", DefaultLocation: "London"})

	_, err := svc.CurrentWeather(context.Background(), "Tokyo")
	if !errors.Is(err, interfaces.ErrWeatherUnavailable) {
		t.Errorf("error = %v, want ErrWeatherUnavailable", err)
	}
}

func TestDescribe(t *testing.T) {
	fact := &models.WeatherFact{Location: "Tokyo", Condition: "clear sky", TemperatureCelsius: 22.5}
	want := "The weather in Tokyo is clear sky with 22.5°C."
	if got := Describe(fact); got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
	if Describe(nil) != "" {
		t.Error("Describe(nil) should be empty")
	}
}
