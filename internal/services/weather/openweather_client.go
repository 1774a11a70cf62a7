package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

const iconURLFormat = "http://openweathermap.org/img/wn/%s.png"

var (
	ErrNoConditions = errors.New("response has no weather conditions")
	// ErrCityNotFound is returned when the provider does not know the requested city.
	ErrCityNotFound = errors.New("city not found")
)

type apiResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain map[string]float64 `json:"rain"`
}

// ClientOpenWeatherMap fetches current conditions from the OpenWeatherMap API.
type ClientOpenWeatherMap struct {
	APIKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenWeatherMap constructs a new OpenWeatherMap client.
func NewClientOpenWeatherMap(apiKey, apiURL string,
	httpClient HTTPClient, logger zerolog.Logger,
) *ClientOpenWeatherMap {
	logger = logger.With().Str("component", "ClientOpenWeatherMap").Logger()
	return &ClientOpenWeatherMap{APIKey: apiKey, apiURL: apiURL, client: httpClient, logger: logger}
}

// Fetch retrieves and normalizes current weather for a city.
func (s *ClientOpenWeatherMap) Fetch(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", s.APIKey)
	params.Set("units", "metric")
	reqURL := s.apiURL + "?" + params.Encode()

	s.logger.Debug().
		Str("city", city).
		Msg("starting OpenWeatherMap request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Err(cerr).
				Str("city", city).
				Msg("failed to close response body")
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return models.WeatherSnapshot{}, fmt.Errorf("%w: %q", ErrCityNotFound, city)
	}
	if resp.StatusCode != http.StatusOK {
		return models.WeatherSnapshot{}, fmt.Errorf("OpenWeatherAPI error: status %s", resp.Status)
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("decode response: %w", err)
	}

	if len(raw.Weather) == 0 {
		return models.WeatherSnapshot{}, ErrNoConditions
	}

	data := models.WeatherSnapshot{
		City:    raw.Name,
		Country: raw.Sys.Country,
		Coordinates: models.Coordinates{
			Lon: raw.Coord.Lon,
			Lat: raw.Coord.Lat,
		},
		Weather: models.Conditions{
			Temp:        raw.Main.Temp,
			FeelsLike:   raw.Main.FeelsLike,
			Description: raw.Weather[0].Description,
			Icon:        fmt.Sprintf(iconURLFormat, raw.Weather[0].Icon),
			WindSpeed:   raw.Wind.Speed,
			Rain3h:      raw.Rain["3h"],
		},
	}

	s.logger.Info().
		Str("city", city).
		Str("resolved", data.City).
		Dur("duration", time.Since(start)).
		Msg("successfully fetched weather data")

	return data, nil
}
