package weather

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/metrics"
	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

type client interface {
	Fetch(ctx context.Context, city string) (models.WeatherSnapshot, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MockSnapshot is the stand-in reading served whenever the provider cannot answer.
func MockSnapshot(city string) models.WeatherSnapshot {
	return models.WeatherSnapshot{
		City:        city,
		Country:     "XX (Mock)",
		Coordinates: models.Coordinates{Lon: 0, Lat: 0},
		Weather: models.Conditions{
			Temp:        20,
			FeelsLike:   18,
			Description: "mock rain",
			Icon:        "http://openweathermap.org/img/wn/10d.png",
			WindSpeed:   5.5,
			Rain3h:      5,
		},
	}
}

// Service resolves weather for a city and never reports failure to its caller:
// any provider error degrades to MockSnapshot.
type Service struct {
	logger zerolog.Logger
	client client
	m      *metrics.Metrics
}

func NewService(logger zerolog.Logger, c client, m *metrics.Metrics) *Service {
	logger = logger.With().Str("component", "WeatherService").Logger()
	return &Service{logger: logger, client: c, m: m}
}

func (s *Service) FetchWeather(ctx context.Context, city string) models.WeatherSnapshot {
	data, err := s.client.Fetch(ctx, city)
	if err != nil {
		s.logger.Warn().
			Ctx(ctx).
			Err(err).
			Str("city", city).
			Msg("weather provider failed, serving mock data")
		s.m.WeatherFetches.WithLabelValues("mock").Inc()
		return MockSnapshot(city)
	}

	s.m.WeatherFetches.WithLabelValues("live").Inc()
	return data
}
