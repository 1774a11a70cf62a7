package favorites

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/metrics"
	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

type weatherFetcher interface {
	FetchWeather(ctx context.Context, city string) models.WeatherSnapshot
}

type repository interface {
	List() []string
	Add(city string) bool
	Remove(city string)
}

type Service struct {
	logger  zerolog.Logger
	repo    repository
	weather weatherFetcher
	m       *metrics.Metrics
}

func NewService(logger zerolog.Logger, repo repository, w weatherFetcher, m *metrics.Metrics) *Service {
	logger = logger.With().Str("component", "FavoritesService").Logger()
	return &Service{logger: logger, repo: repo, weather: w, m: m}
}

// List fetches a snapshot for every favorite concurrently. The result follows
// the favorites order regardless of which fetch finishes first.
func (s *Service) List(ctx context.Context) []models.WeatherSnapshot {
	cities := s.repo.List()
	result := make([]models.WeatherSnapshot, len(cities))

	var wg sync.WaitGroup
	for i, city := range cities {
		wg.Add(1)
		go func(i int, city string) {
			defer wg.Done()
			result[i] = s.weather.FetchWeather(ctx, city)
		}(i, city)
	}
	wg.Wait()

	return result
}

// Add stores the city under the name the provider resolved it to, so "kyiv"
// and "Kyiv" end up as one favorite when the provider is reachable.
func (s *Service) Add(ctx context.Context, city string) models.WeatherSnapshot {
	data := s.weather.FetchWeather(ctx, city)

	if s.repo.Add(data.City) {
		s.m.FavoritesAdded.Inc()
		s.logger.Info().Ctx(ctx).Str("city", data.City).Msg("favorite added")
	}

	return data
}

func (s *Service) Remove(ctx context.Context, city string) {
	s.repo.Remove(city)
	s.m.FavoritesRemoved.Inc()
	s.logger.Info().Ctx(ctx).Str("city", city).Msg("favorite removed")
}
