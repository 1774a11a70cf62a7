package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

// BreakerConfig controls when the provider circuit opens and for how long.
type BreakerConfig struct {
	Name        string
	Window      time.Duration // closed-state counting window
	OpenFor     time.Duration
	MaxFailures uint32
}

// BreakerClient guards a provider client with a circuit breaker.
// Unknown cities are answered by the provider, so they never count as failures.
type BreakerClient struct {
	cfg     BreakerConfig
	cb      *gobreaker.CircuitBreaker
	wrapped client
}

func NewBreakerClient(cfg BreakerConfig, wrapped client, logger zerolog.Logger) *BreakerClient {
	logger = logger.With().Str("component", "BreakerClient").Logger()

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    cfg.Window,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: providerAnswered,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit state changed")
		},
	})

	return &BreakerClient{cfg: cfg, cb: cb, wrapped: wrapped}
}

func providerAnswered(err error) bool {
	return err == nil || errors.Is(err, ErrCityNotFound)
}

// State reports the current circuit state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerClient) Fetch(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	var snapshot models.WeatherSnapshot
	_, err := b.cb.Execute(func() (interface{}, error) {
		var ferr error
		snapshot, ferr = b.wrapped.Fetch(ctx, city)
		return nil, ferr
	})
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%s unavailable: %w", b.cfg.Name, err)
	}
	return snapshot, nil
}
