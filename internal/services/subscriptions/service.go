package subscriptions

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/metrics"
	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

const welcomeTimeout = 30 * time.Second

type repository interface {
	Add(email, city string)
}

type welcomer interface {
	SendWelcome(ctx context.Context, to, city string) error
}

type Service struct {
	logger zerolog.Logger
	repo   repository
	mailer welcomer
	m      *metrics.Metrics

	// done receives a value after each background welcome send; nil outside tests.
	done chan<- struct{}
}

func NewService(logger zerolog.Logger, repo repository, mailer welcomer, m *metrics.Metrics) *Service {
	logger = logger.With().Str("component", "SubscriptionService").Logger()
	return &Service{logger: logger, repo: repo, mailer: mailer, m: m}
}

// Subscribe records the subscriber and returns without waiting for the welcome
// email. The send runs on its own context so it survives the request.
func (s *Service) Subscribe(ctx context.Context, data models.UserSubData) {
	s.repo.Add(data.Email, data.City)
	s.m.SubscriptionsCreated.Inc()
	s.logger.Info().Ctx(ctx).Str("email", data.Email).Str("city", data.City).Msg("subscriber added")

	go s.welcome(data)
}

func (s *Service) welcome(data models.UserSubData) {
	ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
	defer cancel()

	if err := s.mailer.SendWelcome(ctx, data.Email, data.City); err != nil {
		s.logger.Error().Err(err).Str("email", data.Email).Msg("welcome email failed")
	}

	if s.done != nil {
		s.done <- struct{}{}
	}
}
