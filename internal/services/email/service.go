package email

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/metrics"
	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

const (
	kindWelcome = "welcome"
	kindUpdate  = "update"

	coldBelow = 10.0
	warmAbove = 25.0
)

type Transport interface {
	Send(ctx context.Context, msg models.Email) error
}

type transportBox struct {
	t Transport
}

// Service builds notification messages and hands them to the mail transport.
// Until SetTransport is called every send is dropped without error.
type Service struct {
	logger    zerolog.Logger
	from      string
	m         *metrics.Metrics
	transport atomic.Pointer[transportBox]
}

func NewService(logger zerolog.Logger, from string, m *metrics.Metrics) *Service {
	logger = logger.With().Str("component", "EmailService").Logger()
	return &Service{logger: logger, from: from, m: m}
}

func (s *Service) SetTransport(t Transport) {
	s.transport.Store(&transportBox{t: t})
}

func (s *Service) Ready() bool {
	return s.transport.Load() != nil
}

func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	box := s.transport.Load()
	if box == nil {
		s.logger.Debug().Ctx(ctx).Str("to", to).Str("subject", subject).
			Msg("mail transport not ready, message dropped")
		return nil
	}

	return box.t.Send(ctx, models.Email{
		From:    s.from,
		To:      to,
		Subject: subject,
		Text:    body,
	})
}

func (s *Service) SendWelcome(ctx context.Context, to, city string) error {
	err := s.Send(ctx, to, "Welcome!", "You subscribed to weather updates for "+city+".")
	s.m.RecordEmail(kindWelcome, err)
	return err
}

func (s *Service) SendWeatherUpdate(ctx context.Context, to, label string,
	data models.WeatherSnapshot, withAdvice bool,
) error {
	err := s.Send(ctx, to, "Weather Update: "+label, FormatUpdate(label, data, withAdvice))
	s.m.RecordEmail(kindUpdate, err)
	return err
}

// FormatUpdate renders the digest body; temperatures use the shortest exact form.
func FormatUpdate(label string, data models.WeatherSnapshot, withAdvice bool) string {
	var b strings.Builder
	b.WriteString("Good ")
	b.WriteString(label)
	b.WriteString("! Weather in ")
	b.WriteString(data.City)
	b.WriteString(": ")
	b.WriteString(strconv.FormatFloat(data.Weather.Temp, 'f', -1, 64))
	b.WriteString("°C, ")
	b.WriteString(data.Weather.Description)
	b.WriteString(".")
	if withAdvice {
		b.WriteString(ComposeForecastAdvice(data))
	}
	return b.String()
}

func ComposeForecastAdvice(data models.WeatherSnapshot) string {
	advice := "\nForecast for tomorrow:"

	switch {
	case data.Weather.Temp < coldBelow:
		advice += "\n❄️ It will be cold. Dress warmly!"
	case data.Weather.Temp > warmAbove:
		advice += "\n☀️ It will be warm. Wear light clothes."
	}

	if strings.Contains(data.Weather.Description, "rain") || data.Weather.Rain3h > 0 {
		advice += "\n☔ Don't forget your umbrella!"
	}

	return advice
}
