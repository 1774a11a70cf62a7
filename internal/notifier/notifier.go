package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/metrics"
	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
)

// Slot is one daily digest trigger.
type Slot struct {
	Spec   string
	Label  string
	Advice bool
}

var Schedule = []Slot{
	{Spec: "0 9 * * *", Label: "Morning"},
	{Spec: "0 13 * * *", Label: "Afternoon"},
	{Spec: "0 20 * * *", Label: "Evening"},
	{Spec: "0 22 * * *", Label: "Night (Forecast)", Advice: true},
}

type subscriberLister interface {
	ListAll() []models.Subscriber
}

type weatherFetcher interface {
	FetchWeather(ctx context.Context, city string) models.WeatherSnapshot
}

type updateSender interface {
	SendWeatherUpdate(ctx context.Context, to, label string, data models.WeatherSnapshot, withAdvice bool) error
}

type Notifier struct {
	logger  zerolog.Logger
	subs    subscriberLister
	weather weatherFetcher
	mailer  updateSender
	m       *metrics.Metrics
	cron    *cron.Cron
}

func NewNotifier(logger zerolog.Logger, subs subscriberLister, weather weatherFetcher,
	mailer updateSender, m *metrics.Metrics, loc *time.Location,
) *Notifier {
	logger = logger.With().Str("component", "Notifier").Logger()
	cl := cronLogger{logger: logger}

	return &Notifier{
		logger:  logger,
		subs:    subs,
		weather: weather,
		mailer:  mailer,
		m:       m,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
		),
	}
}

// Start registers every slot and starts the scheduler. Each slot is wrapped
// separately so a slow run only delays its own next tick.
func (n *Notifier) Start(ctx context.Context) error {
	cl := cronLogger{logger: n.logger}
	for _, slot := range Schedule {
		slot := slot
		job := cron.NewChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		).Then(cron.FuncJob(func() {
			n.m.CronJob(slot.Label, func() {
				n.Broadcast(ctx, slot)
			})
		}))

		if _, err := n.cron.AddJob(slot.Spec, job); err != nil {
			n.m.TechnicalErrors.WithLabelValues("cron_schedule_error", "critical").Inc()
			return fmt.Errorf("schedule %q: %w", slot.Label, err)
		}
	}

	n.cron.Start()
	n.logger.Info().Str("location", n.cron.Location().String()).Int("jobs", len(Schedule)).
		Msg("notification scheduler started")
	return nil
}

// Stop halts the scheduler; the returned context is done once running jobs finish.
func (n *Notifier) Stop() context.Context {
	return n.cron.Stop()
}

func (n *Notifier) Entries() []cron.Entry {
	return n.cron.Entries()
}

// Broadcast sends one update per subscriber, one at a time. A failed
// subscriber is logged and skipped. It returns how many sends succeeded.
func (n *Notifier) Broadcast(ctx context.Context, slot Slot) int {
	runLog := n.logger.With().
		Str("run_id", uuid.NewString()).
		Str("label", slot.Label).
		Logger()

	subs := n.subs.ListAll()
	runLog.Info().Int("subscribers", len(subs)).Msg("broadcast started")

	sent := 0
	for _, sub := range subs {
		data := n.weather.FetchWeather(ctx, sub.City)
		if err := n.mailer.SendWeatherUpdate(ctx, sub.Email, slot.Label, data, slot.Advice); err != nil {
			runLog.Error().Err(err).Str("email", sub.Email).Str("city", sub.City).
				Msg("weather update failed")
			continue
		}
		sent++
	}

	runLog.Info().Int("sent", sent).Int("failed", len(subs)-sent).Msg("broadcast finished")
	return sent
}

// ResolveLocation maps an IANA zone name to a location; empty means process local time.
func ResolveLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
