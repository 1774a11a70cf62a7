package notifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-dashboard/internal/metrics"
	"github.com/Nazarious-ucu/weather-dashboard/internal/models"
	"github.com/Nazarious-ucu/weather-dashboard/internal/notifier"
	"github.com/Nazarious-ucu/weather-dashboard/internal/repository/memory"
)

type mockWeather struct {
	mock.Mock
}

func (m *mockWeather) FetchWeather(ctx context.Context, city string) models.WeatherSnapshot {
	args := m.Called(ctx, city)
	return args.Get(0).(models.WeatherSnapshot)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendWeatherUpdate(ctx context.Context, to, label string,
	data models.WeatherSnapshot, withAdvice bool,
) error {
	args := m.Called(ctx, to, label, data, withAdvice)
	return args.Error(0)
}

func snapshot(city string) models.WeatherSnapshot {
	return models.WeatherSnapshot{City: city, Weather: models.Conditions{Temp: 12, Description: "clear sky"}}
}

func TestSchedule(t *testing.T) {
	require.Len(t, notifier.Schedule, 4)

	from := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	wantHours := []int{9, 13, 20, 22}
	wantLabels := []string{"Morning", "Afternoon", "Evening", "Night (Forecast)"}

	for i, slot := range notifier.Schedule {
		sched, err := cron.ParseStandard(slot.Spec)
		require.NoError(t, err)

		next := sched.Next(from)
		assert.Equal(t, wantHours[i], next.Hour(), slot.Label)
		assert.Equal(t, 0, next.Minute(), slot.Label)
		assert.Equal(t, wantLabels[i], slot.Label)
		assert.Equal(t, slot.Label == "Night (Forecast)", slot.Advice)
	}
}

func TestBroadcast_ContinuesAfterFailure(t *testing.T) {
	subs := memory.NewSubscriberRepository()
	subs.Add("a@example.com", "Kyiv")
	subs.Add("b@example.com", "Lviv")
	subs.Add("c@example.com", "Odesa")

	w := new(mockWeather)
	for _, c := range []string{"Kyiv", "Lviv", "Odesa"} {
		w.On("FetchWeather", mock.Anything, c).Return(snapshot(c)).Once()
	}

	mailer := new(mockMailer)
	mailer.On("SendWeatherUpdate", mock.Anything, "a@example.com", "Morning", snapshot("Kyiv"), false).
		Return(nil).Once()
	mailer.On("SendWeatherUpdate", mock.Anything, "b@example.com", "Morning", snapshot("Lviv"), false).
		Return(errors.New("smtp down")).Once()
	mailer.On("SendWeatherUpdate", mock.Anything, "c@example.com", "Morning", snapshot("Odesa"), false).
		Return(nil).Once()

	n := notifier.NewNotifier(zerolog.Nop(), subs, w, mailer, metrics.NewMetrics("notifier_test"), time.UTC)

	sent := n.Broadcast(context.Background(), notifier.Schedule[0])

	assert.Equal(t, 2, sent)
	w.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestBroadcast_NightSlotAddsAdvice(t *testing.T) {
	subs := memory.NewSubscriberRepository()
	subs.Add("a@example.com", "Kyiv")

	w := new(mockWeather)
	w.On("FetchWeather", mock.Anything, "Kyiv").Return(snapshot("Kyiv")).Once()

	mailer := new(mockMailer)
	mailer.On("SendWeatherUpdate", mock.Anything, "a@example.com", "Night (Forecast)", snapshot("Kyiv"), true).
		Return(nil).Once()

	n := notifier.NewNotifier(zerolog.Nop(), subs, w, mailer, metrics.NewMetrics("notifier_night_test"), time.UTC)

	assert.Equal(t, 1, n.Broadcast(context.Background(), notifier.Schedule[3]))
	mailer.AssertExpectations(t)
}

func TestBroadcast_NoSubscribers(t *testing.T) {
	w := new(mockWeather)
	mailer := new(mockMailer)
	n := notifier.NewNotifier(zerolog.Nop(), memory.NewSubscriberRepository(), w, mailer,
		metrics.NewMetrics("notifier_empty_test"), time.UTC)

	assert.Equal(t, 0, n.Broadcast(context.Background(), notifier.Schedule[1]))
	w.AssertNotCalled(t, "FetchWeather", mock.Anything, mock.Anything)
	mailer.AssertNotCalled(t, "SendWeatherUpdate", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything)
}

func TestNotifier_StartStop(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Skip("tzdata not available")
	}

	m := metrics.NewMetrics("notifier_start_test")
	n := notifier.NewNotifier(zerolog.Nop(), memory.NewSubscriberRepository(), new(mockWeather),
		new(mockMailer), m, loc)

	require.NoError(t, n.Start(context.Background()))

	entries := n.Entries()
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.Equal(t, 0, e.Next.Minute())
		assert.Equal(t, loc, e.Next.Location())
	}

	select {
	case <-n.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CronRuns.WithLabelValues("Morning")))
}

func TestResolveLocation(t *testing.T) {
	loc, err := notifier.ResolveLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	_, err = notifier.ResolveLocation("Mars/Olympus_Mons")
	assert.Error(t, err)
}
