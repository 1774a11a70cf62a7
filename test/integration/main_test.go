//go:build integration
// +build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-dashboard/internal/app"
	"github.com/Nazarious-ucu/weather-dashboard/internal/config"
	"github.com/Nazarious-ucu/weather-dashboard/internal/metrics"
)

var testServerURL string

func TestMain(m *testing.M) {
	fmt.Println("Starting integration tests...")

	provider := httptest.NewServer(fakeProvider())
	ethereal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	logsDir, err := os.MkdirTemp("", "weather-dashboard-it")
	if err != nil {
		log.Panic(err)
	}

	port, err := freePort()
	if err != nil {
		log.Panic(err)
	}

	cfg := config.Config{
		WeatherAPIKey:     "validApiKey",
		OpenWeatherMapURL: provider.URL,
		Server:            config.Server{Host: "127.0.0.1", Port: port, ReadTimeout: 10},
		Email: config.Email{
			From:           `"Weather App" <weather@example.com>`,
			EtherealAPIURL: ethereal.URL,
		},
		Breaker: config.Breaker{TimeInterval: 30, TimeTimeOut: 10, RepeatNumber: 5},
		Logs: config.Logs{
			RequestPath: filepath.Join(logsDir, "requests.log"),
			HTTPPath:    filepath.Join(logsDir, "client.log"),
		},
	}

	application := app.New(cfg, zerolog.Nop(), metrics.NewMetrics("weather_dashboard"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- application.Start(ctx)
	}()

	testServerURL = "http://" + cfg.ServerAddress()
	if err := waitHealthy(testServerURL+"/health", 5*time.Second); err != nil {
		log.Panic(err)
	}

	code := m.Run()

	cancel()
	if err := <-done; err != nil {
		log.Printf("application stopped with error: %v", err)
	}
	provider.Close()
	ethereal.Close()
	_ = os.RemoveAll(logsDir)

	os.Exit(code)
}

func fakeProvider() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "validApiKey" {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("q") == "incorrectCity" {
			http.Error(w, "City not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{
			"name": "Test City",
			"sys": {"country": "TC"},
			"coord": {"lon": 1.5, "lat": 2.5},
			"main": {"temp": 20, "feels_like": 19},
			"weather": [{"description": "sunny", "icon": "01d"}],
			"wind": {"speed": 1}
		}`)
	})
}

func freePort() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = ln.Close()
	}()
	_, port, err := net.SplitHostPort(ln.Addr().String())
	return port, err
}

func waitHealthy(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url) //nolint:noctx
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("server at %s did not become healthy", url)
}
