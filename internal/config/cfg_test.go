package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-dashboard/internal/config"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "secret")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, ":3000", cfg.ServerAddress())
	assert.Equal(t, "secret", cfg.WeatherAPIKey)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/weather", cfg.OpenWeatherMapURL)
	assert.Equal(t, `"Weather App" <weather@example.com>`, cfg.Email.From)
	assert.Equal(t, uint32(5), cfg.Breaker.RepeatNumber)
	assert.False(t, cfg.Email.HasSMTPCredentials())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_USER", "bot")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ServerAddress())
	assert.True(t, cfg.Email.HasSMTPCredentials())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestNewConfig_InvalidBreaker(t *testing.T) {
	t.Setenv("BREAKER_REPEAT_NUM", "many")

	_, err := config.NewConfig()
	assert.Error(t, err)
}
