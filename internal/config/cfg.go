package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Host        string `envconfig:"HOST"`
	Port        string `envconfig:"PORT"           default:"3000"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`

	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

type Email struct {
	Host     string `envconfig:"EMAIL_HOST"`
	Port     string `envconfig:"EMAIL_PORT"     default:"587"`
	User     string `envconfig:"EMAIL_USER"`
	Password string `envconfig:"EMAIL_PASSWORD"`
	From     string `envconfig:"EMAIL_FROM"     default:"\"Weather App\" <weather@example.com>"`

	EtherealAPIURL string `envconfig:"ETHEREAL_API_URL" default:"https://api.nodemailer.com/user"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL"   default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT"    default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Logs struct {
	AppPath     string `envconfig:"LOGS_PATH"        default:"./logs/weather-dashboard.log"`
	RequestPath string `envconfig:"REQUEST_LOG_PATH" default:"./logs/requests.log"`
	HTTPPath    string `envconfig:"HTTP_LOG_PATH"    default:"./logs/weather-client.log"`
}

type Config struct {
	WeatherAPIKey     string `envconfig:"WEATHER_API_KEY"`
	OpenWeatherMapURL string `envconfig:"OPEN_WEATHER_MAP_URL" default:"https://api.openweathermap.org/data/2.5/weather"`

	// SchedulerTimezone is an IANA name; empty means the process local time.
	SchedulerTimezone string `envconfig:"SCHEDULER_TIMEZONE"`

	Server  Server
	Email   Email
	Breaker Breaker
	Logs    Logs
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// HasSMTPCredentials reports whether a real SMTP relay was configured, in which case
// no disposable test account is provisioned.
func (e *Email) HasSMTPCredentials() bool {
	return e.Host != "" && e.User != ""
}
