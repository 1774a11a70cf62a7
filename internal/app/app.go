package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Nazarious-ucu/weather-dashboard/docs"
	"github.com/Nazarious-ucu/weather-dashboard/internal/config"
	"github.com/Nazarious-ucu/weather-dashboard/internal/emailer"
	"github.com/Nazarious-ucu/weather-dashboard/internal/handlers/subscription"
	weatherhandler "github.com/Nazarious-ucu/weather-dashboard/internal/handlers/weather"
	"github.com/Nazarious-ucu/weather-dashboard/internal/metrics"
	"github.com/Nazarious-ucu/weather-dashboard/internal/middleware"
	"github.com/Nazarious-ucu/weather-dashboard/internal/notifier"
	"github.com/Nazarious-ucu/weather-dashboard/internal/repository/memory"
	"github.com/Nazarious-ucu/weather-dashboard/internal/services/email"
	"github.com/Nazarious-ucu/weather-dashboard/internal/services/favorites"
	svclogger "github.com/Nazarious-ucu/weather-dashboard/internal/services/logger"
	"github.com/Nazarious-ucu/weather-dashboard/internal/services/subscriptions"
	"github.com/Nazarious-ucu/weather-dashboard/internal/services/weather"
	"github.com/Nazarious-ucu/weather-dashboard/pkg/logger"
	"github.com/Nazarious-ucu/weather-dashboard/web"
)

const (
	timeoutDuration  = 5 * time.Second
	provisionTimeout = 30 * time.Second

	breakerName      = "OpenWeatherMap"
	accountRequestor = "weather-dashboard"
	accountVersion   = "1.0.0"
)

type ServiceContainer struct {
	WeatherService      *weather.Service
	FavoritesService    *favorites.Service
	SubscriptionService *subscriptions.Service
	EmailService        *email.Service
	Notificator         *notifier.Notifier
	Favorites           *memory.FavoritesRepository
	Subscribers         *memory.SubscriberRepository

	Router *gin.Engine
	Srv    *http.Server

	provisioner    *emailer.EtherealProvisioner
	httpLogger     *zap.Logger
	requestLogger  *zap.Logger
	stopRequestLog func() error
}

type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metrics.Metrics
}

func New(cfg config.Config, logger zerolog.Logger, m *metrics.Metrics) *App {
	logger = logger.With().Str("component", "App").Logger()
	return &App{cfg: cfg, l: logger, m: m}
}

func (a *App) Start(ctx context.Context) error {
	c, err := a.Init()
	if err != nil {
		return err
	}

	go a.initTransport(ctx, c)

	if err := c.Notificator.Start(ctx); err != nil {
		return errors.Join(err, a.Stop(c))
	}

	errCh := make(chan error, 1)
	go func() {
		a.l.Info().Str("http_addr", c.Srv.Addr).Msg("HTTP server listening")
		if err := c.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("Shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			a.l.Error().Err(err).Msg("HTTP server error")
			return errors.Join(err, a.Stop(c))
		}
	}

	return a.Stop(c)
}

func (a *App) Stop(c ServiceContainer) error {
	a.l.Info().Msg("Stopping application")

	select {
	case <-c.Notificator.Stop().Done():
		a.l.Info().Msg("Notifier stopped")
	case <-time.After(timeoutDuration):
		a.l.Warn().Msg("Notifier jobs still running, not waiting any longer")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()

	var errs []error
	if err := c.Srv.Shutdown(ctx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	if err := c.stopRequestLog(); err != nil {
		errs = append(errs, fmt.Errorf("flush request log: %w", err))
	}
	if err := c.httpLogger.Sync(); err != nil {
		errs = append(errs, fmt.Errorf("sync http log: %w", err))
	}

	a.l.Info().Msg("Application shutdown complete")
	return errors.Join(errs...)
}

// Init builds every component and the router without starting anything.
func (a *App) Init() (ServiceContainer, error) {
	a.l.Info().
		Str("http_addr", a.cfg.ServerAddress()).
		Str("weather_url", a.cfg.OpenWeatherMapURL).
		Bool("smtp_configured", a.cfg.Email.HasSMTPCredentials()).
		Msg("Initializing application")

	loc, err := notifier.ResolveLocation(a.cfg.SchedulerTimezone)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("scheduler timezone: %w", err)
	}

	httpLogger, err := logger.NewFileLogger(a.cfg.Logs.HTTPPath)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("http file logger: %w", err)
	}
	requestLogger, stopRequestLog := logger.NewLineLogger(a.cfg.Logs.RequestPath)

	httpLogClient := &http.Client{
		Transport: svclogger.NewRoundTripper(httpLogger),
	}

	openWeatherMapClient := weather.NewClientOpenWeatherMap(
		a.cfg.WeatherAPIKey,
		a.cfg.OpenWeatherMapURL,
		httpLogClient,
		a.l,
	)
	breakerClient := weather.NewBreakerClient(weather.BreakerConfig{
		Name:        breakerName,
		Window:      time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		OpenFor:     time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		MaxFailures: a.cfg.Breaker.RepeatNumber,
	}, openWeatherMapClient, a.l)
	weatherService := weather.NewService(a.l, breakerClient, a.m)

	favoritesRepo := memory.NewFavoritesRepository()
	subscriberRepo := memory.NewSubscriberRepository()

	emailService := email.NewService(a.l, a.cfg.Email.From, a.m)

	c := ServiceContainer{
		WeatherService:      weatherService,
		FavoritesService:    favorites.NewService(a.l, favoritesRepo, weatherService, a.m),
		SubscriptionService: subscriptions.NewService(a.l, subscriberRepo, emailService, a.m),
		EmailService:        emailService,
		Notificator:         notifier.NewNotifier(a.l, subscriberRepo, weatherService, emailService, a.m, loc),
		Favorites:           favoritesRepo,
		Subscribers:         subscriberRepo,

		provisioner: emailer.NewEtherealProvisioner(a.cfg.Email.EtherealAPIURL,
			accountRequestor, accountVersion, &http.Client{
				Transport: svclogger.NewRoundTripper(httpLogger, svclogger.WithoutBody()),
			}),
		httpLogger:     httpLogger,
		requestLogger:  requestLogger,
		stopRequestLog: stopRequestLog,
	}

	c.Router = a.newRouter(c)
	c.Srv = &http.Server{
		Addr:        a.cfg.ServerAddress(),
		Handler:     c.Router,
		ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return c, nil
}

func (a *App) newRouter(c ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORS(a.corsConfig()),
		svclogger.RequestLogger(c.requestLogger, a.l.With().Str("component", "RequestLog").Logger()),
		a.m.HTTPMiddleware(),
	)

	weatherHandler := weatherhandler.NewHandler(c.FavoritesService, a.l)
	subHandler := subscription.NewHandler(c.SubscriptionService, a.l)

	api := router.Group("/api")
	{
		api.GET("/weather", weatherHandler.GetWeather)
		api.POST("/weather", weatherHandler.AddCity)
		api.DELETE("/weather/:city", weatherHandler.DeleteCity)
		api.POST("/subscribe", subHandler.Subscribe)
	}

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(a.m.Handler()))
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	router.NoRoute(gin.WrapH(http.FileServer(http.FS(web.Public()))))

	return router
}

func (a *App) corsConfig() middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(a.cfg.Server.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = a.cfg.Server.AllowedOrigins
	}
	return cfg
}

// initTransport installs the mail transport once it is available. Until then
// the email service drops messages.
func (a *App) initTransport(ctx context.Context, c ServiceContainer) {
	if a.cfg.Email.HasSMTPCredentials() {
		smtpService, err := emailer.NewSMTPService(emailer.SMTPConfig{
			Host:     a.cfg.Email.Host,
			Port:     a.cfg.Email.Port,
			User:     a.cfg.Email.User,
			Password: a.cfg.Email.Password,
		}, a.l)
		if err != nil {
			a.l.Error().Err(err).Msg("SMTP transport disabled")
			a.m.TechnicalErrors.WithLabelValues("mail_transport", "warning").Inc()
			return
		}
		c.EmailService.SetTransport(smtpService)
		a.l.Info().Str("smtp_host", a.cfg.Email.Host).Msg("SMTP transport ready")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, provisionTimeout)
	defer cancel()

	account, err := c.provisioner.CreateTestAccount(ctx)
	if err != nil {
		a.l.Error().Err(err).Msg("Email will not be sent")
		a.m.TechnicalErrors.WithLabelValues("mail_transport", "warning").Inc()
		return
	}

	smtpService, err := emailer.NewSMTPService(account.SMTP, a.l)
	if err != nil {
		a.l.Error().Err(err).Msg("Email will not be sent")
		a.m.TechnicalErrors.WithLabelValues("mail_transport", "warning").Inc()
		return
	}
	c.EmailService.SetTransport(smtpService)

	a.l.Info().
		Str("user", account.User).
		Str("web", account.WebURL).
		Msg("Ethereal test account ready")
}
