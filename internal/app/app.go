package app

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fxdesk/internal/calendar"
	"fxdesk/internal/config"
	apierrors "fxdesk/internal/errors"
	"fxdesk/internal/infrastructure"
	customMiddleware "fxdesk/internal/middleware"
	"fxdesk/internal/services"
	"fxdesk/internal/store"
	handlers "fxdesk/internal/transport/http"
	"fxdesk/pkg/contracts"
)

const AppName = "fxdesk - KRW forward pricing desk"

var (
	// BuildTime is set at compile time
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(contracts.Version))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Store         *store.Store
	Services      *ServiceContainer
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.Metrics
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Calendar   *services.CalendarService
	Pricing    *services.PricingService
	Rates      *services.RateService
	SwapPoints *services.SwapPointService
	Health     *services.HealthService
}

// NewApplication loads the configuration and wires the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return New(cfg)
}

// New wires the application around an already loaded configuration.
func New(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("build_id", BuildID))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, contracts.Version, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	if err := app.initializeServices(context.Background()); err != nil {
		app.closeResources(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices opens the store and builds the services on top of it
func (a *Application) initializeServices(ctx context.Context) error {
	st, err := store.Open(ctx, a.Config.Storage, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	a.Store = st

	cal, err := services.NewCalendarService(calendar.NewDefault(), a.Config.Calendar, a.Metrics, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to load holidays: %w", err)
	}

	pricing := services.NewPricingService(services.PricingDeps{
		Pairs:      st,
		Rates:      st,
		Spreads:    st,
		SwapPoints: st,
		Calendar:   cal,
		Metrics:    a.Metrics,
	}, a.Config.Market, a.Config.Quote, a.Logger)

	a.Services = &ServiceContainer{
		Calendar:   cal,
		Pricing:    pricing,
		Rates:      services.NewRateService(st, st, st, a.Metrics, a.Config.Market, a.Config.Quote, a.Logger),
		SwapPoints: services.NewSwapPointService(st, st, a.Metrics, a.Logger),
		Health: services.NewHealthService(services.BuildInfo{
			Version:   contracts.Version,
			BuildTime: BuildTime,
			BuildID:   BuildID,
		}, st, cal, a.Logger),
	}

	info := cal.Info()
	a.Logger.Info("Services initialized",
		slog.String("holidays", info.Version),
		slog.Int("kr_holidays", info.KR),
		slog.Int("us_holidays", info.US))
	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	validation := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(validation.ValidateRequest)
		r.Use(customMiddleware.ContentTypeValidator("application/json", "multipart/form-data"))

		handlers.NewHealthHandler(a.Services.Health, a.Logger).RegisterRoutes(r)

		calendarHandler := handlers.NewCalendarHandler(a.Services.Calendar, a.Logger, errorHandler)
		r.Mount("/calendar", calendarHandler.Routes())

		forwardHandler := handlers.NewForwardHandler(a.Services.Pricing, a.Logger, errorHandler)
		r.Mount("/forward", forwardHandler.Routes())

		pairHandler := handlers.NewCurrencyPairHandler(a.Store, a.Services.Pricing, a.Services.SwapPoints,
			a.Config.Server.MaxUploadBytes, a.Logger, errorHandler)
		r.Mount("/currency-pairs", pairHandler.Routes())

		referenceHandler := handlers.NewReferenceDataHandler(a.Services.Rates, a.Logger, errorHandler)
		r.Mount("/market-rates", referenceHandler.MarketRateRoutes())
		r.Mount("/spread-settings", referenceHandler.SpreadSettingRoutes())

		rateHandler := handlers.NewRateHandler(a.Services.Rates, a.Logger, errorHandler)
		r.Mount("/rates", rateHandler.Routes())

		amountHandler := handlers.NewAmountHandler(a.Logger, errorHandler)
		r.Mount("/amounts", amountHandler.Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts serving in the background. cancel is called if the listener
// fails.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if status := a.Services.Health.ReadinessCheck(ctx); status.Status != "ready" {
		a.Logger.WarnContext(ctx, "Startup readiness check failed", slog.Any("services", status.Services))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if a.Server != nil {
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	a.closeResources(shutdownCtx)

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

func (a *Application) closeResources(ctx context.Context) {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.ErrorContext(ctx, "Error closing store", slog.String("error", err.Error()))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}
}

// Run starts the application and blocks until SIGINT/SIGTERM or a server
// failure, then shuts down.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
