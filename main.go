package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/weatherflick/weather-travel-api/app/db"
	appLogger "github.com/weatherflick/weather-travel-api/app/logger"
	"github.com/weatherflick/weather-travel-api/app/observability/metrics"
	"github.com/weatherflick/weather-travel-api/app/tracer"
	"github.com/weatherflick/weather-travel-api/config"
	"github.com/weatherflick/weather-travel-api/internal/api/airquality"
	"github.com/weatherflick/weather-travel-api/internal/api/auth"
	"github.com/weatherflick/weather-travel-api/internal/api/chat"
	generativeAI "github.com/weatherflick/weather-travel-api/internal/api/generative_ai"
	"github.com/weatherflick/weather-travel-api/internal/api/places"
	"github.com/weatherflick/weather-travel-api/internal/api/plan"
	"github.com/weatherflick/weather-travel-api/internal/api/recommend"
	"github.com/weatherflick/weather-travel-api/internal/api/tour"
	"github.com/weatherflick/weather-travel-api/internal/api/weather"
	"github.com/weatherflick/weather-travel-api/internal/router"
)

const serviceName = "weather-travel-api"

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := tracer.InitTracingAndMetrics(serviceName, cfg.Handlers.Prometheus.Port, logger); err != nil {
		logger.Warn("Tracing and metrics disabled", slog.Any("error", err))
	}
	metrics.InitAppMetrics()

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before initializing the main pool.
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	auth.SetupGoth(cfg.OAuth)

	// --- Auth ---
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewHandlerImpl(authService, logger)

	// --- Weather ---
	weatherAPIClient := weather.NewWeatherAPIClient(cfg.Providers.WeatherAPIURL, cfg.Providers.WeatherAPIKey, logger)
	kmaClient := weather.NewKMAClient(cfg.Providers.KMAAPIURL, cfg.Providers.KMAAPIKey, logger)
	weatherService := weather.NewWeatherService(weatherAPIClient, kmaClient, logger)
	weatherHandler := weather.NewHandlerImpl(weatherService, logger)

	// --- Air quality provider chain: public data portal, WeatherAPI, builtin ---
	publicDataClient := airquality.NewPublicDataClient(cfg.Providers.PublicDataAPIURL, cfg.Providers.PublicDataAPIKey, logger)
	weatherAPIAirClient := airquality.NewWeatherAPIAirQualityClient(cfg.Providers.WeatherAPIURL, cfg.Providers.WeatherAPIKey, logger)
	builtinAirProvider := airquality.NewBuiltinProvider()
	airQualityService := airquality.NewAirQualityService(
		[]airquality.CurrentProvider{publicDataClient, weatherAPIAirClient, builtinAirProvider},
		[]airquality.ForecastProvider{publicDataClient, builtinAirProvider},
		[]airquality.StationProvider{publicDataClient, builtinAirProvider},
		logger,
	)
	airQualityHandler := airquality.NewHandlerImpl(airQualityService, logger)

	// --- Places ---
	naverClient := places.NewNaverClient(cfg.Providers.NaverSearchURL, cfg.Providers.NaverClientID, cfg.Providers.NaverClientSecret, logger)
	placesService := places.NewPlacesService(naverClient, logger)
	placesHandler := places.NewHandlerImpl(placesService, logger)

	// --- Tour ---
	tourClient := tour.NewTourAPIClient(cfg.Providers.TourAPIURL, cfg.Providers.TourAPIKey, "", logger)
	attractionsRepo := tour.NewPostgresAttractionsRepo(pool, logger)
	tourService := tour.NewTourService(tourClient, attractionsRepo, logger)
	tourHandler := tour.NewHandlerImpl(tourService, logger)

	// --- Chat ---
	var textGenerator chat.TextGenerator
	if cfg.Providers.GeminiAPIKey != "" {
		aiClient, err := generativeAI.NewAIClient(ctx, cfg.Providers.GeminiAPIKey, cfg.Providers.GeminiModel)
		if err != nil {
			logger.Warn("Gemini client unavailable, chat stays rule-based", slog.Any("error", err))
		} else {
			textGenerator = chat.NewGeminiGenerator(aiClient)
		}
	}
	chatRepo := chat.NewPostgresChatRepo(pool, logger)
	chatService := chat.NewChatService(chatRepo, textGenerator, logger)
	chatHandler := chat.NewHandlerImpl(chatService, logger)

	// --- Plans ---
	planRepo := plan.NewPostgresPlanRepo(pool, logger)
	planService := plan.NewPlanService(planRepo, cfg.Server.ShareBaseURL, logger)
	planHandler := plan.NewHandlerImpl(planService, logger)

	// --- Recommendations ---
	destinationsRepo := recommend.NewPostgresDestinationsRepo(pool, logger)
	recommendService := recommend.NewRecommendService(destinationsRepo, weatherService, airQualityService, authRepo, logger)
	recommendHandler := recommend.NewHandlerImpl(recommendService, logger)

	mainRouter := router.SetupRouter(&router.Config{
		AuthHandler:       authHandler,
		WeatherHandler:    weatherHandler,
		AirQualityHandler: airQualityHandler,
		PlacesHandler:     placesHandler,
		TourHandler:       tourHandler,
		ChatHandler:       chatHandler,
		PlanHandler:       planHandler,
		RecommendHandler:  recommendHandler,

		AuthenticateMiddleware: auth.Authenticate(logger, cfg.JWT),
		OptionalAuthMiddleware: auth.OptionalAuthenticate(logger, cfg.JWT),
		RequireAdminMiddleware: auth.RequireRole(logger, "admin"),
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(cfg.Server.Timeout))
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
