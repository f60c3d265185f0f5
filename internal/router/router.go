package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/weatherflick/weather-travel-api/internal/api/airquality"
	"github.com/weatherflick/weather-travel-api/internal/api/auth"
	"github.com/weatherflick/weather-travel-api/internal/api/chat"
	"github.com/weatherflick/weather-travel-api/internal/api/places"
	"github.com/weatherflick/weather-travel-api/internal/api/plan"
	"github.com/weatherflick/weather-travel-api/internal/api/recommend"
	"github.com/weatherflick/weather-travel-api/internal/api/tour"
	"github.com/weatherflick/weather-travel-api/internal/api/weather"
)

// Config contains the handlers and middleware needed for the router setup.
type Config struct {
	AuthHandler       auth.Handler
	WeatherHandler    weather.Handler
	AirQualityHandler airquality.Handler
	PlacesHandler     places.Handler
	TourHandler       tour.Handler
	ChatHandler       chat.Handler
	PlanHandler       plan.Handler
	RecommendHandler  recommend.Handler

	AuthenticateMiddleware func(http.Handler) http.Handler
	OptionalAuthMiddleware func(http.Handler) http.Handler
	RequireAdminMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Public routes, no token required.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshToken)
			r.Get("/auth/google/login", cfg.AuthHandler.GoogleLogin)
			r.Get("/auth/google/callback", cfg.AuthHandler.GoogleCallback)

			r.Route("/weather", func(r chi.Router) {
				r.Get("/current", cfg.WeatherHandler.GetCurrent)
				r.Get("/current/{city}", cfg.WeatherHandler.GetCurrentByCity)
				r.Get("/forecast/{city}", cfg.WeatherHandler.GetForecastByCity)
				r.Get("/cities", cfg.WeatherHandler.GetSupportedCities)

				r.Route("/kma", func(r chi.Router) {
					r.Get("/provinces", cfg.WeatherHandler.GetKMAProvinces)
					r.Get("/current/{city}", cfg.WeatherHandler.GetKMACurrent)
					r.Get("/province/{province}", cfg.WeatherHandler.GetKMACurrentByProvince)
					r.Get("/forecast/short/{city}", cfg.WeatherHandler.GetKMAShortForecast)
					r.Get("/forecast/mid/{city}", cfg.WeatherHandler.GetKMAMidForecast)
					r.Get("/warnings/{area}", cfg.WeatherHandler.GetKMAWarnings)
					r.Get("/coordinates/{city}", cfg.WeatherHandler.GetKMACoordinates)
				})
			})

			r.Route("/air-quality", func(r chi.Router) {
				r.Get("/current/{city}", cfg.AirQualityHandler.GetCurrent)
				r.Get("/forecast/{city}", cfg.AirQualityHandler.GetForecast)
				r.Get("/stations", cfg.AirQualityHandler.GetNearbyStations)
				r.Get("/cities", cfg.AirQualityHandler.GetSupportedCities)
			})

			r.Route("/places", func(r chi.Router) {
				r.Get("/search", cfg.PlacesHandler.SearchPlaces)
				r.Get("/nearby", cfg.PlacesHandler.GetNearbyPlaces)
				r.Get("/restaurants", cfg.PlacesHandler.GetNearbyRestaurants)
				r.Get("/hotels", cfg.PlacesHandler.GetNearbyHotels)
				r.Get("/transit", cfg.PlacesHandler.GetNearbyTransit)
				r.Get("/route", cfg.PlacesHandler.GetRouteGuidance)
				r.Get("/coordinates/{city}", cfg.PlacesHandler.GetCityCoordinates)
				r.Get("/cities", cfg.PlacesHandler.GetSupportedCities)
				r.Get("/map-urls", cfg.PlacesHandler.GetMapURLs)
			})

			r.Route("/tour", func(r chi.Router) {
				r.Get("/festivals/{city}", cfg.TourHandler.GetFestivalsByCity)
				r.Get("/attractions/search", cfg.TourHandler.SearchAttractions)
				r.Get("/attractions/city/{city}", cfg.TourHandler.GetAttractionsByCity)
				r.Get("/attractions/{contentID}", cfg.TourHandler.GetAttraction)
				r.Get("/areas", cfg.TourHandler.GetSupportedAreas)
			})
		})

		// Token optional, anonymous allowed. Handlers that need an identity
		// respond 401 themselves.
		r.Group(func(r chi.Router) {
			r.Use(cfg.OptionalAuthMiddleware)

			r.Route("/chat", func(r chi.Router) {
				r.Post("/message", cfg.ChatHandler.SendMessage)
				r.Get("/history", cfg.ChatHandler.GetHistory)
				r.Delete("/history", cfg.ChatHandler.ClearHistory)
				r.Get("/initial", cfg.ChatHandler.GetInitialMessage)
				r.Get("/config", cfg.ChatHandler.GetConfig)
			})

			r.Get("/recommendations", cfg.RecommendHandler.GetRecommendations)
			r.Get("/plans/shared/{token}", cfg.PlanHandler.GetSharedPlan)
		})

		// Token required.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Get("/auth/me", cfg.AuthHandler.Me)
			r.Put("/auth/change-password", cfg.AuthHandler.ChangePassword)

			r.Route("/plans", func(r chi.Router) {
				r.Post("/", cfg.PlanHandler.CreatePlan)
				r.Get("/", cfg.PlanHandler.ListPlans)

				r.Route("/{planID}", func(r chi.Router) {
					r.Get("/", cfg.PlanHandler.GetPlan)
					r.Put("/", cfg.PlanHandler.UpdatePlan)
					r.Delete("/", cfg.PlanHandler.DeletePlan)

					r.Post("/share", cfg.PlanHandler.CreateShareLink)
					r.Get("/shares", cfg.PlanHandler.ListShareLinks)
					r.Put("/shares/{shareID}", cfg.PlanHandler.UpdateShareLink)
					r.Delete("/shares/{shareID}", cfg.PlanHandler.RevokeShareLink)

					r.Post("/versions", cfg.PlanHandler.CreateVersion)
					r.Get("/versions", cfg.PlanHandler.ListVersions)
					r.Post("/versions/{versionNumber}/restore", cfg.PlanHandler.RestoreVersion)

					r.Post("/comments", cfg.PlanHandler.AddComment)
					r.Get("/comments", cfg.PlanHandler.ListComments)
					r.Delete("/comments/{commentID}", cfg.PlanHandler.DeleteComment)

					r.Post("/collaborators", cfg.PlanHandler.InviteCollaborator)
					r.Get("/collaborators", cfg.PlanHandler.ListCollaborators)
					r.Delete("/collaborators/{userID}", cfg.PlanHandler.RemoveCollaborator)

					r.Post("/bookmark", cfg.PlanHandler.ToggleBookmark)

					r.Put("/routes", cfg.PlanHandler.UpsertRoute)
					r.Get("/routes", cfg.PlanHandler.ListRoutes)
					r.Delete("/routes/{routeOrder}", cfg.PlanHandler.DeleteRoute)
				})
			})

			r.Get("/bookmarks", cfg.PlanHandler.ListBookmarks)
		})

		// Admin only.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)
			r.Use(cfg.RequireAdminMiddleware)

			r.Get("/admin/users", cfg.AuthHandler.ListUsers)
			r.Post("/admin/users/{userID}/deactivate", cfg.AuthHandler.DeactivateUser)
		})
	})

	return r
}
