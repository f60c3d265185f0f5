package types

import "github.com/google/uuid"

type Destination struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Province             string    `json:"province"`
	Region               *string   `json:"region,omitempty"`
	Category             *string   `json:"category,omitempty"`
	IsIndoor             bool      `json:"is_indoor"`
	Tags                 []string  `json:"tags"`
	Latitude             *float64  `json:"latitude,omitempty"`
	Longitude            *float64  `json:"longitude,omitempty"`
	ImageURL             *string   `json:"image_url,omitempty"`
	Rating               *float64  `json:"rating,omitempty"`
	RecommendationWeight *float64  `json:"recommendation_weight,omitempty"`
}

type ScoredDestination struct {
	Destination
	Score       float64  `json:"score"`
	MatchedTags []string `json:"matched_tags"`
}

type RecommendationRequest struct {
	City  string `json:"city"`
	Limit int    `json:"limit,omitempty"`
}

type RecommendationResponse struct {
	City            string              `json:"city"`
	WeatherSummary  *CurrentWeather     `json:"weather_summary,omitempty"`
	AirQuality      *AirQuality         `json:"air_quality,omitempty"`
	WeatherTags     []string            `json:"weather_tags"`
	Recommendations []ScoredDestination `json:"recommendations"`
}
