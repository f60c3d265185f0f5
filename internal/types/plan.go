package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Travel plan lifecycle states.
const (
	PlanStatusPlanning   = "PLANNING"
	PlanStatusConfirmed  = "CONFIRMED"
	PlanStatusInProgress = "IN_PROGRESS"
	PlanStatusCompleted  = "COMPLETED"
	PlanStatusCancelled  = "CANCELLED"
)

// Share and collaborator permissions.
const (
	PermissionView = "view"
	PermissionEdit = "edit"
)

func ValidPlanStatus(s string) bool {
	switch s {
	case PlanStatusPlanning, PlanStatusConfirmed, PlanStatusInProgress, PlanStatusCompleted, PlanStatusCancelled:
		return true
	}
	return false
}

type TravelPlan struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Title          string          `json:"title"`
	Description    *string         `json:"description,omitempty"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	Budget         *float64        `json:"budget,omitempty"`
	Status         string          `json:"status"`
	Itinerary      json.RawMessage `json:"itinerary,omitempty"`
	Participants   *int            `json:"participants,omitempty"`
	Transportation *string         `json:"transportation,omitempty"`
	StartLocation  *string         `json:"start_location,omitempty"`
	WeatherInfo    json.RawMessage `json:"weather_info,omitempty"`
	PlanType       string          `json:"plan_type"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CreateTravelPlanRequest struct {
	Title          string          `json:"title"`
	Description    *string         `json:"description,omitempty"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	Budget         *float64        `json:"budget,omitempty"`
	Status         string          `json:"status,omitempty"`
	Itinerary      json.RawMessage `json:"itinerary,omitempty"`
	Participants   *int            `json:"participants,omitempty"`
	Transportation *string         `json:"transportation,omitempty"`
	StartLocation  *string         `json:"start_location,omitempty"`
	WeatherInfo    json.RawMessage `json:"weather_info,omitempty"`
	PlanType       string          `json:"plan_type,omitempty"`
}

type UpdateTravelPlanRequest struct {
	Title          *string         `json:"title,omitempty"`
	Description    *string         `json:"description,omitempty"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
	Budget         *float64        `json:"budget,omitempty"`
	Status         *string         `json:"status,omitempty"`
	Itinerary      json.RawMessage `json:"itinerary,omitempty"`
	Participants   *int            `json:"participants,omitempty"`
	Transportation *string         `json:"transportation,omitempty"`
	StartLocation  *string         `json:"start_location,omitempty"`
	WeatherInfo    json.RawMessage `json:"weather_info,omitempty"`
}

type PaginatedTravelPlans struct {
	Plans    []TravelPlan `json:"plans"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Total    int          `json:"total"`
}

type PlanShare struct {
	ID         uuid.UUID  `json:"share_id"`
	PlanID     uuid.UUID  `json:"plan_id"`
	ShareToken string     `json:"share_token"`
	ShareLink  string     `json:"share_link"`
	Permission string     `json:"permission"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	MaxUses    *int       `json:"max_uses,omitempty"`
	UseCount   int        `json:"use_count"`
	IsActive   bool       `json:"is_active"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

type CreateShareRequest struct {
	Permission string     `json:"permission,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	MaxUses    *int       `json:"max_uses,omitempty"`
}

type UpdateShareRequest struct {
	IsActive *bool `json:"is_active"`
}

// SharedPlan is a plan viewed through a share link, with derived permissions.
type SharedPlan struct {
	TravelPlan
	CanEdit         bool          `json:"can_edit"`
	SharePermission string        `json:"share_permission"`
	Comments        []PlanComment `json:"comments"`
}

type PlanVersion struct {
	ID                uuid.UUID       `json:"version_id"`
	PlanID            uuid.UUID       `json:"plan_id"`
	VersionNumber     int             `json:"version_number"`
	Title             *string         `json:"title,omitempty"`
	Description       *string         `json:"description,omitempty"`
	Itinerary         json.RawMessage `json:"itinerary,omitempty"`
	ChangeDescription *string         `json:"change_description,omitempty"`
	CreatedBy         uuid.UUID       `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
}

type CreateVersionRequest struct {
	ChangeDescription *string `json:"change_description,omitempty"`
}

type PlanComment struct {
	ID              uuid.UUID  `json:"comment_id"`
	PlanID          uuid.UUID  `json:"plan_id"`
	UserID          uuid.UUID  `json:"user_id"`
	UserNickname    string     `json:"user_nickname"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
	Content         string     `json:"content"`
	DayNumber       *int       `json:"day_number,omitempty"`
	PlaceIndex      *int       `json:"place_index,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CreateCommentRequest struct {
	Content         string     `json:"content"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
	DayNumber       *int       `json:"day_number,omitempty"`
	PlaceIndex      *int       `json:"place_index,omitempty"`
}

type Collaborator struct {
	ID           int64      `json:"id"`
	PlanID       uuid.UUID  `json:"plan_id"`
	UserID       uuid.UUID  `json:"user_id"`
	UserNickname string     `json:"user_nickname"`
	UserEmail    string     `json:"user_email"`
	Permission   string     `json:"permission"`
	InvitedBy    uuid.UUID  `json:"invited_by"`
	JoinedAt     time.Time  `json:"joined_at"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`
}

type InviteCollaboratorRequest struct {
	Email      string `json:"email"`
	Permission string `json:"permission,omitempty"`
}

type BookmarkResult struct {
	Bookmarked bool   `json:"bookmarked"`
	Message    string `json:"message"`
}

type TravelRoute struct {
	ID                 uuid.UUID       `json:"id"`
	PlanID             uuid.UUID       `json:"plan_id"`
	OriginPlaceID      *string         `json:"origin_place_id,omitempty"`
	DestinationPlaceID *string         `json:"destination_place_id,omitempty"`
	RouteOrder         int             `json:"route_order"`
	TransportMode      *string         `json:"transport_mode,omitempty"`
	DurationMinutes    *int            `json:"duration_minutes,omitempty"`
	DistanceKm         *float64        `json:"distance_km,omitempty"`
	RouteData          json.RawMessage `json:"route_data,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type UpsertRouteRequest struct {
	OriginPlaceID      *string         `json:"origin_place_id,omitempty"`
	DestinationPlaceID *string         `json:"destination_place_id,omitempty"`
	RouteOrder         int             `json:"route_order"`
	TransportMode      *string         `json:"transport_mode,omitempty"`
	DurationMinutes    *int            `json:"duration_minutes,omitempty"`
	DistanceKm         *float64        `json:"distance_km,omitempty"`
	RouteData          json.RawMessage `json:"route_data,omitempty"`
}
