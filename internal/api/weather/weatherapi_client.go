package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

// weatherAPICurrentPayload is the subset of the WeatherAPI current.json
// response we consume.
type weatherAPILocation struct {
	Name      string `json:"name"`
	Country   string `json:"country"`
	Region    string `json:"region"`
	TzID      string `json:"tz_id"`
	Localtime string `json:"localtime"`
}

type weatherAPICondition struct {
	Code int    `json:"code"`
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type weatherAPICurrent struct {
	TempC      float64             `json:"temp_c"`
	FeelslikeC float64             `json:"feelslike_c"`
	Condition  weatherAPICondition `json:"condition"`
	Humidity   int                 `json:"humidity"`
	WindKph    float64             `json:"wind_kph"`
	WindDegree int                 `json:"wind_degree"`
	PressureMb float64             `json:"pressure_mb"`
	VisKm      float64             `json:"vis_km"`
	UV         float64             `json:"uv"`
}

type weatherAPIDay struct {
	MaxtempC          float64             `json:"maxtemp_c"`
	MintempC          float64             `json:"mintemp_c"`
	Condition         weatherAPICondition `json:"condition"`
	AvgHumidity       float64             `json:"avghumidity"`
	MaxwindKph        float64             `json:"maxwind_kph"`
	DailyChanceOfRain int                 `json:"daily_chance_of_rain"`
}

type weatherAPIForecastDay struct {
	Date string        `json:"date"`
	Day  weatherAPIDay `json:"day"`
}

type weatherAPIResponse struct {
	Location weatherAPILocation `json:"location"`
	Current  weatherAPICurrent  `json:"current"`
	Forecast struct {
		Forecastday []weatherAPIForecastDay `json:"forecastday"`
	} `json:"forecast"`
}

// WeatherAPIClient talks to the commercial WeatherAPI service.
type WeatherAPIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

func NewWeatherAPIClient(baseURL, apiKey string, logger *slog.Logger) *WeatherAPIClient {
	return &WeatherAPIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// LocationQuery is either a city name (optionally with country) or a
// lat,lon pair. Coordinates win when both are set.
type LocationQuery struct {
	City    string
	Country string
	Lat     *float64
	Lon     *float64
}

func (q LocationQuery) queryString() (string, error) {
	if q.Lat != nil && q.Lon != nil {
		return fmt.Sprintf("%g,%g", *q.Lat, *q.Lon), nil
	}
	if q.City == "" {
		return "", api.ErrBadLocation
	}
	if q.Country != "" {
		return q.City + "," + q.Country, nil
	}
	return q.City, nil
}

func (c *WeatherAPIClient) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("weather api request: %w", ctx.Err())
		}
		c.logger.WarnContext(ctx, "WeatherAPI request failed", slog.Any("error", err))
		return fmt.Errorf("weather api request: %w", api.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return api.ErrBadLocation
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("weather api auth rejected: %w", api.ErrProviderUnavailable)
	default:
		return fmt.Errorf("weather api status %d: %w", resp.StatusCode, api.ErrProviderUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode weather api response: %w", err)
	}
	return nil
}

// Current fetches current conditions. lang follows WeatherAPI's lang codes.
func (c *WeatherAPIClient) Current(ctx context.Context, q LocationQuery, lang string) (*types.CurrentWeather, error) {
	locQuery, err := q.queryString()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", locQuery)
	params.Set("lang", lang)
	params.Set("aqi", "no")

	var payload weatherAPIResponse
	if err := c.get(ctx, "/current.json", params, &payload); err != nil {
		return nil, err
	}

	return &types.CurrentWeather{
		City:    payload.Location.Name,
		Country: payload.Location.Country,
		Region:  payload.Location.Region,
		Current: types.CurrentConditions{
			Temperature:   payload.Current.TempC,
			FeelsLike:     payload.Current.FeelslikeC,
			Condition:     strconv.Itoa(payload.Current.Condition.Code),
			Description:   payload.Current.Condition.Text,
			Icon:          payload.Current.Condition.Icon,
			Humidity:      payload.Current.Humidity,
			WindSpeed:     payload.Current.WindKph,
			WindDirection: payload.Current.WindDegree,
			Pressure:      payload.Current.PressureMb,
			Visibility:    payload.Current.VisKm,
			UVIndex:       payload.Current.UV,
		},
		Timezone:  payload.Location.TzID,
		LocalTime: payload.Location.Localtime,
	}, nil
}

// Forecast fetches the daily forecast. days is capped at 14 by the provider.
func (c *WeatherAPIClient) Forecast(ctx context.Context, q LocationQuery, days int, lang string) (*types.Forecast, error) {
	locQuery, err := q.queryString()
	if err != nil {
		return nil, err
	}
	if days > 14 {
		days = 14
	}

	params := url.Values{}
	params.Set("q", locQuery)
	params.Set("days", strconv.Itoa(days))
	params.Set("lang", lang)
	params.Set("aqi", "no")

	var payload weatherAPIResponse
	if err := c.get(ctx, "/forecast.json", params, &payload); err != nil {
		return nil, err
	}

	forecastDays := make([]types.ForecastDay, 0, len(payload.Forecast.Forecastday))
	for _, day := range payload.Forecast.Forecastday {
		forecastDays = append(forecastDays, types.ForecastDay{
			Date:                day.Date,
			TemperatureMax:      day.Day.MaxtempC,
			TemperatureMin:      day.Day.MintempC,
			Condition:           strconv.Itoa(day.Day.Condition.Code),
			Description:         day.Day.Condition.Text,
			Icon:                day.Day.Condition.Icon,
			Humidity:            int(day.Day.AvgHumidity),
			WindSpeed:           day.Day.MaxwindKph,
			PrecipitationChance: day.Day.DailyChanceOfRain,
		})
	}

	return &types.Forecast{
		City:     payload.Location.Name,
		Country:  payload.Location.Country,
		Region:   payload.Location.Region,
		Forecast: forecastDays,
		Timezone: payload.Location.TzID,
	}, nil
}
