package airquality

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

type weatherAPIAirQualityPayload struct {
	Location struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
	} `json:"location"`
	Current struct {
		AirQuality struct {
			CO         float64 `json:"co"`
			NO2        float64 `json:"no2"`
			O3         float64 `json:"o3"`
			SO2        float64 `json:"so2"`
			PM25       float64 `json:"pm2_5"`
			PM10       float64 `json:"pm10"`
			USEPAIndex int     `json:"us-epa-index"`
		} `json:"air_quality"`
	} `json:"current"`
}

// WeatherAPIAirQualityClient reads pollutant data off WeatherAPI's current
// conditions endpoint. Grades for individual pollutants follow the US EPA
// index since WeatherAPI does not report per pollutant bands.
type WeatherAPIAirQualityClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
	now        func() time.Time
}

func NewWeatherAPIAirQualityClient(baseURL, apiKey string, logger *slog.Logger) *WeatherAPIAirQualityClient {
	return &WeatherAPIAirQualityClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
		now:        time.Now,
	}
}

func (c *WeatherAPIAirQualityClient) Name() string { return "WeatherAPI" }

func (c *WeatherAPIAirQualityClient) Enabled() bool { return c.apiKey != "" }

func (c *WeatherAPIAirQualityClient) Current(ctx context.Context, city string) (*types.AirQuality, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", city)
	params.Set("aqi", "yes")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/current.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("weatherapi air quality request: %w", ctx.Err())
		}
		return nil, fmt.Errorf("weatherapi air quality request: %w", api.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, fmt.Errorf("unknown location %q: %w", city, api.ErrBadLocation)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weatherapi air quality status %d: %w", resp.StatusCode, api.ErrProviderUnavailable)
	}

	var payload weatherAPIAirQualityPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode weatherapi air quality response: %w", err)
	}

	aq := payload.Current.AirQuality
	grade := gradeFromUSAQI(aq.USEPAIndex)
	lat := payload.Location.Lat
	lon := payload.Location.Lon

	return &types.AirQuality{
		City:        city,
		Source:      c.Name(),
		Timestamp:   c.now().Format(time.RFC3339),
		PM10:        types.PollutantReading{Value: aq.PM10, Grade: grade, Unit: "㎍/㎥"},
		PM25:        types.PollutantReading{Value: aq.PM25, Grade: grade, Unit: "㎍/㎥"},
		O3:          types.PollutantReading{Value: aq.O3, Grade: grade, Unit: "ppm"},
		NO2:         types.PollutantReading{Value: aq.NO2, Grade: grade, Unit: "ppm"},
		CO:          types.PollutantReading{Value: aq.CO, Grade: grade, Unit: "ppm"},
		SO2:         types.PollutantReading{Value: aq.SO2, Grade: grade, Unit: "ppm"},
		AQI:         simpleAQI(aq.PM10, aq.PM25),
		StationName: city + " WeatherAPI",
		Latitude:    &lat,
		Longitude:   &lon,
	}, nil
}
