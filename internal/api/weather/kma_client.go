package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

// kmaItem is one category/value row in a KMA response body.
type kmaItem struct {
	Category       string `json:"category"`
	ObsrValue      string `json:"obsrValue"`
	FcstDate       string `json:"fcstDate"`
	FcstTime       string `json:"fcstTime"`
	FcstValue      string `json:"fcstValue"`
	TmFc           string `json:"tmFc"`
	WfSv           string `json:"wfSv"`
	RnSt           string `json:"rnSt"`
	TaMax          string `json:"taMax"`
	TaMin          string `json:"taMin"`
	Area           string `json:"area"`
	WarningType    string `json:"warningType"`
	WarningLevel   string `json:"warningLevel"`
	WarningMessage string `json:"warningMessage"`
	IssueTime      string `json:"issueTime"`
	CancelTime     string `json:"cancelTime"`
}

type kmaResponse struct {
	Response struct {
		Body struct {
			Items struct {
				Item []kmaItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// KMAClient talks to the KMA endpoints on the Korean public data portal.
type KMAClient struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	logger     *slog.Logger
	now        func() time.Time
}

func NewKMAClient(baseURL, serviceKey string, logger *slog.Logger) *KMAClient {
	return &KMAClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		serviceKey: serviceKey,
		logger:     logger,
		now:        time.Now,
	}
}

func (c *KMAClient) get(ctx context.Context, path string, params url.Values) ([]kmaItem, error) {
	params.Set("serviceKey", c.serviceKey)
	params.Set("pageNo", "1")
	params.Set("dataType", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("kma request: %w", ctx.Err())
		}
		c.logger.WarnContext(ctx, "KMA request failed", slog.Any("error", err))
		return nil, fmt.Errorf("kma request: %w", api.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kma status %d: %w", resp.StatusCode, api.ErrProviderUnavailable)
	}

	var payload kmaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode kma response: %w", err)
	}
	return payload.Response.Body.Items.Item, nil
}

// Nowcast fetches the ultra-short observation for a grid cell.
func (c *KMAClient) Nowcast(ctx context.Context, nx, ny int) (*types.KMAObservation, error) {
	baseDate, baseTime := baseDateTime(c.now())

	params := url.Values{}
	params.Set("numOfRows", "1000")
	params.Set("base_date", baseDate)
	params.Set("base_time", baseTime)
	params.Set("nx", strconv.Itoa(nx))
	params.Set("ny", strconv.Itoa(ny))

	items, err := c.get(ctx, "/VilageFcstInfoService_2.0/getUltraSrtNcst", params)
	if err != nil {
		return nil, err
	}

	obs := &types.KMAObservation{NX: nx, NY: ny}
	for _, item := range items {
		value := item.ObsrValue
		switch item.Category {
		case "T1H":
			obs.Temperature, _ = strconv.ParseFloat(value, 64)
		case "RN1", "PCP":
			if value != "강수없음" {
				obs.Rainfall, _ = strconv.ParseFloat(value, 64)
			}
		case "REH":
			obs.Humidity, _ = strconv.ParseFloat(value, 64)
		case "WSD":
			obs.WindSpeed, _ = strconv.ParseFloat(value, 64)
		case "PTY":
			obs.PrecipitationType = precipitationTypeName(value)
		case "VEC":
			obs.WindDirection = windDirectionName(value)
		}
	}
	return obs, nil
}

// ShortForecast fetches the three day village forecast for a grid cell and
// folds the 3-hourly rows into daily summaries.
func (c *KMAClient) ShortForecast(ctx context.Context, nx, ny int) (*types.KMAShortForecast, error) {
	baseDate, baseTime := baseDateTime(c.now())

	params := url.Values{}
	params.Set("numOfRows", "1000")
	params.Set("base_date", baseDate)
	params.Set("base_time", baseTime)
	params.Set("nx", strconv.Itoa(nx))
	params.Set("ny", strconv.Itoa(ny))

	items, err := c.get(ctx, "/VilageFcstInfoService_2.0/getVilageFcst", params)
	if err != nil {
		return nil, err
	}

	type dayAgg struct {
		maxTemp   float64
		minTemp   float64
		totalTemp float64
		tempCount int
		pop       int
		windSpeed float64
	}
	byDate := map[string]*dayAgg{}
	for _, item := range items {
		agg, ok := byDate[item.FcstDate]
		if !ok {
			agg = &dayAgg{maxTemp: -999, minTemp: 999}
			byDate[item.FcstDate] = agg
		}
		switch item.Category {
		case "TMP":
			temp, err := strconv.ParseFloat(item.FcstValue, 64)
			if err != nil {
				continue
			}
			if temp > agg.maxTemp {
				agg.maxTemp = temp
			}
			if temp < agg.minTemp {
				agg.minTemp = temp
			}
			agg.totalTemp += temp
			agg.tempCount++
		case "POP":
			if pop, err := strconv.Atoi(item.FcstValue); err == nil && pop > agg.pop {
				agg.pop = pop
			}
		case "WSD":
			if wsd, err := strconv.ParseFloat(item.FcstValue, 64); err == nil && wsd > agg.windSpeed {
				agg.windSpeed = wsd
			}
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	forecast := make([]types.KMADailyForecast, 0, len(dates))
	for _, date := range dates {
		agg := byDate[date]
		daily := types.KMADailyForecast{
			Date:                date,
			MaxTemp:             agg.maxTemp,
			MinTemp:             agg.minTemp,
			RainfallProbability: agg.pop,
			WindSpeed:           agg.windSpeed,
		}
		if agg.tempCount > 0 {
			daily.AvgTemp = agg.totalTemp / float64(agg.tempCount)
		}
		forecast = append(forecast, daily)
	}

	return &types.KMAShortForecast{NX: nx, NY: ny, Forecast: forecast}, nil
}

// MidForecast fetches the 3 to 10 day outlook for a mid-forecast region.
func (c *KMAClient) MidForecast(ctx context.Context, regionID string) (*types.KMAMidForecast, error) {
	// Mid forecasts are issued at 06:00 and 18:00; the 06:00 bulletin covers
	// the standard daily window.
	tmFc := c.now().Format("20060102") + "0600"

	params := url.Values{}
	params.Set("numOfRows", "10")
	params.Set("tmFc", tmFc)
	params.Set("regId", regionID)

	items, err := c.get(ctx, "/MidFcstInfoService/getMidFcst", params)
	if err != nil {
		return nil, err
	}

	forecast := make([]types.KMAMidForecastDay, 0, len(items))
	for _, item := range items {
		if item.RnSt == "" {
			continue
		}
		pop, _ := strconv.Atoi(item.RnSt)
		maxTemp, _ := strconv.Atoi(item.TaMax)
		minTemp, _ := strconv.Atoi(item.TaMin)
		date := item.TmFc
		if len(date) > 8 {
			date = date[:8]
		}
		forecast = append(forecast, types.KMAMidForecastDay{
			Date:                date,
			Weather:             item.WfSv,
			RainfallProbability: pop,
			MaxTemp:             maxTemp,
			MinTemp:             minTemp,
		})
	}

	return &types.KMAMidForecast{RegionID: regionID, Forecast: forecast}, nil
}

// Warnings fetches active weather warnings for an area over the last day.
func (c *KMAClient) Warnings(ctx context.Context, area string) (*types.KMAWarningReport, error) {
	now := c.now()

	params := url.Values{}
	params.Set("numOfRows", "10")
	params.Set("fromTmFc", now.AddDate(0, 0, -1).Format("20060102"))
	params.Set("toTmFc", now.Format("20060102"))
	params.Set("area", area)

	items, err := c.get(ctx, "/WarningInfoService/getWarningInfo", params)
	if err != nil {
		return nil, err
	}

	warnings := make([]types.KMAWarning, 0, len(items))
	for _, item := range items {
		warnings = append(warnings, types.KMAWarning{
			Area:           item.Area,
			WarningType:    item.WarningType,
			WarningLevel:   item.WarningLevel,
			WarningMessage: item.WarningMessage,
			IssueTime:      item.IssueTime,
			CancelTime:     item.CancelTime,
		})
	}

	return &types.KMAWarningReport{Area: area, Warnings: warnings}, nil
}
