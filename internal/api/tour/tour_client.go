package tour

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

type tourAPIFestivalItem struct {
	Addr1          string `json:"addr1"`
	ContentID      string `json:"contentid"`
	EventStartDate string `json:"eventstartdate"`
	EventEndDate   string `json:"eventenddate"`
	FirstImage     string `json:"firstimage"`
	MapX           string `json:"mapx"`
	MapY           string `json:"mapy"`
	AreaCode       string `json:"areacode"`
	Tel            string `json:"tel"`
	Title          string `json:"title"`
}

type tourAPIResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []tourAPIFestivalItem `json:"item"`
			} `json:"items"`
			TotalCount int `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// TourAPIClient calls the Korea Tourism Organization festival search service.
type TourAPIClient struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	appName    string
	logger     *slog.Logger
}

func NewTourAPIClient(baseURL, serviceKey, appName string, logger *slog.Logger) *TourAPIClient {
	if appName == "" {
		appName = "WeatherTravelAPI"
	}
	return &TourAPIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		serviceKey: serviceKey,
		appName:    appName,
		logger:     logger,
	}
}

func (c *TourAPIClient) Enabled() bool { return c.serviceKey != "" }

func (c *TourAPIClient) SearchFestivals(ctx context.Context, areaCode, eventStartDate string, limit int) ([]types.Festival, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("tour api key not configured: %w", api.ErrProviderUnavailable)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	params := url.Values{}
	params.Set("serviceKey", c.serviceKey)
	params.Set("MobileOS", "ETC")
	params.Set("MobileApp", c.appName)
	params.Set("_type", "json")
	params.Set("arrange", "A")
	params.Set("numOfRows", strconv.Itoa(limit))
	params.Set("pageNo", "1")
	params.Set("eventStartDate", eventStartDate)
	if areaCode != "" {
		params.Set("areaCode", areaCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/searchFestival1?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("tour api request: %w", ctx.Err())
		}
		return nil, fmt.Errorf("tour api request: %w", api.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tour api status %d: %w", resp.StatusCode, api.ErrProviderUnavailable)
	}

	var payload tourAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tour api response: %w", err)
	}
	if code := payload.Response.Header.ResultCode; code != "0000" {
		return nil, fmt.Errorf("tour api result %s (%s): %w", code, payload.Response.Header.ResultMsg, api.ErrProviderUnavailable)
	}

	festivals := make([]types.Festival, 0, len(payload.Response.Body.Items.Item))
	for _, item := range payload.Response.Body.Items.Item {
		festivals = append(festivals, types.Festival{
			ContentID:      item.ContentID,
			Title:          item.Title,
			Address:        item.Addr1,
			EventStartDate: item.EventStartDate,
			EventEndDate:   item.EventEndDate,
			FirstImage:     item.FirstImage,
			MapX:           item.MapX,
			MapY:           item.MapY,
			AreaCode:       item.AreaCode,
			Tel:            item.Tel,
		})
	}
	return festivals, nil
}
