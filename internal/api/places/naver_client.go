package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

type naverLocalItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Telephone   string `json:"telephone"`
	Address     string `json:"address"`
	RoadAddress string `json:"roadAddress"`
	MapX        string `json:"mapx"`
	MapY        string `json:"mapy"`
}

type naverLocalResponse struct {
	Total int              `json:"total"`
	Items []naverLocalItem `json:"items"`
}

// NaverClient calls the Naver open API local search endpoint.
type NaverClient struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	logger       *slog.Logger
}

func NewNaverClient(baseURL, clientID, clientSecret string, logger *slog.Logger) *NaverClient {
	return &NaverClient{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}
}

func (c *NaverClient) Enabled() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// stripTags removes the <b> highlight markers Naver injects around the
// matched search terms.
func stripTags(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	return strings.ReplaceAll(s, "</b>", "")
}

func (c *NaverClient) SearchLocal(ctx context.Context, query, location string, limit int) ([]types.Place, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("naver credentials not configured: %w", api.ErrProviderUnavailable)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", api.ErrBadRequest)
	}
	if limit <= 0 || limit > 30 {
		limit = 20
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("display", strconv.Itoa(limit))
	params.Set("start", "1")
	params.Set("sort", "random")
	if location != "" {
		params.Set("location", location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/search/local.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", c.clientID)
	req.Header.Set("X-NCP-APIGW-API-KEY", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("naver local search: %w", ctx.Err())
		}
		return nil, fmt.Errorf("naver local search: %w", api.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("naver credentials rejected: %w", api.ErrProviderUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver local search status %d: %w", resp.StatusCode, api.ErrProviderUnavailable)
	}

	var payload naverLocalResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode naver response: %w", err)
	}

	places := make([]types.Place, 0, len(payload.Items))
	for _, item := range payload.Items {
		mapX, _ := strconv.ParseFloat(item.MapX, 64)
		mapY, _ := strconv.ParseFloat(item.MapY, 64)
		places = append(places, types.Place{
			Title:       stripTags(item.Title),
			Address:     item.Address,
			RoadAddress: item.RoadAddress,
			Category:    item.Category,
			Description: stripTags(item.Description),
			Telephone:   item.Telephone,
			Link:        item.Link,
			MapX:        mapX,
			MapY:        mapY,
			Source:      "네이버",
		})
	}
	return places, nil
}
