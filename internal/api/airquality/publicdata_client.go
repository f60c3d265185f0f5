package airquality

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

// stationCodes maps metropolitan cities to their representative monitoring
// station. Seoul is the fallback.
var stationCodes = map[string]string{
	"서울": "111001",
	"부산": "261001",
	"대구": "271001",
	"인천": "281001",
	"광주": "291001",
	"대전": "301001",
	"울산": "311001",
	"세종": "361001",
}

type publicDataMeasureItem struct {
	StationName string `json:"stationName"`
	Pm10Value   string `json:"pm10Value"`
	Pm10Grade1h string `json:"pm10Grade1h"`
	Pm25Value   string `json:"pm25Value"`
	Pm25Grade1h string `json:"pm25Grade1h"`
	O3Value     string `json:"o3Value"`
	O3Grade     string `json:"o3Grade"`
	No2Value    string `json:"no2Value"`
	No2Grade    string `json:"no2Grade"`
	CoValue     string `json:"coValue"`
	CoGrade     string `json:"coGrade"`
	So2Value    string `json:"so2Value"`
	So2Grade    string `json:"so2Grade"`
}

type publicDataForecastItem struct {
	DataTime  string `json:"dataTime"`
	Pm10Grade string `json:"pm10Grade"`
	Pm25Grade string `json:"pm25Grade"`
	Pm10Value string `json:"pm10Value"`
	Pm25Value string `json:"pm25Value"`
}

type publicDataStationItem struct {
	StationName string `json:"stationName"`
	Addr        string `json:"addr"`
	DmX         string `json:"dmX"`
	DmY         string `json:"dmY"`
	Tm          string `json:"tm"`
}

// PublicDataClient calls the Korean public data portal air quality services.
type PublicDataClient struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	logger     *slog.Logger
	now        func() time.Time
}

func NewPublicDataClient(baseURL, serviceKey string, logger *slog.Logger) *PublicDataClient {
	return &PublicDataClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		serviceKey: serviceKey,
		logger:     logger,
		now:        time.Now,
	}
}

func (c *PublicDataClient) Name() string { return "공공데이터포털" }

func (c *PublicDataClient) Enabled() bool { return c.serviceKey != "" }

func (c *PublicDataClient) get(ctx context.Context, path string, params url.Values, items interface{}) error {
	params.Set("serviceKey", c.serviceKey)
	params.Set("returnType", "json")
	params.Set("pageNo", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("public data request: %w", ctx.Err())
		}
		return fmt.Errorf("public data request: %w", api.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("public data status %d: %w", resp.StatusCode, api.ErrProviderUnavailable)
	}

	var payload struct {
		Response struct {
			Body struct {
				Items json.RawMessage `json:"items"`
			} `json:"body"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode public data response: %w", err)
	}
	if len(payload.Response.Body.Items) == 0 {
		return api.ErrNotFound
	}
	if err := json.Unmarshal(payload.Response.Body.Items, items); err != nil {
		return fmt.Errorf("decode public data items: %w", err)
	}
	return nil
}

// parseReading tolerates the portal's "-" placeholder for missing values.
func parseReading(value, grade, unit string) types.PollutantReading {
	v, _ := strconv.ParseFloat(value, 64)
	return types.PollutantReading{Value: v, Grade: grade, Unit: unit}
}

func (c *PublicDataClient) Current(ctx context.Context, city string) (*types.AirQuality, error) {
	stationCode, ok := stationCodes[city]
	if !ok {
		stationCode = stationCodes["서울"]
	}

	params := url.Values{}
	params.Set("numOfRows", "1")
	params.Set("stationName", stationCode)
	params.Set("dataTerm", "DAILY")
	params.Set("ver", "1.4")

	var items []publicDataMeasureItem
	if err := c.get(ctx, "/ArpltnInforInqireSvc/getCtprvnRltmMesureDnsty", params, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, api.ErrNotFound
	}
	item := items[0]

	pm10, _ := strconv.ParseFloat(item.Pm10Value, 64)
	pm25, _ := strconv.ParseFloat(item.Pm25Value, 64)

	return &types.AirQuality{
		City:        city,
		Source:      c.Name(),
		Timestamp:   c.now().Format(time.RFC3339),
		PM10:        parseReading(item.Pm10Value, item.Pm10Grade1h, "㎍/㎥"),
		PM25:        parseReading(item.Pm25Value, item.Pm25Grade1h, "㎍/㎥"),
		O3:          parseReading(item.O3Value, item.O3Grade, "ppm"),
		NO2:         parseReading(item.No2Value, item.No2Grade, "ppm"),
		CO:          parseReading(item.CoValue, item.CoGrade, "ppm"),
		SO2:         parseReading(item.So2Value, item.So2Grade, "ppm"),
		AQI:         simpleAQI(pm10, pm25),
		StationName: item.StationName,
	}, nil
}

func (c *PublicDataClient) Forecast(ctx context.Context, city string) (*types.AirQualityForecast, error) {
	params := url.Values{}
	params.Set("numOfRows", "24")
	params.Set("searchDate", c.now().Format("20060102"))
	params.Set("InformCode", "PM10")

	var items []publicDataForecastItem
	if err := c.get(ctx, "/ArpltnInforInqireSvc/getMinuDustFrcstDspth", params, &items); err != nil {
		return nil, err
	}

	forecasts := make([]types.AirQualityForecastRow, 0, len(items))
	for _, item := range items {
		forecasts = append(forecasts, types.AirQualityForecastRow{
			Date:      item.DataTime,
			PM10Grade: item.Pm10Grade,
			PM25Grade: item.Pm25Grade,
			PM10Value: item.Pm10Value,
			PM25Value: item.Pm25Value,
		})
	}

	return &types.AirQualityForecast{
		City:         city,
		Source:       c.Name(),
		ForecastDate: c.now().Format("2006-01-02"),
		Forecasts:    forecasts,
	}, nil
}

func (c *PublicDataClient) NearbyStations(ctx context.Context, lat, lon float64) ([]types.AirQualityStation, error) {
	params := url.Values{}
	params.Set("numOfRows", "100")

	var items []publicDataStationItem
	if err := c.get(ctx, "/MsrstnInfoInqireSvc/getNearbyMsrstnList", params, &items); err != nil {
		return nil, err
	}

	stations := make([]types.AirQualityStation, 0, len(items))
	for _, item := range items {
		stationLat, _ := strconv.ParseFloat(item.DmX, 64)
		stationLon, _ := strconv.ParseFloat(item.DmY, 64)
		distance, _ := strconv.ParseFloat(item.Tm, 64)
		stations = append(stations, types.AirQualityStation{
			StationName: item.StationName,
			Address:     item.Addr,
			Latitude:    stationLat,
			Longitude:   stationLon,
			Distance:    distance,
		})
	}
	return stations, nil
}
