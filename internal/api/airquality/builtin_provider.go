package airquality

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

// builtinReadings holds representative seed values used when every live
// provider is unreachable. Only the largest cities are covered.
var builtinReadings = map[string]struct {
	pm10, pm25, o3, no2, co, so2 types.PollutantReading
}{
	"서울": {
		pm10: types.PollutantReading{Value: 45, Grade: GradeModerate, Unit: "㎍/㎥"},
		pm25: types.PollutantReading{Value: 25, Grade: GradeModerate, Unit: "㎍/㎥"},
		o3:   types.PollutantReading{Value: 0.03, Grade: GradeGood, Unit: "ppm"},
		no2:  types.PollutantReading{Value: 0.02, Grade: GradeGood, Unit: "ppm"},
		co:   types.PollutantReading{Value: 0.5, Grade: GradeGood, Unit: "ppm"},
		so2:  types.PollutantReading{Value: 0.005, Grade: GradeGood, Unit: "ppm"},
	},
	"부산": {
		pm10: types.PollutantReading{Value: 35, Grade: GradeGood, Unit: "㎍/㎥"},
		pm25: types.PollutantReading{Value: 20, Grade: GradeGood, Unit: "㎍/㎥"},
		o3:   types.PollutantReading{Value: 0.025, Grade: GradeGood, Unit: "ppm"},
		no2:  types.PollutantReading{Value: 0.015, Grade: GradeGood, Unit: "ppm"},
		co:   types.PollutantReading{Value: 0.4, Grade: GradeGood, Unit: "ppm"},
		so2:  types.PollutantReading{Value: 0.004, Grade: GradeGood, Unit: "ppm"},
	},
	"대구": {
		pm10: types.PollutantReading{Value: 55, Grade: GradeModerate, Unit: "㎍/㎥"},
		pm25: types.PollutantReading{Value: 30, Grade: GradeModerate, Unit: "㎍/㎥"},
		o3:   types.PollutantReading{Value: 0.035, Grade: GradeModerate, Unit: "ppm"},
		no2:  types.PollutantReading{Value: 0.025, Grade: GradeModerate, Unit: "ppm"},
		co:   types.PollutantReading{Value: 0.6, Grade: GradeModerate, Unit: "ppm"},
		so2:  types.PollutantReading{Value: 0.006, Grade: GradeModerate, Unit: "ppm"},
	},
}

var builtinStations = []types.AirQualityStation{
	{StationName: "종로구", Address: "서울특별시 종로구", Latitude: 37.5704, Longitude: 126.9997},
	{StationName: "해운대구", Address: "부산광역시 해운대구", Latitude: 35.1586, Longitude: 129.1603},
}

// BuiltinProvider serves seed data so air quality endpoints still answer
// when the public data portal and WeatherAPI are both down.
type BuiltinProvider struct {
	now func() time.Time
}

func NewBuiltinProvider() *BuiltinProvider {
	return &BuiltinProvider{now: time.Now}
}

func (p *BuiltinProvider) Name() string { return "내장 데이터" }

func (p *BuiltinProvider) Enabled() bool { return true }

func (p *BuiltinProvider) Current(_ context.Context, city string) (*types.AirQuality, error) {
	data, ok := builtinReadings[city]
	if !ok {
		return nil, fmt.Errorf("no builtin readings for %q: %w", city, api.ErrNotFound)
	}
	return &types.AirQuality{
		City:        city,
		Source:      p.Name(),
		Timestamp:   p.now().Format(time.RFC3339),
		PM10:        data.pm10,
		PM25:        data.pm25,
		O3:          data.o3,
		NO2:         data.no2,
		CO:          data.co,
		SO2:         data.so2,
		AQI:         simpleAQI(data.pm10.Value, data.pm25.Value),
		StationName: city + " 측정소",
	}, nil
}

func (p *BuiltinProvider) Forecast(_ context.Context, city string) (*types.AirQualityForecast, error) {
	now := p.now()
	forecasts := make([]types.AirQualityForecastRow, 0, 24)
	for i := 0; i < 24; i++ {
		forecasts = append(forecasts, types.AirQualityForecastRow{
			Date:      now.Add(time.Duration(i) * time.Hour).Format("2006-01-02 15:00"),
			PM10Grade: GradeModerate,
			PM25Grade: GradeModerate,
			PM10Value: "45",
			PM25Value: "25",
		})
	}
	return &types.AirQualityForecast{
		City:         city,
		Source:       p.Name(),
		ForecastDate: now.Format("2006-01-02"),
		Forecasts:    forecasts,
	}, nil
}

func (p *BuiltinProvider) NearbyStations(_ context.Context, lat, lon float64) ([]types.AirQualityStation, error) {
	stations := make([]types.AirQualityStation, len(builtinStations))
	for i, s := range builtinStations {
		s.Distance = math.Hypot(lat-s.Latitude, lon-s.Longitude) * 111
		stations[i] = s
	}
	return stations, nil
}
