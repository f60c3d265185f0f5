package types

// PollutantReading is one pollutant's value with its qualitative grade band.
type PollutantReading struct {
	Value float64 `json:"value"`
	Grade string  `json:"grade"`
	Unit  string  `json:"unit"`
}

// AQISummary is the index value with its grade band and display color.
type AQISummary struct {
	Value int    `json:"value"`
	Grade string `json:"grade"`
	Color string `json:"color"`
}

type AirQuality struct {
	City        string           `json:"city"`
	Source      string           `json:"source"`
	Timestamp   string           `json:"timestamp"`
	PM10        PollutantReading `json:"pm10"`
	PM25        PollutantReading `json:"pm25"`
	O3          PollutantReading `json:"o3"`
	NO2         PollutantReading `json:"no2"`
	CO          PollutantReading `json:"co"`
	SO2         PollutantReading `json:"so2"`
	AQI         AQISummary       `json:"air_quality_index"`
	StationName string           `json:"station_name"`
	Latitude    *float64         `json:"latitude"`
	Longitude   *float64         `json:"longitude"`
}

type AirQualityForecastRow struct {
	Date      string `json:"date"`
	PM10Grade string `json:"pm10_grade"`
	PM25Grade string `json:"pm25_grade"`
	PM10Value string `json:"pm10_value"`
	PM25Value string `json:"pm25_value"`
}

type AirQualityForecast struct {
	City         string                  `json:"city"`
	Source       string                  `json:"source"`
	ForecastDate string                  `json:"forecast_date"`
	Forecasts    []AirQualityForecastRow `json:"forecasts"`
}

type AirQualityStation struct {
	StationName string  `json:"station_name"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Distance    float64 `json:"distance"`
}
