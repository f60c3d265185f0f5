package types

// CurrentConditions mirrors the shape the frontend consumes for the
// WeatherAPI-backed current weather endpoint.
type CurrentConditions struct {
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Condition     string  `json:"condition"`
	Description   string  `json:"description"`
	Icon          string  `json:"icon"`
	Humidity      int     `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection int     `json:"wind_direction"`
	Pressure      float64 `json:"pressure"`
	Visibility    float64 `json:"visibility"`
	UVIndex       float64 `json:"uv_index"`
}

type CurrentWeather struct {
	City      string            `json:"city"`
	Country   string            `json:"country"`
	Region    string            `json:"region"`
	Current   CurrentConditions `json:"current"`
	Timezone  string            `json:"timezone"`
	LocalTime string            `json:"local_time"`
}

type ForecastDay struct {
	Date                string  `json:"date"`
	TemperatureMax      float64 `json:"temperature_max"`
	TemperatureMin      float64 `json:"temperature_min"`
	Condition           string  `json:"condition"`
	Description         string  `json:"description"`
	Icon                string  `json:"icon"`
	Humidity            int     `json:"humidity"`
	WindSpeed           float64 `json:"wind_speed"`
	PrecipitationChance int     `json:"precipitation_chance"`
}

type Forecast struct {
	City     string        `json:"city"`
	Country  string        `json:"country"`
	Region   string        `json:"region"`
	Forecast []ForecastDay `json:"forecast"`
	Timezone string        `json:"timezone"`
}

// KMAObservation is the nowcast for a KMA grid cell.
type KMAObservation struct {
	NX                int     `json:"nx"`
	NY                int     `json:"ny"`
	Temperature       float64 `json:"temperature"`
	Humidity          float64 `json:"humidity"`
	Rainfall          float64 `json:"rainfall"`
	WindSpeed         float64 `json:"wind_speed"`
	WindDirection     string  `json:"wind_direction"`
	PrecipitationType string  `json:"precipitation_type,omitempty"`
}

type KMADailyForecast struct {
	Date                string  `json:"date"`
	MaxTemp             float64 `json:"max_temp"`
	MinTemp             float64 `json:"min_temp"`
	AvgTemp             float64 `json:"avg_temp"`
	RainfallProbability int     `json:"rainfall_probability"`
	WindSpeed           float64 `json:"wind_speed"`
}

type KMAShortForecast struct {
	NX       int                `json:"nx"`
	NY       int                `json:"ny"`
	Forecast []KMADailyForecast `json:"forecast"`
}

type KMAMidForecastDay struct {
	Date                string `json:"date"`
	Weather             string `json:"weather"`
	RainfallProbability int    `json:"rainfall_probability"`
	MaxTemp             int    `json:"max_temp"`
	MinTemp             int    `json:"min_temp"`
}

type KMAMidForecast struct {
	RegionID string              `json:"reg_id"`
	Forecast []KMAMidForecastDay `json:"forecast"`
}

type KMAWarning struct {
	Area           string `json:"area"`
	WarningType    string `json:"warning_type"`
	WarningLevel   string `json:"warning_level"`
	WarningMessage string `json:"warning_message"`
	IssueTime      string `json:"issue_time"`
	CancelTime     string `json:"cancel_time"`
}

type KMAWarningReport struct {
	Area     string       `json:"area"`
	Warnings []KMAWarning `json:"warnings"`
}

// GridCoordinate is a KMA nowcast grid cell.
type GridCoordinate struct {
	NX int `json:"nx"`
	NY int `json:"ny"`
}
