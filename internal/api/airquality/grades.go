package airquality

import "github.com/weatherflick/weather-travel-api/internal/types"

// Korean air quality grade labels.
const (
	GradeGood     = "좋음"
	GradeModerate = "보통"
	GradeBad      = "나쁨"
	GradeVeryBad  = "매우나쁨"
)

// gradeFromUSAQI maps the US EPA index to the Korean grade scale.
func gradeFromUSAQI(usAQI int) string {
	switch {
	case usAQI <= 50:
		return GradeGood
	case usAQI <= 100:
		return GradeModerate
	case usAQI <= 150:
		return GradeBad
	default:
		return GradeVeryBad
	}
}

func gradeColor(grade string) string {
	switch grade {
	case GradeGood:
		return "#00E400"
	case GradeModerate:
		return "#FFFF00"
	case GradeBad:
		return "#FF7E00"
	case GradeVeryBad:
		return "#FF0000"
	default:
		return "#FFFF00"
	}
}

// simpleAQI derives a coarse index from the particulate readings. PM2.5 is
// weighted double because its bands are roughly half of PM10's.
func simpleAQI(pm10, pm25 float64) types.AQISummary {
	aqi := pm10
	if pm25*2 > aqi {
		aqi = pm25 * 2
	}

	var grade string
	switch {
	case aqi <= 30:
		grade = GradeGood
	case aqi <= 80:
		grade = GradeModerate
	case aqi <= 150:
		grade = GradeBad
	default:
		grade = GradeVeryBad
	}

	return types.AQISummary{
		Value: int(aqi),
		Grade: grade,
		Color: gradeColor(grade),
	}
}
