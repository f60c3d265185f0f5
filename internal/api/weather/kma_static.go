package weather

import (
	"math"
	"strconv"
	"time"

	"github.com/weatherflick/weather-travel-api/internal/types"
)

// cityGrid maps supported cities to their KMA nowcast grid cells.
var cityGrid = map[string]types.GridCoordinate{
	"서울": {NX: 60, NY: 127},
	"부산": {NX: 97, NY: 74},
	"대구": {NX: 89, NY: 90},
	"인천": {NX: 55, NY: 124},
	"광주": {NX: 58, NY: 74},
	"대전": {NX: 67, NY: 100},
	"울산": {NX: 102, NY: 84},
	"세종": {NX: 66, NY: 103},
	"수원": {NX: 60, NY: 120},
	"고양": {NX: 57, NY: 128},
	"용인": {NX: 64, NY: 119},
	"창원": {NX: 89, NY: 76},
	"포항": {NX: 102, NY: 94},
	"제주": {NX: 53, NY: 38},
}

// regionCodes maps cities to KMA mid-forecast region codes.
var regionCodes = map[string]string{
	"서울": "11B10101",
	"부산": "11H20201",
	"대구": "11H10701",
	"인천": "11B20201",
	"광주": "11F20501",
	"대전": "11C20401",
	"울산": "11H20101",
	"세종": "11C20404",
	"수원": "11B20601",
	"고양": "11B20301",
	"용인": "11B20602",
	"창원": "11H20301",
	"포항": "11H10201",
	"제주": "11G00201",
}

// provinceCities maps provinces and metropolitan cities to their member cities.
var provinceCities = map[string][]string{
	"서울특별시":   {"서울"},
	"부산광역시":   {"부산"},
	"대구광역시":   {"대구"},
	"인천광역시":   {"인천"},
	"광주광역시":   {"광주"},
	"대전광역시":   {"대전"},
	"울산광역시":   {"울산"},
	"세종특별자치시": {"세종"},
	"경기도":     {"수원", "고양", "용인"},
	"경상남도":    {"창원"},
	"경상북도":    {"포항"},
	"제주특별자치도": {"제주"},
}

func CityGrid(city string) (types.GridCoordinate, bool) {
	g, ok := cityGrid[city]
	return g, ok
}

func RegionCode(city string) (string, bool) {
	code, ok := regionCodes[city]
	return code, ok
}

func SupportedCities() []string {
	cities := make([]string, 0, len(cityGrid))
	for city := range cityGrid {
		cities = append(cities, city)
	}
	return cities
}

func SupportedProvinces() []string {
	provinces := make([]string, 0, len(provinceCities))
	for p := range provinceCities {
		provinces = append(provinces, p)
	}
	return provinces
}

func CitiesInProvince(province string) ([]string, bool) {
	cities, ok := provinceCities[province]
	return cities, ok
}

// ProvinceForCity resolves a supported city to its province.
func ProvinceForCity(city string) (string, bool) {
	for province, cities := range provinceCities {
		for _, c := range cities {
			if c == city {
				return province, true
			}
		}
	}
	return "", false
}

// ValidGrid reports whether the cell lies within the Korean grid range.
func ValidGrid(nx, ny int) bool {
	return nx >= 50 && nx <= 150 && ny >= 30 && ny <= 150
}

// NearestCity returns the supported city closest to the grid cell.
func NearestCity(nx, ny int) string {
	minDistance := math.MaxFloat64
	nearest := ""
	for city, g := range cityGrid {
		d := math.Hypot(float64(nx-g.NX), float64(ny-g.NY))
		if d < minDistance {
			minDistance = d
			nearest = city
		}
	}
	return nearest
}

var windDirections = [8]string{"북", "북동", "동", "남동", "남", "남서", "서", "북서"}

// windDirectionName converts a wind bearing in degrees to one of the eight
// Korean compass names.
func windDirectionName(degree string) string {
	deg, err := strconv.ParseFloat(degree, 64)
	if err != nil {
		return "알 수 없음"
	}
	idx := int((deg+22.5)/45) % 8
	if idx < 0 {
		idx += 8
	}
	return windDirections[idx]
}

var precipitationTypes = map[string]string{
	"0": "없음",
	"1": "비",
	"2": "비/눈",
	"3": "눈",
	"4": "소나기",
}

func precipitationTypeName(code string) string {
	if name, ok := precipitationTypes[code]; ok {
		return name
	}
	return "알 수 없음"
}

// baseDateTime computes the KMA issue base date and time for the given clock
// time. Forecasts are issued at 02,05,08,11,14,17,20,23 KST; before 02:00 the
// previous day's 23:00 issue is the latest available.
func baseDateTime(now time.Time) (string, string) {
	hour := now.Hour()
	switch {
	case hour < 2:
		return now.AddDate(0, 0, -1).Format("20060102"), "2300"
	case hour < 5:
		return now.Format("20060102"), "0200"
	case hour < 8:
		return now.Format("20060102"), "0500"
	case hour < 11:
		return now.Format("20060102"), "0800"
	case hour < 14:
		return now.Format("20060102"), "1100"
	case hour < 17:
		return now.Format("20060102"), "1400"
	case hour < 20:
		return now.Format("20060102"), "1700"
	case hour < 23:
		return now.Format("20060102"), "2000"
	default:
		return now.Format("20060102"), "2300"
	}
}
