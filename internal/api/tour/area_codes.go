package tour

import (
	"sort"

	"github.com/weatherflick/weather-travel-api/internal/api/weather"
)

// tourAreaCodes maps city and province names to TourAPI area codes.
var tourAreaCodes = map[string]string{
	"서울":   "1",
	"인천":   "2",
	"대전":   "3",
	"대구":   "4",
	"광주":   "5",
	"부산":   "6",
	"울산":   "7",
	"세종":   "8",
	"경기도":  "31",
	"강원도":  "32",
	"충청북도": "33",
	"충청남도": "34",
	"경상북도": "35",
	"경상남도": "36",
	"전라북도": "37",
	"전라남도": "38",
	"제주도":  "39",
}

// AreaCodeForCity resolves a city to its TourAPI area code. Cities without
// their own code fall back to the code of the province that contains them.
func AreaCodeForCity(city string) (string, bool) {
	if code, ok := tourAreaCodes[city]; ok {
		return code, true
	}
	for _, province := range weather.SupportedProvinces() {
		cities, ok := weather.CitiesInProvince(province)
		if !ok {
			continue
		}
		for _, c := range cities {
			if c == city {
				code, ok := tourAreaCodes[province]
				return code, ok
			}
		}
	}
	return "", false
}

// SupportedAreas lists every name with a direct area code mapping.
func SupportedAreas() []string {
	areas := make([]string, 0, len(tourAreaCodes))
	for name := range tourAreaCodes {
		areas = append(areas, name)
	}
	sort.Strings(areas)
	return areas
}
