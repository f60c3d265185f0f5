package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBaseDateTime(t *testing.T) {
	day := time.Date(2025, 7, 15, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		hour     int
		wantDate string
		wantTime string
	}{
		{"BeforeTwoUsesPreviousDay", 1, "20250714", "2300"},
		{"EarlyMorning", 4, "20250715", "0200"},
		{"Morning", 7, "20250715", "0500"},
		{"MidMorning", 10, "20250715", "0800"},
		{"Noon", 13, "20250715", "1100"},
		{"Afternoon", 16, "20250715", "1400"},
		{"Evening", 19, "20250715", "1700"},
		{"Night", 22, "20250715", "2000"},
		{"LateNight", 23, "20250715", "2300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := day.Add(time.Duration(tt.hour) * time.Hour)
			gotDate, gotTime := baseDateTime(now)
			assert.Equal(t, tt.wantDate, gotDate)
			assert.Equal(t, tt.wantTime, gotTime)
		})
	}
}

func TestWindDirectionName(t *testing.T) {
	tests := []struct {
		degree string
		want   string
	}{
		{"0", "북"},
		{"45", "북동"},
		{"90", "동"},
		{"135", "남동"},
		{"180", "남"},
		{"225", "남서"},
		{"270", "서"},
		{"315", "북서"},
		{"350", "북"},
		{"not-a-number", "알 수 없음"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, windDirectionName(tt.degree), "degree %s", tt.degree)
	}
}

func TestPrecipitationTypeName(t *testing.T) {
	assert.Equal(t, "없음", precipitationTypeName("0"))
	assert.Equal(t, "비", precipitationTypeName("1"))
	assert.Equal(t, "비/눈", precipitationTypeName("2"))
	assert.Equal(t, "눈", precipitationTypeName("3"))
	assert.Equal(t, "소나기", precipitationTypeName("4"))
	assert.Equal(t, "알 수 없음", precipitationTypeName("9"))
}

func TestCityGrid(t *testing.T) {
	grid, ok := CityGrid("서울")
	assert.True(t, ok)
	assert.Equal(t, 60, grid.NX)
	assert.Equal(t, 127, grid.NY)

	_, ok = CityGrid("파리")
	assert.False(t, ok)
}

func TestNearestCity(t *testing.T) {
	// Exactly on Seoul's cell.
	assert.Equal(t, "서울", NearestCity(60, 127))
	// Close to Jeju.
	assert.Equal(t, "제주", NearestCity(54, 40))
}

func TestValidGrid(t *testing.T) {
	assert.True(t, ValidGrid(60, 127))
	assert.False(t, ValidGrid(10, 127))
	assert.False(t, ValidGrid(60, 200))
}

func TestCitiesInProvince(t *testing.T) {
	cities, ok := CitiesInProvince("경기도")
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"수원", "고양", "용인"}, cities)

	_, ok = CitiesInProvince("강원도")
	assert.False(t, ok)
}
