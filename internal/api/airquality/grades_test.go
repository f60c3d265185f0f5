package airquality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeFromUSAQI(t *testing.T) {
	tests := []struct {
		name     string
		usAQI    int
		expected string
	}{
		{name: "Zero", usAQI: 0, expected: GradeGood},
		{name: "UpperGoodBound", usAQI: 50, expected: GradeGood},
		{name: "Moderate", usAQI: 75, expected: GradeModerate},
		{name: "UpperModerateBound", usAQI: 100, expected: GradeModerate},
		{name: "Bad", usAQI: 120, expected: GradeBad},
		{name: "UpperBadBound", usAQI: 150, expected: GradeBad},
		{name: "VeryBad", usAQI: 200, expected: GradeVeryBad},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, gradeFromUSAQI(tc.usAQI))
		})
	}
}

func TestGradeColor(t *testing.T) {
	assert.Equal(t, "#00E400", gradeColor(GradeGood))
	assert.Equal(t, "#FFFF00", gradeColor(GradeModerate))
	assert.Equal(t, "#FF7E00", gradeColor(GradeBad))
	assert.Equal(t, "#FF0000", gradeColor(GradeVeryBad))
	assert.Equal(t, "#FFFF00", gradeColor("미상"))
}

func TestSimpleAQI(t *testing.T) {
	tests := []struct {
		name          string
		pm10, pm25    float64
		expectedValue int
		expectedGrade string
	}{
		{name: "GoodAir", pm10: 20, pm25: 10, expectedValue: 20, expectedGrade: GradeGood},
		{name: "PM25Dominates", pm10: 40, pm25: 30, expectedValue: 60, expectedGrade: GradeModerate},
		{name: "PM10Dominates", pm10: 120, pm25: 40, expectedValue: 120, expectedGrade: GradeBad},
		{name: "VeryBadAir", pm10: 200, pm25: 100, expectedValue: 200, expectedGrade: GradeVeryBad},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			aqi := simpleAQI(tc.pm10, tc.pm25)
			assert.Equal(t, tc.expectedValue, aqi.Value)
			assert.Equal(t, tc.expectedGrade, aqi.Grade)
			assert.Equal(t, gradeColor(tc.expectedGrade), aqi.Color)
		})
	}
}
