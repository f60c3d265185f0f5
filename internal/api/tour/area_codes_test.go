package tour

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAreaCodeForCity(t *testing.T) {
	tests := []struct {
		name     string
		city     string
		expected string
		found    bool
	}{
		{name: "DirectSeoul", city: "서울", expected: "1", found: true},
		{name: "DirectBusan", city: "부산", expected: "6", found: true},
		{name: "DirectSejong", city: "세종", expected: "8", found: true},
		{name: "ProvinceFallbackSuwon", city: "수원", expected: "31", found: true},
		{name: "ProvinceFallbackChangwon", city: "창원", expected: "36", found: true},
		{name: "ProvinceFallbackPohang", city: "포항", expected: "35", found: true},
		{name: "ProvinceNameItself", city: "전라남도", expected: "38", found: true},
		{name: "UnknownCity", city: "평양", expected: "", found: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, ok := AreaCodeForCity(tc.city)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, code)
		})
	}
}

func TestSupportedAreas(t *testing.T) {
	areas := SupportedAreas()
	assert.Len(t, areas, 17)
	assert.Contains(t, areas, "서울")
	assert.Contains(t, areas, "제주도")
}
