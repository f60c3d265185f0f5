package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagsForCondition(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		want      []string
	}{
		{"exact clear", "맑음", []string{"#야외", "#산책", "#공원", "#자연"}},
		{"exact rain", "비", []string{"#실내", "#박물관", "#미술관", "#아쿠아리움", "#카페"}},
		{"mostly clear", "대체로 맑음", []string{"#야외", "#산책", "#공원", "#자연"}},
		{"light rain", "가벼운 비", []string{"#실내", "#박물관", "#미술관", "#아쿠아리움", "#카페"}},
		{"sleet wins over rain and snow", "비와 눈", []string{"#실내", "#카페", "#쇼핑"}},
		{"shower wins over rain", "가벼운 소나기", []string{"#실내", "#급방문", "#카페"}},
		{"snow", "눈", []string{"#실내", "#겨울경치", "#스파", "#카페"}},
		{"cloudy", "구름 조금", []string{"#산책", "#경치", "#나들이"}},
		{"unknown", "안개", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tagsForCondition(tt.condition))
		})
	}
}
