package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weatherflick/weather-travel-api/internal/types"
)

func TestPreprocessMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "CollapsesWhitespace", input: "  서울   날씨  ", expected: "서울 날씨"},
		{name: "StripsPunctuation", input: "날씨!!! 어때요???", expected: "날씨 어때요"},
		{name: "Lowercases", input: "Weather Flick", expected: "weather flick"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, preprocessMessage(tc.input))
		})
	}
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{name: "Weather", message: "서울 날씨 어때요", expected: types.IntentWeather},
		{name: "WeatherTemperature", message: "오늘 기온 알려줘", expected: types.IntentWeather},
		{name: "Travel", message: "부산 여행지 알려줘", expected: types.IntentTravel},
		{name: "Greeting", message: "안녕하세요", expected: types.IntentGreeting},
		{name: "Help", message: "어떻게 사용하나요", expected: types.IntentHelp},
		{name: "General", message: "점심 메뉴 골라줘", expected: types.IntentGeneral},
		{name: "WeatherBeatsTravel", message: "여행 갈 건데 날씨 알려줘", expected: types.IntentWeather},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifyIntent(preprocessMessage(tc.message)))
		})
	}
}

func TestSuggestionsForIntent(t *testing.T) {
	assert.Len(t, suggestionsForIntent(types.IntentWeather), 3)
	assert.Len(t, suggestionsForIntent(types.IntentGeneral), 3)
	assert.Equal(t, suggestionsForIntent(types.IntentGeneral), suggestionsForIntent("unknown"))
}
