package chat

import (
	"regexp"
	"strings"

	"github.com/weatherflick/weather-travel-api/internal/types"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// keeps word characters and Hangul syllables
	specialCharsRe = regexp.MustCompile(`[^\w\s가-힣]`)
)

var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{types.IntentWeather, []string{"날씨", "기온", "온도", "비", "눈", "맑음", "흐림", "습도", "바람"}},
	{types.IntentTravel, []string{"여행", "추천", "관광", "명소", "여행지", "가볼곳", "추천해"}},
	{types.IntentGreeting, []string{"안녕", "하이", "반가워", "처음", "시작"}},
	{types.IntentHelp, []string{"도움", "도와", "어떻게", "무엇", "뭐"}},
}

var intentResponses = map[string]string{
	types.IntentWeather: "현재 날씨 정보를 확인해드릴게요! " +
		"어느 지역의 날씨를 알고 싶으신가요? " +
		"도시명이나 지역명을 알려주시면 상세한 날씨 정보를 제공해드립니다.",
	types.IntentTravel: "여행지 추천을 도와드릴게요! " +
		"어떤 종류의 여행을 계획하고 계신가요? " +
		"자연 관광, 문화 체험, 맛집 탐방 등 선호하시는 여행 스타일을 알려주세요.",
	types.IntentGreeting: "안녕하세요! Weather Flick 챗봇입니다. " +
		"날씨 정보와 여행 추천을 도와드릴 수 있어요. " +
		"무엇을 도와드릴까요?",
	types.IntentHelp: "Weather Flick에서 다음과 같은 서비스를 이용하실 수 있습니다:\n" +
		"• 실시간 날씨 정보 조회\n" +
		"• 여행지 추천 및 계획\n" +
		"• 지역별 관광 정보\n" +
		"• 여행 일정 관리\n\n" +
		"어떤 서비스에 대해 궁금하신가요?",
	types.IntentGeneral: "죄송합니다. 질문을 정확히 이해하지 못했어요. " +
		"날씨 정보나 여행 추천에 대해 물어보시거나, " +
		"'도움말'이라고 말씀해주시면 더 자세히 안내해드릴게요.",
}

var intentSuggestions = map[string][]string{
	types.IntentWeather:  {"서울 날씨는 어때요?", "부산 날씨 알려주세요", "주말 날씨는 어떨까요?"},
	types.IntentTravel:   {"자연 관광지 추천해주세요", "문화재 관람 추천", "맛집이 많은 여행지는?"},
	types.IntentGreeting: {"오늘 날씨 어때요?", "여행지 추천해주세요", "도움말을 보여주세요"},
	types.IntentHelp:     {"날씨 정보를 알려주세요", "여행지를 추천해주세요", "도움말을 보여주세요"},
	types.IntentGeneral:  {"날씨 정보를 알려주세요", "여행지를 추천해주세요", "도움말을 보여주세요"},
}

// preprocessMessage collapses whitespace, strips punctuation and lowercases.
func preprocessMessage(message string) string {
	message = whitespaceRe.ReplaceAllString(strings.TrimSpace(message), " ")
	message = specialCharsRe.ReplaceAllString(message, "")
	return strings.ToLower(message)
}

// classifyIntent matches the first keyword group that appears in the message.
func classifyIntent(message string) string {
	for _, group := range intentKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(message, keyword) {
				return group.intent
			}
		}
	}
	return types.IntentGeneral
}

func responseForIntent(intent string) string {
	if response, ok := intentResponses[intent]; ok {
		return response
	}
	return intentResponses[types.IntentGeneral]
}

func suggestionsForIntent(intent string) []string {
	if suggestions, ok := intentSuggestions[intent]; ok {
		return suggestions
	}
	return intentSuggestions[types.IntentGeneral]
}
