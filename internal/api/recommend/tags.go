package recommend

import "strings"

// weatherTags maps a Korean sky condition to destination tags worth
// recommending under it.
var weatherTags = map[string][]string{
	"맑음":   {"#야외", "#산책", "#공원", "#자연"},
	"구름많음": {"#산책", "#경치", "#나들이"},
	"흐림":   {"#실내", "#카페", "#박물관", "#쇼핑"},
	"비":    {"#실내", "#박물관", "#미술관", "#아쿠아리움", "#카페"},
	"비/눈":  {"#실내", "#카페", "#쇼핑"},
	"눈":    {"#실내", "#겨울경치", "#스파", "#카페"},
	"소나기":  {"#실내", "#급방문", "#카페"},
}

// tagsForCondition resolves a condition string to its tag list. Provider
// condition texts vary ("대체로 맑음", "가벼운 비"), so an exact match is
// tried first and then a keyword scan in precipitation-first order.
func tagsForCondition(condition string) []string {
	if tags, ok := weatherTags[condition]; ok {
		return tags
	}

	switch {
	case strings.Contains(condition, "소나기"):
		return weatherTags["소나기"]
	case strings.Contains(condition, "비") && strings.Contains(condition, "눈"):
		return weatherTags["비/눈"]
	case strings.Contains(condition, "눈"):
		return weatherTags["눈"]
	case strings.Contains(condition, "비"):
		return weatherTags["비"]
	case strings.Contains(condition, "흐림"):
		return weatherTags["흐림"]
	case strings.Contains(condition, "구름"):
		return weatherTags["구름많음"]
	case strings.Contains(condition, "맑음"):
		return weatherTags["맑음"]
	}
	return nil
}
