package tour

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherflick/weather-travel-api/internal/api"
)

const festivalPayload = `{
	"response": {
		"header": {"resultCode": "0000", "resultMsg": "OK"},
		"body": {
			"items": {
				"item": [
					{
						"addr1": "경기도 가평군 가평읍 자라섬로 60",
						"contentid": "2674251",
						"eventstartdate": "20250101",
						"eventenddate": "20251231",
						"firstimage": "http://tong.visitkorea.or.kr/cms/resource/58/2674658_image2_1.jpg",
						"mapx": "127.5098188101",
						"mapy": "37.8189694268",
						"areacode": "31",
						"tel": "031-580-2700",
						"title": "자라섬 꽃 페스타"
					}
				]
			},
			"totalCount": 1
		}
	}
}`

func TestSearchFestivals(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/searchFestival1", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("serviceKey"))
			assert.Equal(t, "ETC", r.URL.Query().Get("MobileOS"))
			assert.Equal(t, "json", r.URL.Query().Get("_type"))
			assert.Equal(t, "31", r.URL.Query().Get("areaCode"))
			assert.Equal(t, "20250830", r.URL.Query().Get("eventStartDate"))
			w.Write([]byte(festivalPayload))
		}))
		defer server.Close()

		client := NewTourAPIClient(server.URL, "test-key", "", slog.Default())
		festivals, err := client.SearchFestivals(context.Background(), "31", "20250830", 20)
		require.NoError(t, err)

		require.Len(t, festivals, 1)
		assert.Equal(t, "자라섬 꽃 페스타", festivals[0].Title)
		assert.Equal(t, "2674251", festivals[0].ContentID)
		assert.Equal(t, "20250101", festivals[0].EventStartDate)
		assert.Equal(t, "31", festivals[0].AreaCode)
	})

	t.Run("UpstreamResultError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response": {"header": {"resultCode": "9999", "resultMsg": "SERVICE ERROR"}, "body": {"items": {"item": []}}}}`))
		}))
		defer server.Close()

		client := NewTourAPIClient(server.URL, "test-key", "", slog.Default())
		_, err := client.SearchFestivals(context.Background(), "1", "20250830", 20)
		assert.ErrorIs(t, err, api.ErrProviderUnavailable)
	})

	t.Run("DisabledWithoutKey", func(t *testing.T) {
		client := NewTourAPIClient("http://example.invalid", "", "", slog.Default())
		_, err := client.SearchFestivals(context.Background(), "1", "20250830", 20)
		assert.ErrorIs(t, err, api.ErrProviderUnavailable)
	})
}
