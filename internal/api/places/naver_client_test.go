package places

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

const localSearchPayload = `{
	"total": 2,
	"items": [
		{
			"title": "<b>광장시장</b>",
			"link": "http://www.kwangjangmarket.co.kr",
			"category": "시장>전통시장",
			"description": "서울의 대표 <b>전통시장</b>",
			"telephone": "02-123-4567",
			"address": "서울특별시 종로구 예지동 6-1",
			"roadAddress": "서울특별시 종로구 창경궁로 88",
			"mapx": "126.9997",
			"mapy": "37.5704"
		},
		{
			"title": "남대문시장",
			"link": "",
			"category": "시장>전통시장",
			"description": "",
			"telephone": "",
			"address": "서울특별시 중구 남창동",
			"roadAddress": "",
			"mapx": "126.9773",
			"mapy": "37.5594"
		}
	]
}`

func TestSearchLocal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/search/local.json", r.URL.Path)
			assert.Equal(t, "id-123", r.Header.Get("X-NCP-APIGW-API-KEY-ID"))
			assert.Equal(t, "secret-456", r.Header.Get("X-NCP-APIGW-API-KEY"))
			assert.Equal(t, "시장", r.URL.Query().Get("query"))
			assert.Equal(t, "10", r.URL.Query().Get("display"))
			assert.Equal(t, "random", r.URL.Query().Get("sort"))
			w.Write([]byte(localSearchPayload))
		}))
		defer server.Close()

		client := NewNaverClient(server.URL, "id-123", "secret-456", slog.Default())
		places, err := client.SearchLocal(context.Background(), "시장", "", 10)
		require.NoError(t, err)

		require.Len(t, places, 2)
		assert.Equal(t, "광장시장", places[0].Title)
		assert.Equal(t, "서울의 대표 전통시장", places[0].Description)
		assert.Equal(t, 126.9997, places[0].MapX)
		assert.Equal(t, 37.5704, places[0].MapY)
		assert.Equal(t, "네이버", places[0].Source)
	})

	t.Run("LocationForwarded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "37.5665,126.978", r.URL.Query().Get("location"))
			w.Write([]byte(`{"total": 0, "items": []}`))
		}))
		defer server.Close()

		client := NewNaverClient(server.URL, "id", "secret", slog.Default())
		places, err := client.SearchLocal(context.Background(), "주변 맛집", "37.5665,126.978", 20)
		require.NoError(t, err)
		assert.Empty(t, places)
	})

	t.Run("EmptyQueryRejected", func(t *testing.T) {
		client := NewNaverClient("http://example.invalid", "id", "secret", slog.Default())
		_, err := client.SearchLocal(context.Background(), "", "", 20)
		assert.ErrorIs(t, err, api.ErrBadRequest)
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		client := NewNaverClient("http://example.invalid", "", "", slog.Default())
		_, err := client.SearchLocal(context.Background(), "시장", "", 20)
		assert.ErrorIs(t, err, api.ErrProviderUnavailable)
	})

	t.Run("RejectedCredentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewNaverClient(server.URL, "bad", "creds", slog.Default())
		_, err := client.SearchLocal(context.Background(), "시장", "", 20)
		assert.ErrorIs(t, err, api.ErrProviderUnavailable)
	})

	t.Run("OversizedLimitClamped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "20", r.URL.Query().Get("display"))
			w.Write([]byte(`{"total": 0, "items": []}`))
		}))
		defer server.Close()

		client := NewNaverClient(server.URL, "id", "secret", slog.Default())
		_, err := client.SearchLocal(context.Background(), "시장", "", 500)
		assert.NoError(t, err)
	})
}
