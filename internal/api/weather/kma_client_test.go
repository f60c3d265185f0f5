package weather

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nowcastPayload = `{"response": {"body": {"items": {"item": [
  {"category": "T1H", "obsrValue": "27.3"},
  {"category": "RN1", "obsrValue": "0.5"},
  {"category": "REH", "obsrValue": "70"},
  {"category": "WSD", "obsrValue": "2.4"},
  {"category": "PTY", "obsrValue": "1"},
  {"category": "VEC", "obsrValue": "180"}
]}}}}`

const shortForecastPayload = `{"response": {"body": {"items": {"item": [
  {"category": "TMP", "fcstDate": "20250715", "fcstTime": "0600", "fcstValue": "22"},
  {"category": "TMP", "fcstDate": "20250715", "fcstTime": "1500", "fcstValue": "30"},
  {"category": "POP", "fcstDate": "20250715", "fcstTime": "0600", "fcstValue": "20"},
  {"category": "POP", "fcstDate": "20250715", "fcstTime": "1500", "fcstValue": "60"},
  {"category": "WSD", "fcstDate": "20250715", "fcstTime": "1500", "fcstValue": "5.5"},
  {"category": "TMP", "fcstDate": "20250716", "fcstTime": "1200", "fcstValue": "26"}
]}}}}`

const midForecastPayload = `{"response": {"body": {"items": {"item": [
  {"tmFc": "202507150600", "wfSv": "구름많고 소나기", "rnSt": "70", "taMax": "31", "taMin": "24"}
]}}}}`

const warningPayload = `{"response": {"body": {"items": {"item": [
  {"area": "서울", "warningType": "폭염", "warningLevel": "경보",
   "warningMessage": "폭염경보 발효", "issueTime": "202507151000", "cancelTime": ""}
]}}}}`

func newTestKMAClient(t *testing.T, handler http.HandlerFunc) (*KMAClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewKMAClient(server.URL, "test-key", slog.Default())
	client.now = func() time.Time {
		return time.Date(2025, 7, 15, 14, 0, 0, 0, time.Local)
	}
	return client, server
}

func TestKMANowcast(t *testing.T) {
	client, server := newTestKMAClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/VilageFcstInfoService_2.0/getUltraSrtNcst", r.URL.Path)
		assert.Equal(t, "20250715", r.URL.Query().Get("base_date"))
		assert.Equal(t, "1100", r.URL.Query().Get("base_time"))
		assert.Equal(t, "60", r.URL.Query().Get("nx"))
		assert.Equal(t, "127", r.URL.Query().Get("ny"))
		_, _ = w.Write([]byte(nowcastPayload))
	})
	defer server.Close()

	obs, err := client.Nowcast(context.Background(), 60, 127)
	require.NoError(t, err)

	assert.Equal(t, 60, obs.NX)
	assert.Equal(t, 127, obs.NY)
	assert.InDelta(t, 27.3, obs.Temperature, 0.01)
	assert.InDelta(t, 0.5, obs.Rainfall, 0.01)
	assert.InDelta(t, 70.0, obs.Humidity, 0.01)
	assert.InDelta(t, 2.4, obs.WindSpeed, 0.01)
	assert.Equal(t, "비", obs.PrecipitationType)
	assert.Equal(t, "남", obs.WindDirection)
}

func TestKMAShortForecast(t *testing.T) {
	client, server := newTestKMAClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/VilageFcstInfoService_2.0/getVilageFcst", r.URL.Path)
		_, _ = w.Write([]byte(shortForecastPayload))
	})
	defer server.Close()

	forecast, err := client.ShortForecast(context.Background(), 60, 127)
	require.NoError(t, err)
	require.Len(t, forecast.Forecast, 2)

	day1 := forecast.Forecast[0]
	assert.Equal(t, "20250715", day1.Date)
	assert.InDelta(t, 30.0, day1.MaxTemp, 0.01)
	assert.InDelta(t, 22.0, day1.MinTemp, 0.01)
	assert.InDelta(t, 26.0, day1.AvgTemp, 0.01)
	assert.Equal(t, 60, day1.RainfallProbability)
	assert.InDelta(t, 5.5, day1.WindSpeed, 0.01)

	day2 := forecast.Forecast[1]
	assert.Equal(t, "20250716", day2.Date)
	assert.InDelta(t, 26.0, day2.MaxTemp, 0.01)
}

func TestKMAMidForecast(t *testing.T) {
	client, server := newTestKMAClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/MidFcstInfoService/getMidFcst", r.URL.Path)
		assert.Equal(t, "202507150600", r.URL.Query().Get("tmFc"))
		assert.Equal(t, "11B10101", r.URL.Query().Get("regId"))
		_, _ = w.Write([]byte(midForecastPayload))
	})
	defer server.Close()

	forecast, err := client.MidForecast(context.Background(), "11B10101")
	require.NoError(t, err)
	require.Len(t, forecast.Forecast, 1)

	day := forecast.Forecast[0]
	assert.Equal(t, "20250715", day.Date)
	assert.Equal(t, "구름많고 소나기", day.Weather)
	assert.Equal(t, 70, day.RainfallProbability)
	assert.Equal(t, 31, day.MaxTemp)
	assert.Equal(t, 24, day.MinTemp)
}

func TestKMAWarnings(t *testing.T) {
	client, server := newTestKMAClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/WarningInfoService/getWarningInfo", r.URL.Path)
		assert.Equal(t, "20250714", r.URL.Query().Get("fromTmFc"))
		assert.Equal(t, "20250715", r.URL.Query().Get("toTmFc"))
		_, _ = w.Write([]byte(warningPayload))
	})
	defer server.Close()

	report, err := client.Warnings(context.Background(), "서울")
	require.NoError(t, err)
	assert.Equal(t, "서울", report.Area)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "폭염", report.Warnings[0].WarningType)
	assert.Equal(t, "경보", report.Warnings[0].WarningLevel)
}
