package weather

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

type MockCurrentProvider struct {
	mock.Mock
}

func (m *MockCurrentProvider) Current(ctx context.Context, q LocationQuery, lang string) (*types.CurrentWeather, error) {
	args := m.Called(ctx, q, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CurrentWeather), args.Error(1)
}

func (m *MockCurrentProvider) Forecast(ctx context.Context, q LocationQuery, days int, lang string) (*types.Forecast, error) {
	args := m.Called(ctx, q, days, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Forecast), args.Error(1)
}

type MockKMAProvider struct {
	mock.Mock
}

func (m *MockKMAProvider) Nowcast(ctx context.Context, nx, ny int) (*types.KMAObservation, error) {
	args := m.Called(ctx, nx, ny)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.KMAObservation), args.Error(1)
}

func (m *MockKMAProvider) ShortForecast(ctx context.Context, nx, ny int) (*types.KMAShortForecast, error) {
	args := m.Called(ctx, nx, ny)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.KMAShortForecast), args.Error(1)
}

func (m *MockKMAProvider) MidForecast(ctx context.Context, regionID string) (*types.KMAMidForecast, error) {
	args := m.Called(ctx, regionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.KMAMidForecast), args.Error(1)
}

func (m *MockKMAProvider) Warnings(ctx context.Context, area string) (*types.KMAWarningReport, error) {
	args := m.Called(ctx, area)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.KMAWarningReport), args.Error(1)
}

func TestGetCurrentWeatherCaching(t *testing.T) {
	ctx := context.Background()
	mockCurrent := new(MockCurrentProvider)
	mockKMA := new(MockKMAProvider)
	svc := NewWeatherService(mockCurrent, mockKMA, slog.Default())

	q := LocationQuery{City: "서울"}
	want := &types.CurrentWeather{City: "Seoul"}

	// Only one upstream call despite two lookups.
	mockCurrent.On("Current", mock.Anything, q, "ko").Return(want, nil).Once()

	first, err := svc.GetCurrentWeather(ctx, q, "ko")
	require.NoError(t, err)
	second, err := svc.GetCurrentWeather(ctx, q, "ko")
	require.NoError(t, err)

	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
	mockCurrent.AssertExpectations(t)
}

func TestGetForecastDefaultsDays(t *testing.T) {
	ctx := context.Background()
	mockCurrent := new(MockCurrentProvider)
	mockKMA := new(MockKMAProvider)
	svc := NewWeatherService(mockCurrent, mockKMA, slog.Default())

	q := LocationQuery{City: "서울"}
	want := &types.Forecast{City: "Seoul"}
	mockCurrent.On("Forecast", mock.Anything, q, 3, "ko").Return(want, nil).Once()

	got, err := svc.GetForecast(ctx, q, 0, "ko")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	mockCurrent.AssertExpectations(t)
}

func TestGetKMACurrentByCity(t *testing.T) {
	ctx := context.Background()
	mockCurrent := new(MockCurrentProvider)
	mockKMA := new(MockKMAProvider)
	svc := NewWeatherService(mockCurrent, mockKMA, slog.Default())

	t.Run("ResolvesGridForSupportedCity", func(t *testing.T) {
		want := &types.KMAObservation{NX: 60, NY: 127, Temperature: 25.0}
		mockKMA.On("Nowcast", mock.Anything, 60, 127).Return(want, nil).Once()

		got, err := svc.GetKMACurrent(ctx, "서울")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		mockKMA.AssertExpectations(t)
	})

	t.Run("UnsupportedCity", func(t *testing.T) {
		_, err := svc.GetKMACurrent(ctx, "파리")
		assert.ErrorIs(t, err, api.ErrBadLocation)
	})

	t.Run("InvalidGrid", func(t *testing.T) {
		_, err := svc.GetKMACurrentByGrid(ctx, 5, 5)
		assert.ErrorIs(t, err, api.ErrBadLocation)
	})
}

func TestGetKMAMidForecastResolvesRegion(t *testing.T) {
	ctx := context.Background()
	mockCurrent := new(MockCurrentProvider)
	mockKMA := new(MockKMAProvider)
	svc := NewWeatherService(mockCurrent, mockKMA, slog.Default())

	want := &types.KMAMidForecast{RegionID: "11H20201"}
	mockKMA.On("MidForecast", mock.Anything, "11H20201").Return(want, nil).Once()

	got, err := svc.GetKMAMidForecast(ctx, "부산")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	mockKMA.AssertExpectations(t)
}

func TestGetCurrentWeatherProviderError(t *testing.T) {
	ctx := context.Background()
	mockCurrent := new(MockCurrentProvider)
	mockKMA := new(MockKMAProvider)
	svc := NewWeatherService(mockCurrent, mockKMA, slog.Default())

	q := LocationQuery{City: "Seoul"}
	mockCurrent.On("Current", mock.Anything, q, "en").Return(nil, api.ErrProviderUnavailable).Once()

	_, err := svc.GetCurrentWeather(ctx, q, "en")
	assert.ErrorIs(t, err, api.ErrProviderUnavailable)
	mockCurrent.AssertExpectations(t)
}
