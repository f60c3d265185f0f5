package airquality

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/weatherflick/weather-travel-api/internal/api"
	"github.com/weatherflick/weather-travel-api/internal/types"
)

type MockCurrentProvider struct {
	mock.Mock
	name    string
	enabled bool
}

func (m *MockCurrentProvider) Name() string  { return m.name }
func (m *MockCurrentProvider) Enabled() bool { return m.enabled }

func (m *MockCurrentProvider) Current(ctx context.Context, city string) (*types.AirQuality, error) {
	args := m.Called(ctx, city)
	if aq, ok := args.Get(0).(*types.AirQuality); ok {
		return aq, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockForecastProvider struct {
	mock.Mock
	name    string
	enabled bool
}

func (m *MockForecastProvider) Name() string  { return m.name }
func (m *MockForecastProvider) Enabled() bool { return m.enabled }

func (m *MockForecastProvider) Forecast(ctx context.Context, city string) (*types.AirQualityForecast, error) {
	args := m.Called(ctx, city)
	if f, ok := args.Get(0).(*types.AirQualityForecast); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStationProvider struct {
	mock.Mock
	name    string
	enabled bool
}

func (m *MockStationProvider) Name() string  { return m.name }
func (m *MockStationProvider) Enabled() bool { return m.enabled }

func (m *MockStationProvider) NearbyStations(ctx context.Context, lat, lon float64) ([]types.AirQualityStation, error) {
	args := m.Called(ctx, lat, lon)
	if s, ok := args.Get(0).([]types.AirQualityStation); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestGetCurrentProviderChain(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstProviderWins", func(t *testing.T) {
		first := &MockCurrentProvider{name: "portal", enabled: true}
		second := &MockCurrentProvider{name: "weatherapi", enabled: true}
		first.On("Current", mock.Anything, "서울").Return(&types.AirQuality{City: "서울", Source: "portal"}, nil).Once()

		svc := NewAirQualityService([]CurrentProvider{first, second}, nil, nil, testLogger())
		result, err := svc.GetCurrent(ctx, "서울")

		assert.NoError(t, err)
		assert.Equal(t, "portal", result.Source)
		first.AssertExpectations(t)
		second.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
	})

	t.Run("FallsThroughOnFailure", func(t *testing.T) {
		first := &MockCurrentProvider{name: "portal", enabled: true}
		second := &MockCurrentProvider{name: "weatherapi", enabled: true}
		first.On("Current", mock.Anything, "부산").Return(nil, errors.New("portal down")).Once()
		second.On("Current", mock.Anything, "부산").Return(&types.AirQuality{City: "부산", Source: "weatherapi"}, nil).Once()

		svc := NewAirQualityService([]CurrentProvider{first, second}, nil, nil, testLogger())
		result, err := svc.GetCurrent(ctx, "부산")

		assert.NoError(t, err)
		assert.Equal(t, "weatherapi", result.Source)
		first.AssertExpectations(t)
		second.AssertExpectations(t)
	})

	t.Run("SkipsDisabledProvider", func(t *testing.T) {
		disabled := &MockCurrentProvider{name: "portal", enabled: false}
		fallback := &MockCurrentProvider{name: "builtin", enabled: true}
		fallback.On("Current", mock.Anything, "대구").Return(&types.AirQuality{City: "대구", Source: "builtin"}, nil).Once()

		svc := NewAirQualityService([]CurrentProvider{disabled, fallback}, nil, nil, testLogger())
		result, err := svc.GetCurrent(ctx, "대구")

		assert.NoError(t, err)
		assert.Equal(t, "builtin", result.Source)
		disabled.AssertNotCalled(t, "Current", mock.Anything, mock.Anything)
	})

	t.Run("AllProvidersFail", func(t *testing.T) {
		first := &MockCurrentProvider{name: "portal", enabled: true}
		first.On("Current", mock.Anything, "서울").Return(nil, errors.New("portal down")).Once()

		svc := NewAirQualityService([]CurrentProvider{first}, nil, nil, testLogger())
		result, err := svc.GetCurrent(ctx, "서울")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, api.ErrProviderUnavailable)
	})

	t.Run("EmptyCityRejected", func(t *testing.T) {
		svc := NewAirQualityService(nil, nil, nil, testLogger())
		result, err := svc.GetCurrent(ctx, "")

		assert.Nil(t, result)
		assert.ErrorIs(t, err, api.ErrBadRequest)
	})

	t.Run("SecondLookupServedFromCache", func(t *testing.T) {
		provider := &MockCurrentProvider{name: "portal", enabled: true}
		provider.On("Current", mock.Anything, "인천").Return(&types.AirQuality{City: "인천", Source: "portal"}, nil).Once()

		svc := NewAirQualityService([]CurrentProvider{provider}, nil, nil, testLogger())

		first, err := svc.GetCurrent(ctx, "인천")
		assert.NoError(t, err)
		second, err := svc.GetCurrent(ctx, "인천")
		assert.NoError(t, err)

		assert.Equal(t, first, second)
		provider.AssertExpectations(t)
	})
}

func TestGetForecastProviderChain(t *testing.T) {
	ctx := context.Background()

	t.Run("FallsThroughToBuiltin", func(t *testing.T) {
		portal := &MockForecastProvider{name: "portal", enabled: true}
		builtin := &MockForecastProvider{name: "builtin", enabled: true}
		portal.On("Forecast", mock.Anything, "서울").Return(nil, errors.New("portal down")).Once()
		builtin.On("Forecast", mock.Anything, "서울").Return(&types.AirQualityForecast{
			City:      "서울",
			Source:    "builtin",
			Forecasts: make([]types.AirQualityForecastRow, 24),
		}, nil).Once()

		svc := NewAirQualityService(nil, []ForecastProvider{portal, builtin}, nil, testLogger())
		result, err := svc.GetForecast(ctx, "서울")

		assert.NoError(t, err)
		assert.Equal(t, "builtin", result.Source)
		assert.Len(t, result.Forecasts, 24)
	})
}

func TestGetNearbyStationsProviderChain(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsFirstProviderStations", func(t *testing.T) {
		provider := &MockStationProvider{name: "portal", enabled: true}
		provider.On("NearbyStations", mock.Anything, 37.5665, 126.978).Return([]types.AirQualityStation{
			{StationName: "종로구", Distance: 0.5},
		}, nil).Once()

		svc := NewAirQualityService(nil, nil, []StationProvider{provider}, testLogger())
		stations, err := svc.GetNearbyStations(ctx, 37.5665, 126.978)

		assert.NoError(t, err)
		assert.Len(t, stations, 1)
		assert.Equal(t, "종로구", stations[0].StationName)
	})

	t.Run("AllProvidersFail", func(t *testing.T) {
		provider := &MockStationProvider{name: "portal", enabled: true}
		provider.On("NearbyStations", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("down")).Once()

		svc := NewAirQualityService(nil, nil, []StationProvider{provider}, testLogger())
		stations, err := svc.GetNearbyStations(ctx, 37.5665, 126.978)

		assert.Nil(t, stations)
		assert.ErrorIs(t, err, api.ErrProviderUnavailable)
	})
}

func TestBuiltinProvider(t *testing.T) {
	ctx := context.Background()
	provider := NewBuiltinProvider()

	t.Run("CurrentKnownCity", func(t *testing.T) {
		result, err := provider.Current(ctx, "서울")
		assert.NoError(t, err)
		assert.Equal(t, "내장 데이터", result.Source)
		assert.Equal(t, "서울 측정소", result.StationName)
		assert.Equal(t, 45.0, result.PM10.Value)
		assert.Equal(t, GradeModerate, result.AQI.Grade)
	})

	t.Run("CurrentUnknownCity", func(t *testing.T) {
		result, err := provider.Current(ctx, "광주")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, api.ErrNotFound)
	})

	t.Run("ForecastHasTwentyFourRows", func(t *testing.T) {
		result, err := provider.Forecast(ctx, "서울")
		assert.NoError(t, err)
		assert.Len(t, result.Forecasts, 24)
		assert.Equal(t, GradeModerate, result.Forecasts[0].PM10Grade)
		assert.Equal(t, "45", result.Forecasts[0].PM10Value)
	})

	t.Run("NearbyStationsComputesDistance", func(t *testing.T) {
		stations, err := provider.NearbyStations(ctx, 37.5704, 126.9997)
		assert.NoError(t, err)
		assert.Len(t, stations, 2)
		assert.InDelta(t, 0, stations[0].Distance, 0.01)
		assert.Greater(t, stations[1].Distance, 100.0)
	})
}
