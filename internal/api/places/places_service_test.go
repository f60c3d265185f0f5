package places

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/weatherflick/weather-travel-api/internal/types"
)

type MockLocalSearchProvider struct {
	mock.Mock
}

func (m *MockLocalSearchProvider) SearchLocal(ctx context.Context, query, location string, limit int) ([]types.Place, error) {
	args := m.Called(ctx, query, location, limit)
	if places, ok := args.Get(0).([]types.Place); ok {
		return places, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSearchPlacesService(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		provider := new(MockLocalSearchProvider)
		provider.On("SearchLocal", mock.Anything, "시장", "", 10).
			Return([]types.Place{{Title: "광장시장"}}, nil).Once()

		svc := NewPlacesService(provider, slog.Default())
		places, err := svc.SearchPlaces(ctx, "시장", "", 10)

		assert.NoError(t, err)
		assert.Len(t, places, 1)
		provider.AssertExpectations(t)
	})

	t.Run("SecondLookupServedFromCache", func(t *testing.T) {
		provider := new(MockLocalSearchProvider)
		provider.On("SearchLocal", mock.Anything, "맛집", "", 20).
			Return([]types.Place{{Title: "성수동 식당"}}, nil).Once()

		svc := NewPlacesService(provider, slog.Default())

		_, err := svc.SearchPlaces(ctx, "맛집", "", 20)
		assert.NoError(t, err)
		_, err = svc.SearchPlaces(ctx, "맛집", "", 20)
		assert.NoError(t, err)

		provider.AssertExpectations(t)
	})

	t.Run("ProviderError", func(t *testing.T) {
		provider := new(MockLocalSearchProvider)
		provider.On("SearchLocal", mock.Anything, "시장", "", 20).
			Return(nil, errors.New("naver down")).Once()

		svc := NewPlacesService(provider, slog.Default())
		places, err := svc.SearchPlaces(ctx, "시장", "", 20)

		assert.Nil(t, places)
		assert.Error(t, err)
	})
}

func TestGetNearbyPlacesBuildsQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("WithCategory", func(t *testing.T) {
		provider := new(MockLocalSearchProvider)
		provider.On("SearchLocal", mock.Anything, "주변 맛집", "37.5665,126.978", 20).
			Return([]types.Place{}, nil).Once()

		svc := NewPlacesService(provider, slog.Default())
		_, err := svc.GetNearbyRestaurants(ctx, 37.5665, 126.978)

		assert.NoError(t, err)
		provider.AssertExpectations(t)
	})

	t.Run("WithoutCategory", func(t *testing.T) {
		provider := new(MockLocalSearchProvider)
		provider.On("SearchLocal", mock.Anything, "주변", "35.1796,129.0756", 20).
			Return([]types.Place{}, nil).Once()

		svc := NewPlacesService(provider, slog.Default())
		_, err := svc.GetNearbyPlaces(ctx, 35.1796, 129.0756, "")

		assert.NoError(t, err)
		provider.AssertExpectations(t)
	})
}

func TestGetRouteGuidance(t *testing.T) {
	svc := NewPlacesService(nil, slog.Default())

	guidance := svc.GetRouteGuidance("서울역", "부산역", "")
	assert.Equal(t, "driving", guidance.Mode)
	assert.Equal(t, "https://map.naver.com/v5/directions/서울역/부산역", guidance.MapURL)
}

func TestGetCityCoordinates(t *testing.T) {
	svc := NewPlacesService(nil, slog.Default())

	coords, ok := svc.GetCityCoordinates("제주")
	assert.True(t, ok)
	assert.Equal(t, 33.4996, coords.Latitude)

	_, ok = svc.GetCityCoordinates("평양")
	assert.False(t, ok)
}

func TestMapURLs(t *testing.T) {
	svc := NewPlacesService(nil, slog.Default())

	embed := svc.GetEmbedMapURL(37.5665, 126.978, 15, 600, 400)
	assert.Equal(t, "https://map.naver.com/v5/embed/place/37.5665,126.978?zoom=15&width=600&height=400", embed)

	static := svc.GetStaticMapURL(37.5665, 126.978, 15, 600, 400)
	assert.Equal(t, "https://map.naver.com/v5/staticmap?lat=37.5665&lng=126.978&zoom=15&size=600x400", static)
}
