package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharv3903/borderroute/internal/algo"
	"github.com/atharv3903/borderroute/internal/cache"
	"github.com/atharv3903/borderroute/internal/dataset"
	"github.com/atharv3903/borderroute/internal/model"
)

func newService(src dataset.Source) *Service {
	return New(cache.NewGraphCache(src), cache.NewRouteCache(), algo.Options{Metric: algo.MetricDistance, Heuristic: true}, nil)
}

func TestRouteScenarios(t *testing.T) {
	svc := newService(dataset.Embedded())
	ctx := context.Background()

	r, err := svc.Route(ctx, "CZE", "ITA")
	require.NoError(t, err)
	assert.Equal(t, []string{"CZE", "AUT", "ITA"}, r.Path)
	assert.False(t, r.CacheHit)

	r, err = svc.Route(ctx, "esp", " chn ")
	require.NoError(t, err)
	assert.Equal(t, []string{"ESP", "FRA", "DEU", "POL", "RUS", "CHN"}, r.Path)
}

func TestReverseRouteComesFromCache(t *testing.T) {
	svc := newService(dataset.Embedded())
	ctx := context.Background()

	fwd, err := svc.Route(ctx, "ESP", "CHN")
	require.NoError(t, err)
	rev, err := svc.Route(ctx, "CHN", "ESP")
	require.NoError(t, err)

	assert.True(t, rev.CacheHit)
	require.Len(t, rev.Path, len(fwd.Path))
	for i := range fwd.Path {
		assert.Equal(t, fwd.Path[i], rev.Path[len(rev.Path)-1-i])
	}
	assert.Equal(t, fwd.Cost, rev.Cost)
}

func TestRouteIsIdempotent(t *testing.T) {
	svc := newService(dataset.Embedded())
	ctx := context.Background()

	first, err := svc.Route(ctx, "PRT", "KOR")
	require.NoError(t, err)
	first.Path[0] = "XXX"

	for i := 0; i < 3; i++ {
		again, err := svc.Route(ctx, "PRT", "KOR")
		require.NoError(t, err)
		assert.True(t, again.CacheHit)
		assert.Equal(t, []string{"PRT", "ESP", "FRA", "DEU", "POL", "RUS", "PRK", "KOR"}, again.Path)
	}
}

func TestRouteErrors(t *testing.T) {
	svc := newService(dataset.Embedded())
	ctx := context.Background()

	_, err := svc.Route(ctx, "ABC", "ITA")
	var unknown *UnknownCountryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ABC", unknown.Code)
	assert.EqualError(t, err, "ABC does not exist.")

	_, err = svc.Route(ctx, "ITA", "XYZ")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "XYZ", unknown.Code)

	// unknown origin is reported before identical endpoints
	_, err = svc.Route(ctx, "ABC", "ABC")
	assert.EqualError(t, err, "ABC does not exist.")

	_, err = svc.Route(ctx, "ITA", "ita")
	assert.ErrorIs(t, err, ErrIdenticalEndpoints)

	_, err = svc.Route(ctx, "ESP", "AUS")
	var noRoute *NoRouteError
	require.ErrorAs(t, err, &noRoute)
	assert.EqualError(t, err, "No land route between ESP and AUS")

	// the failed search is cached in both directions
	_, err = svc.Route(ctx, "AUS", "ESP")
	assert.EqualError(t, err, "No land route between AUS and ESP")
	st := svc.Stats()
	assert.Equal(t, 2, st.Entries)
	assert.Equal(t, 1, st.Hits)

	for _, e := range []error{unknown, ErrIdenticalEndpoints, noRoute} {
		assert.True(t, IsClientError(e), "%v", e)
	}
	assert.False(t, IsClientError(errors.New("boom")))
	assert.False(t, IsClientError(dataset.ErrLoad))
}

func TestCountryExists(t *testing.T) {
	svc := newService(dataset.Embedded())
	ok, err := svc.CountryExists(context.Background(), "ABC")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CountryExists(context.Background(), "cze")
	require.NoError(t, err)
	assert.True(t, ok)
}

type failingSource struct{}

func (failingSource) Load(context.Context) ([]model.CountryRecord, error) {
	return nil, dataset.ErrLoad
}

func TestDatasetFailureIsNotAClientError(t *testing.T) {
	svc := newService(failingSource{})
	_, err := svc.Route(context.Background(), "CZE", "ITA")
	assert.ErrorIs(t, err, dataset.ErrLoad)
	assert.False(t, IsClientError(err))
	assert.False(t, svc.Stats().GraphBuilt)
}

func TestCountries(t *testing.T) {
	svc := newService(dataset.Embedded())
	list, err := svc.Countries(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Code, list[i].Code)
	}
	for _, c := range list {
		if c.Code == "CZE" {
			assert.Equal(t, "Czechia", c.Name)
			assert.Equal(t, []string{"AUT", "DEU", "POL", "SVK"}, c.Borders)
		}
	}

	st := svc.Stats()
	assert.True(t, st.GraphBuilt)
	assert.Equal(t, len(list), st.Nodes)
}
