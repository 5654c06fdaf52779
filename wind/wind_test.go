package wind

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	readings []float64
	errs     []error
	calls    int
}

func (s *scriptedSource) Fetch(_ context.Context) (float64, error) {
	i := s.calls
	s.calls++
	if s.errs[i] != nil {
		return 0, s.errs[i]
	}
	return s.readings[i], nil
}

func Test_Poller_KeepsStaleValueOnFailure(t *testing.T) {
	src := &scriptedSource{
		readings: []float64{8.5, 0, 3.0},
		errs:     []error{nil, errors.New("dns fell over"), nil},
	}
	p := NewPoller(src, 0)
	ctx := context.Background()

	p.refresh(ctx)
	assert.Equal(t, 8.5, p.Speed())

	// fetch fails, the cached value survives
	p.refresh(ctx)
	assert.Equal(t, 8.5, p.Speed())

	p.refresh(ctx)
	assert.Equal(t, 3.0, p.Speed())
}

func Test_Poller_RejectsGarbageReadings(t *testing.T) {
	src := &scriptedSource{
		readings: []float64{6.0, -4.0},
		errs:     []error{nil, nil},
	}
	p := NewPoller(src, 0)

	p.refresh(context.Background())
	p.refresh(context.Background())
	assert.Equal(t, 6.0, p.Speed())
}

func Test_Poller_OnRefresh(t *testing.T) {
	src := &scriptedSource{
		readings: []float64{5.0, 0},
		errs:     []error{nil, errors.New("timeout")},
	}
	p := NewPoller(src, 0)
	var seen []float64
	p.OnRefresh(func(speed float64) {
		seen = append(seen, speed)
	})

	p.refresh(context.Background())
	p.refresh(context.Background())

	// hook only fires for good readings
	assert.Equal(t, []float64{5.0}, seen)
}

func Test_Fixed(t *testing.T) {
	s, err := Fixed(7.5).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7.5, s)
}

func Test_OpenWeather_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Richland", r.URL.Query().Get("q"))
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))
		assert.Equal(t, "sekrit", r.URL.Query().Get("appid"))
		_, _ = rw.Write([]byte(`{"coord":{"lon":-119.28,"lat":46.29},
			"wind":{"speed":11.5,"deg":220,"gust":18.4},"name":"Richland"}`))
	}))
	defer srv.Close()

	o := NewOpenWeather("Richland", "sekrit")
	o.baseURL = srv.URL + "?"

	speed, err := o.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11.5, speed)
}

func Test_OpenWeather_Fetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		http.Error(rw, `{"cod":401}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	o := NewOpenWeather("Richland", "wrong")
	o.baseURL = srv.URL + "?"

	_, err := o.Fetch(context.Background())
	require.Error(t, err)
}

func Test_NWS_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = rw.Write([]byte(`{"properties":{"windSpeed":{"unitCode":"wmoUnit:km_h-1","value":16.092}}}`))
	}))
	defer srv.Close()

	n := NewNWS("KPSC")
	n.url = srv.URL

	speed, err := n.Fetch(context.Background())
	require.NoError(t, err)
	// 16.092 km/h is just about 10 mph
	assert.InDelta(t, 10.0, speed, 0.01)
}

func Test_NWS_Fetch_NullWindSpeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`{"properties":{"windSpeed":{"unitCode":"wmoUnit:km_h-1","value":null}}}`))
	}))
	defer srv.Close()

	n := NewNWS("KPSC")
	n.url = srv.URL

	_, err := n.Fetch(context.Background())
	require.Error(t, err)
}
