package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "owm-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		if r.URL.Query().Get("q") != "Lisbon" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			return
		}

		switch r.URL.Path {
		case "/weather":
			w.Write([]byte(`{"name":"Lisbon","weather":[{"main":"Clear","description":"clear sky"}],"main":{"temp":21.5,"feels_like":20.9,"humidity":55},"wind":{"speed":3.2}}`))
		case "/forecast":
			assert.Equal(t, "2", r.URL.Query().Get("cnt"))
			w.Write([]byte(`{"city":{"name":"Lisbon","country":"PT"},"list":[
				{"dt_txt":"2026-05-01 12:00:00","main":{"temp":22},"weather":[{"description":"few clouds"}]},
				{"dt_txt":"2026-05-01 15:00:00","main":{"temp":23.4},"weather":[{"description":"sunny"}]}]}`))
		}
	}))
	t.Cleanup(server.Close)

	s, err := NewService("owm-key", WithBaseURL(server.URL))
	require.NoError(t, err)
	return s
}

func TestGetCurrentWeather(t *testing.T) {
	s := newTestService(t)

	current, err := s.GetCurrentWeather(context.Background(), "Lisbon")
	require.NoError(t, err)

	summary := current.Summary()
	assert.Contains(t, summary, "Current weather in Lisbon")
	assert.Contains(t, summary, "21.5°C")
	assert.Contains(t, summary, "clear sky")
}

func TestGetForecast(t *testing.T) {
	s := newTestService(t)

	forecast, err := s.GetForecast(context.Background(), "Lisbon", 2)
	require.NoError(t, err)
	require.Len(t, forecast.List, 2)

	summary := forecast.Summary()
	assert.Contains(t, summary, "2026-05-01 15:00:00: 23.4°C, sunny")
}

func TestGetCurrentWeatherUnknownCity(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetCurrentWeather(context.Background(), "Atlantis")
	assert.ErrorContains(t, err, "city not found")
}

func TestTransportErrorHidesAPIKey(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	s, err := NewService("SECRET-WX-KEY", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = s.GetCurrentWeather(context.Background(), "Lisbon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather request failed")
	assert.NotContains(t, err.Error(), "SECRET-WX-KEY")

	_, err = s.GetForecast(context.Background(), "Lisbon", 2)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-WX-KEY")
}
