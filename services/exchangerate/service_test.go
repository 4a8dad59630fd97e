package exchangerate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, calls *int32) *Service {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		switch r.URL.Path {
		case "/test-key/latest/USD":
			w.Write([]byte(`{"result":"success","base_code":"USD","conversion_rates":{"USD":1,"EUR":0.5,"INR":80}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
		}
	}))
	t.Cleanup(server.Close)

	s, err := NewService("test-key", WithBaseURL(server.URL))
	require.NoError(t, err)
	return s
}

func TestConvert(t *testing.T) {
	var calls int32
	s := newTestService(t, &calls)

	eur, err := s.Convert(context.Background(), 100, "usd", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 50, eur, 0.0001)

	inr, err := s.Convert(context.Background(), 2, "USD", "inr")
	require.NoError(t, err)
	assert.InDelta(t, 160, inr, 0.0001)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "rates for a base are fetched once")
}

func TestConvertSameCurrencySkipsLookup(t *testing.T) {
	var calls int32
	s := newTestService(t, &calls)

	v, err := s.Convert(context.Background(), 42, "EUR", "eur")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestConvertErrors(t *testing.T) {
	var calls int32
	s := newTestService(t, &calls)

	_, err := s.Convert(context.Background(), 1, "XXX", "EUR")
	assert.ErrorContains(t, err, "unsupported-code")

	_, err = s.Convert(context.Background(), 1, "USD", "ZZZ")
	assert.ErrorContains(t, err, "unsupported target currency")

	_, err = s.Convert(context.Background(), 1, "", "EUR")
	assert.Error(t, err)
}

func TestConvertTransportErrorHidesAPIKey(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	s, err := NewService("SECRET-EX-KEY", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = s.Convert(context.Background(), 1, "USD", "EUR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange rate request failed")
	assert.NotContains(t, err.Error(), "SECRET-EX-KEY")
	assert.NotContains(t, err.Error(), server.URL)
}
