package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := NewService("tvly-test", WithEndpoint(server.URL))
	require.NoError(t, err)
	return s
}

func TestSearchReturnsAnswer(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))

		var req searchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "attractions in Lisbon", req.Query)
		assert.Equal(t, "advanced", req.IncludeAnswer)
		assert.Equal(t, "general", req.Topic)

		json.NewEncoder(w).Encode(SearchResponse{Answer: "Belem Tower and Alfama"})
	})

	answer, err := s.Search(context.Background(), "attractions in Lisbon")
	require.NoError(t, err)
	assert.Equal(t, "Belem Tower and Alfama", answer)
}

func TestSearchFallsBackToResults(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{
			{Title: "Visit Lisbon", URL: "https://example.com", Content: "Trams and viewpoints"},
		}})
	})

	answer, err := s.Search(context.Background(), "Lisbon")
	require.NoError(t, err)
	assert.Contains(t, answer, "Visit Lisbon")
	assert.Contains(t, answer, "Trams and viewpoints")
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "upstream status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":{"error":"invalid key"}}`))
			},
			wantErr: "status 401",
		},
		{
			name: "empty response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
			wantErr: "no answer",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
			wantErr: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, tt.handler)
			_, err := s.Search(context.Background(), "Lisbon")
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewServiceRequiresKey(t *testing.T) {
	_, err := NewService("  ")
	assert.Error(t, err)
}
