package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.tavily.com/search"

type Service struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

type Option func(*Service)

func WithEndpoint(endpoint string) Option {
	return func(s *Service) { s.endpoint = endpoint }
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.httpClient = client }
}

func NewService(apiKey string, opts ...Option) (*Service, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY is missing")
	}

	s := &Service{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type searchRequest struct {
	Query         string `json:"query"`
	Topic         string `json:"topic"`
	IncludeAnswer string `json:"include_answer"`
	MaxResults    int    `json:"max_results"`
}

type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer"`
	Results []SearchResult `json:"results"`
}

// Search runs one query and returns the synthesized answer, falling back
// to the raw result snippets when no answer was produced.
func (s *Service) Search(ctx context.Context, query string) (string, error) {
	log.Printf("[INFO] Starting Tavily search: %.80s", query)

	resp, err := s.search(ctx, query)
	if err != nil {
		log.Printf("[ERROR] Tavily search failed: %v", err)
		return "", err
	}

	if answer := strings.TrimSpace(resp.Answer); answer != "" {
		return answer, nil
	}

	if len(resp.Results) == 0 {
		return "", fmt.Errorf("tavily returned no answer or results")
	}

	var b strings.Builder
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "%d. %s (%s)\n%s\n", i+1, r.Title, r.URL, strings.TrimSpace(r.Content))
	}
	return strings.TrimSpace(b.String()), nil
}

func (s *Service) search(ctx context.Context, query string) (*SearchResponse, error) {
	body, err := json.Marshal(searchRequest{
		Query:         query,
		Topic:         "general",
		IncludeAnswer: "advanced",
		MaxResults:    5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build tavily request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read tavily response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily returned status %d: %s", res.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out SearchResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("failed to decode tavily response: %w", err)
	}
	return &out, nil
}
