package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const defaultBaseURL = "https://v6.exchangerate-api.com/v6"

// Service converts amounts using ExchangeRate-API latest rates. Rate tables
// are cached per base currency.
type Service struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	rates      *cache.Cache
}

type Option func(*Service)

func WithBaseURL(baseURL string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.httpClient = client }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.rates = cache.New(ttl, 2*ttl) }
}

func NewService(apiKey string, opts ...Option) (*Service, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("EXCHANGE_RATE_API_KEY is missing")
	}

	s := &Service{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		rates:      cache.New(time.Hour, 2*time.Hour),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type latestResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Convert returns amount expressed in the target currency.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return 0, fmt.Errorf("currency codes are required")
	}
	if from == to {
		return amount, nil
	}

	rates, err := s.latestRates(ctx, from)
	if err != nil {
		return 0, err
	}

	rate, ok := rates[to]
	if !ok {
		return 0, fmt.Errorf("unsupported target currency %s", to)
	}
	return amount * rate, nil
}

func (s *Service) latestRates(ctx context.Context, base string) (map[string]float64, error) {
	if cached, ok := s.rates.Get(base); ok {
		return cached.(map[string]float64), nil
	}

	log.Printf("[INFO] Fetching exchange rates for %s", base)

	endpoint := fmt.Sprintf("%s/%s/latest/%s", s.baseURL, s.apiKey, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build exchange rate request: %w", withoutURL(err))
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange rate request failed: %w", withoutURL(err))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read exchange rate response: %w", err)
	}

	var out latestResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rate response (status %d): %w", res.StatusCode, err)
	}

	if res.StatusCode != http.StatusOK || out.Result != "success" {
		reason := out.ErrorType
		if reason == "" {
			reason = res.Status
		}
		log.Printf("[ERROR] Exchange rate lookup for %s failed: %s", base, reason)
		return nil, fmt.Errorf("exchange rate lookup for %s failed: %s", base, reason)
	}

	s.rates.SetDefault(base, out.ConversionRates)
	return out.ConversionRates, nil
}

// withoutURL drops the request URL from transport errors; it carries the API
// key as a path segment.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
