package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

type Service struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Service)

func WithBaseURL(baseURL string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.httpClient = client }
}

func NewService(apiKey string, opts ...Option) (*Service, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENWEATHERMAP_API_KEY is missing")
	}

	s := &Service{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type measurements struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  int     `json:"humidity"`
}

type Current struct {
	Name    string       `json:"name"`
	Weather []condition  `json:"weather"`
	Main    measurements `json:"main"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type ForecastEntry struct {
	DateText string       `json:"dt_txt"`
	Main     measurements `json:"main"`
	Weather  []condition  `json:"weather"`
}

type Forecast struct {
	List []ForecastEntry `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

type apiError struct {
	Message string `json:"message"`
}

func (s *Service) GetCurrentWeather(ctx context.Context, city string) (*Current, error) {
	log.Printf("[INFO] Fetching current weather for %s", city)

	var out Current
	if err := s.get(ctx, "weather", url.Values{"q": {city}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForecast returns up to count three-hour forecast slots.
func (s *Service) GetForecast(ctx context.Context, city string, count int) (*Forecast, error) {
	log.Printf("[INFO] Fetching %d forecast slots for %s", count, city)

	params := url.Values{"q": {city}}
	if count > 0 {
		params.Set("cnt", strconv.Itoa(count))
	}

	var out Forecast
	if err := s.get(ctx, "forecast", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) get(ctx context.Context, path string, params url.Values, dest any) error {
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build weather request: %w", withoutURL(err))
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", withoutURL(err))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read weather response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = res.Status
		}
		return fmt.Errorf("weather lookup failed: %s", apiErr.Message)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode weather response: %w", err)
	}
	return nil
}

func (c *Current) Summary() string {
	desc := "unknown conditions"
	if len(c.Weather) > 0 {
		desc = c.Weather[0].Description
	}
	return fmt.Sprintf("Current weather in %s: %.1f°C (feels like %.1f°C), %s, humidity %d%%, wind %.1f m/s",
		c.Name, c.Main.Temp, c.Main.FeelsLike, desc, c.Main.Humidity, c.Wind.Speed)
}

func (f *Forecast) Summary() string {
	if len(f.List) == 0 {
		return fmt.Sprintf("No forecast data available for %s", f.City.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weather forecast for %s:\n", f.City.Name)
	for _, entry := range f.List {
		desc := ""
		if len(entry.Weather) > 0 {
			desc = entry.Weather[0].Description
		}
		fmt.Fprintf(&b, "- %s: %.1f°C, %s\n", entry.DateText, entry.Main.Temp, desc)
	}
	return strings.TrimSpace(b.String())
}

// withoutURL drops the request URL from transport errors; it carries the
// appid query parameter.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
