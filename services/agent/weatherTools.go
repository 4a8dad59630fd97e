package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Uday-Parmar07/AI-Trip-Planner/services/weather"

	"github.com/invopop/jsonschema"
)

type WeatherProvider interface {
	GetCurrentWeather(ctx context.Context, city string) (*weather.Current, error)
	GetForecast(ctx context.Context, city string, count int) (*weather.Forecast, error)
}

type CurrentWeatherToolInput struct {
	City string `json:"city" jsonschema:"required,description=City name such as Lisbon"`
}

type CurrentWeatherTool struct {
	provider WeatherProvider
}

func NewCurrentWeatherTool(provider WeatherProvider) CurrentWeatherTool {
	return CurrentWeatherTool{provider: provider}
}

func (CurrentWeatherTool) Name() string {
	return "get_current_weather"
}

func (CurrentWeatherTool) Description() string {
	return "Get the current weather for a city: temperature, conditions, humidity and wind"
}

func (CurrentWeatherTool) InputSchema() *jsonschema.Schema {
	return generateSchema[CurrentWeatherToolInput]()
}

func (w CurrentWeatherTool) Call(ctx context.Context, input string) (string, error) {
	var params CurrentWeatherToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse current weather tool input: %v", err)
	}
	if strings.TrimSpace(params.City) == "" {
		return "", fmt.Errorf("%w: city must not be empty", ErrInvalidArguments)
	}

	current, err := w.provider.GetCurrentWeather(ctx, strings.TrimSpace(params.City))
	if err != nil {
		return "", err
	}
	return current.Summary(), nil
}

const defaultForecastSlots = 8

type WeatherForecastToolInput struct {
	City  string `json:"city" jsonschema:"required,description=City name such as Lisbon"`
	Slots int    `json:"slots,omitempty" jsonschema:"description=Number of three-hour forecast slots (default 8 and at most 40)"`
}

type WeatherForecastTool struct {
	provider WeatherProvider
}

func NewWeatherForecastTool(provider WeatherProvider) WeatherForecastTool {
	return WeatherForecastTool{provider: provider}
}

func (WeatherForecastTool) Name() string {
	return "get_weather_forecast"
}

func (WeatherForecastTool) Description() string {
	return "Get the weather forecast for a city in three-hour slots for up to five days"
}

func (WeatherForecastTool) InputSchema() *jsonschema.Schema {
	return generateSchema[WeatherForecastToolInput]()
}

func (w WeatherForecastTool) Call(ctx context.Context, input string) (string, error) {
	var params WeatherForecastToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse weather forecast tool input: %v", err)
	}
	if strings.TrimSpace(params.City) == "" {
		return "", fmt.Errorf("%w: city must not be empty", ErrInvalidArguments)
	}

	slots := params.Slots
	if slots <= 0 {
		slots = defaultForecastSlots
	}
	if slots > 40 {
		slots = 40
	}

	forecast, err := w.provider.GetForecast(ctx, strings.TrimSpace(params.City), slots)
	if err != nil {
		return "", err
	}
	return forecast.Summary(), nil
}
