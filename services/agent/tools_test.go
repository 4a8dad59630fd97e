package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(echoTool("echo"), echoTool("echo"))
	assert.ErrorContains(t, err, "registered twice")

	_, err = NewRegistry(echoTool(""))
	assert.Error(t, err)
}

func TestRegistryDescriptorsFollowSchema(t *testing.T) {
	registry, err := NewRegistry(NewConvertCurrencyTool(fakeConverter{rate: 1}), NewWeatherForecastTool(nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"convert_currency", "get_weather_forecast"}, registry.Names())

	currency, ok := registry.Lookup("convert_currency")
	require.True(t, ok)
	require.Len(t, currency.Parameters, 3)
	assert.Equal(t, Parameter{
		Name:        "amount",
		Type:        ParamNumber,
		Description: "Amount of money to convert",
		Required:    true,
	}, currency.Parameters[0])

	forecast, ok := registry.Lookup("get_weather_forecast")
	require.True(t, ok)
	slots, ok := forecast.parameter("slots")
	require.True(t, ok)
	assert.Equal(t, ParamInteger, slots.Type)
	assert.False(t, slots.Required)
}

func TestRegistryUnknownToolSuggestsClosestName(t *testing.T) {
	registry, err := NewRegistry(
		NewSearchAttractionsTool(&fakeSearcher{}),
		NewSearchActivitiesTool(&fakeSearcher{}),
	)
	require.NoError(t, err)

	_, err = registry.Invoke(context.Background(), "SearchAttractions", map[string]any{"place": "Lisbon"})
	require.ErrorIs(t, err, ErrUnknownTool)
	assert.Contains(t, err.Error(), `did you mean "search_attractions"`)
	assert.Contains(t, err.Error(), "available tools: search_attractions, search_activities")
}

func TestRegistryInvokeValidation(t *testing.T) {
	registry, err := NewRegistry(
		EstimateHotelCostTool{},
		CalculateTotalExpenseTool{},
		CalculateDailyBudgetTool{},
		NewConvertCurrencyTool(fakeConverter{rate: 0.5}),
	)
	require.NoError(t, err)

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		expected string
		wantErr  error
	}{
		{
			name:     "hotel cost from numeric strings",
			tool:     "estimate_hotel_cost",
			args:     map[string]any{"price_per_night": "120", "total_days": 3.0},
			expected: "360.00",
		},
		{
			name:    "hotel cost missing argument",
			tool:    "estimate_hotel_cost",
			args:    map[string]any{"price_per_night": 120.0},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "hotel cost negative price",
			tool:    "estimate_hotel_cost",
			args:    map[string]any{"price_per_night": -1.0, "total_days": 2.0},
			wantErr: ErrInvalidArguments,
		},
		{
			name:     "total expense from list",
			tool:     "calculate_total_expense",
			args:     map[string]any{"costs": []any{100.0, "50.5", 25}},
			expected: "175.50",
		},
		{
			name:     "total expense from comma separated string",
			tool:     "calculate_total_expense",
			args:     map[string]any{"costs": "10, 20, 30"},
			expected: "60.00",
		},
		{
			name:     "total expense with thousands separators in string list",
			tool:     "calculate_total_expense",
			args:     map[string]any{"costs": "1,000, 2,500"},
			expected: "3500.00",
		},
		{
			name:     "total expense with thousands separators in list items",
			tool:     "calculate_total_expense",
			args:     map[string]any{"costs": []any{"1,000", "2,500"}},
			expected: "3500.00",
		},
		{
			name:     "total expense from semicolon separated string",
			tool:     "calculate_total_expense",
			args:     map[string]any{"costs": "1,000;250.5"},
			expected: "1250.50",
		},
		{
			name:    "total expense with bare comma list",
			tool:    "calculate_total_expense",
			args:    map[string]any{"costs": "10,20,30"},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "total expense with decimal comma item",
			tool:    "calculate_total_expense",
			args:    map[string]any{"costs": "1,5 2"},
			wantErr: ErrInvalidArguments,
		},
		{
			name:     "hotel cost with thousands separator",
			tool:     "estimate_hotel_cost",
			args:     map[string]any{"price_per_night": "1,200", "total_days": 2.0},
			expected: "2400.00",
		},
		{
			name:    "hotel cost with decimal comma",
			tool:    "estimate_hotel_cost",
			args:    map[string]any{"price_per_night": "1,5", "total_days": 2.0},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "total expense with non-numeric item",
			tool:    "calculate_total_expense",
			args:    map[string]any{"costs": []any{10.0, "lots"}},
			wantErr: ErrInvalidArguments,
		},
		{
			name:     "daily budget",
			tool:     "calculate_daily_budget",
			args:     map[string]any{"total_cost": 1000.0, "days": "4"},
			expected: "250.00",
		},
		{
			name:    "daily budget zero days",
			tool:    "calculate_daily_budget",
			args:    map[string]any{"total_cost": 1000.0, "days": 0.0},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "daily budget fractional days",
			tool:    "calculate_daily_budget",
			args:    map[string]any{"total_cost": 1000.0, "days": 2.5},
			wantErr: ErrInvalidArguments,
		},
		{
			name:     "currency conversion",
			tool:     "convert_currency",
			args:     map[string]any{"amount": "100", "from_currency": "usd", "to_currency": "eur"},
			expected: "100.00 USD = 50.00 EUR",
		},
		{
			name:    "currency conversion non-numeric amount",
			tool:    "convert_currency",
			args:    map[string]any{"amount": "abc", "from_currency": "USD", "to_currency": "EUR"},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "currency conversion unexpected argument",
			tool:    "convert_currency",
			args:    map[string]any{"amount": 1.0, "from_currency": "USD", "to_currency": "EUR", "date": "today"},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "unknown tool",
			tool:    "book_flight",
			args:    nil,
			wantErr: ErrUnknownTool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := registry.Invoke(context.Background(), tt.tool, tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRegistryInvokeWrapsToolFailures(t *testing.T) {
	failing := stubTool{name: "flaky", fn: func(ctx context.Context, input string) (string, error) {
		return "", errors.New("upstream 500")
	}}
	panicking := stubTool{name: "broken", fn: func(ctx context.Context, input string) (string, error) {
		panic("nil map")
	}}
	registry, err := NewRegistry(failing, panicking, NewConvertCurrencyTool(fakeConverter{err: errors.New("rate service down")}))
	require.NoError(t, err)

	_, err = registry.Invoke(context.Background(), "flaky", nil)
	require.ErrorIs(t, err, ErrToolExecution)
	assert.Contains(t, err.Error(), "upstream 500")

	_, err = registry.Invoke(context.Background(), "broken", nil)
	require.ErrorIs(t, err, ErrToolExecution)
	assert.Contains(t, err.Error(), "panic")

	_, err = registry.Invoke(context.Background(), "convert_currency", map[string]any{
		"amount": 5.0, "from_currency": "USD", "to_currency": "EUR",
	})
	require.ErrorIs(t, err, ErrToolExecution)
	assert.Contains(t, err.Error(), "currency conversion service unavailable")
}

func TestSearchRestaurantsRunsBothQueries(t *testing.T) {
	searcher := &fakeSearcher{answer: "Time Out Market"}
	registry, err := NewRegistry(NewSearchRestaurantsTool(searcher))
	require.NoError(t, err)

	result, err := registry.Invoke(context.Background(), "search_restaurants", map[string]any{"place": "Lisbon"})
	require.NoError(t, err)

	assert.Len(t, searcher.queries, 2)
	assert.Contains(t, result, "Vegetarian restaurants in Lisbon:\n\nTime Out Market")
	assert.Contains(t, result, "Non-vegetarian restaurants in Lisbon:\n\nTime Out Market")
}

func TestSearchToolErrors(t *testing.T) {
	registry, err := NewRegistry(NewSearchTransportationTool(&fakeSearcher{err: errors.New("quota exceeded")}))
	require.NoError(t, err)

	_, err = registry.Invoke(context.Background(), "search_transportation", map[string]any{"place": "Lisbon"})
	require.ErrorIs(t, err, ErrToolExecution)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = registry.Invoke(context.Background(), "search_transportation", map[string]any{"place": "   "})
	require.ErrorIs(t, err, ErrInvalidArguments)
}

func TestNewTravelRegistryExcludesToolsWithoutCredentials(t *testing.T) {
	tests := []struct {
		name     string
		creds    ToolCredentials
		expected []string
	}{
		{
			name:     "no credentials",
			creds:    ToolCredentials{},
			expected: []string{"estimate_hotel_cost", "calculate_total_expense", "calculate_daily_budget"},
		},
		{
			name:  "currency only",
			creds: ToolCredentials{ExchangeRateAPIKey: "fx"},
			expected: []string{
				"estimate_hotel_cost", "calculate_total_expense", "calculate_daily_budget", "convert_currency",
			},
		},
		{
			name: "all credentials",
			creds: ToolCredentials{
				TavilyAPIKey:         "tvly",
				ExchangeRateAPIKey:   "fx",
				OpenWeatherMapAPIKey: "owm",
			},
			expected: []string{
				"estimate_hotel_cost", "calculate_total_expense", "calculate_daily_budget",
				"search_attractions", "search_restaurants", "search_activities", "search_transportation",
				"convert_currency", "get_current_weather", "get_weather_forecast",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := NewTravelRegistry(tt.creds)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, registry.Names())

			if tt.creds.ExchangeRateAPIKey == "" {
				_, err = registry.Invoke(context.Background(), "convert_currency", map[string]any{
					"amount": 1.0, "from_currency": "USD", "to_currency": "EUR",
				})
				assert.ErrorIs(t, err, ErrUnknownTool)
			}
		})
	}
}
