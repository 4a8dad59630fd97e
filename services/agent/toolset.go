package agent

import (
	"fmt"
	"log"

	"github.com/Uday-Parmar07/AI-Trip-Planner/services/exchangerate"
	"github.com/Uday-Parmar07/AI-Trip-Planner/services/tavily"
	"github.com/Uday-Parmar07/AI-Trip-Planner/services/weather"
)

type ToolCredentials struct {
	TavilyAPIKey         string
	ExchangeRateAPIKey   string
	OpenWeatherMapAPIKey string
}

// NewTravelRegistry registers every tool whose credentials are present.
// Tools with missing credentials are left out and logged.
func NewTravelRegistry(creds ToolCredentials) (*Registry, error) {
	tools := []AgentTool{
		EstimateHotelCostTool{},
		CalculateTotalExpenseTool{},
		CalculateDailyBudgetTool{},
	}

	if searcher, err := tavily.NewService(creds.TavilyAPIKey); err != nil {
		log.Printf("[WARN] Place search tools disabled: %v", err)
	} else {
		tools = append(tools,
			NewSearchAttractionsTool(searcher),
			NewSearchRestaurantsTool(searcher),
			NewSearchActivitiesTool(searcher),
			NewSearchTransportationTool(searcher),
		)
	}

	if converter, err := exchangerate.NewService(creds.ExchangeRateAPIKey); err != nil {
		log.Printf("[WARN] Currency conversion tool disabled: %v", err)
	} else {
		tools = append(tools, NewConvertCurrencyTool(converter))
	}

	if provider, err := weather.NewService(creds.OpenWeatherMapAPIKey); err != nil {
		log.Printf("[WARN] Weather tools disabled: %v", err)
	} else {
		tools = append(tools, NewCurrentWeatherTool(provider), NewWeatherForecastTool(provider))
	}

	registry, err := NewRegistry(tools...)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	log.Printf("[INFO] Registered %d tools: %v", registry.Len(), registry.Names())
	return registry, nil
}
