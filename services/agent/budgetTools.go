package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

type EstimateHotelCostToolInput struct {
	PricePerNight float64 `json:"price_per_night" jsonschema:"required,description=Hotel price for one night"`
	TotalDays     float64 `json:"total_days" jsonschema:"required,description=Number of nights to stay"`
}

type EstimateHotelCostTool struct{}

func (EstimateHotelCostTool) Name() string {
	return "estimate_hotel_cost"
}

func (EstimateHotelCostTool) Description() string {
	return "Estimate total hotel cost for a given price per night and number of nights"
}

func (EstimateHotelCostTool) InputSchema() *jsonschema.Schema {
	return generateSchema[EstimateHotelCostToolInput]()
}

func (EstimateHotelCostTool) Call(ctx context.Context, input string) (string, error) {
	var params EstimateHotelCostToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse estimate hotel cost tool input: %v", err)
	}
	if params.PricePerNight < 0 || params.TotalDays < 0 {
		return "", fmt.Errorf("%w: price_per_night and total_days must not be negative", ErrInvalidArguments)
	}
	return formatAmount(params.PricePerNight * params.TotalDays), nil
}

type CalculateTotalExpenseToolInput struct {
	Costs []float64 `json:"costs" jsonschema:"required,description=Individual costs to add up"`
}

type CalculateTotalExpenseTool struct{}

func (CalculateTotalExpenseTool) Name() string {
	return "calculate_total_expense"
}

func (CalculateTotalExpenseTool) Description() string {
	return "Calculate total trip expense by adding up multiple individual costs"
}

func (CalculateTotalExpenseTool) InputSchema() *jsonschema.Schema {
	return generateSchema[CalculateTotalExpenseToolInput]()
}

func (CalculateTotalExpenseTool) Call(ctx context.Context, input string) (string, error) {
	var params CalculateTotalExpenseToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse calculate total expense tool input: %v", err)
	}
	return formatAmount(lo.Sum(params.Costs)), nil
}

type CalculateDailyBudgetToolInput struct {
	TotalCost float64 `json:"total_cost" jsonschema:"required,description=Total cost of the trip"`
	Days      int     `json:"days" jsonschema:"required,description=Number of days in the trip"`
}

type CalculateDailyBudgetTool struct{}

func (CalculateDailyBudgetTool) Name() string {
	return "calculate_daily_budget"
}

func (CalculateDailyBudgetTool) Description() string {
	return "Calculate average daily budget from total cost and number of days"
}

func (CalculateDailyBudgetTool) InputSchema() *jsonschema.Schema {
	return generateSchema[CalculateDailyBudgetToolInput]()
}

func (CalculateDailyBudgetTool) Call(ctx context.Context, input string) (string, error) {
	var params CalculateDailyBudgetToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse calculate daily budget tool input: %v", err)
	}
	if params.Days <= 0 {
		return "", fmt.Errorf("%w: days must be greater than zero", ErrInvalidArguments)
	}
	return formatAmount(params.TotalCost / float64(params.Days)), nil
}

type CurrencyConverter interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

type ConvertCurrencyToolInput struct {
	Amount       float64 `json:"amount" jsonschema:"required,description=Amount of money to convert"`
	FromCurrency string  `json:"from_currency" jsonschema:"required,description=ISO 4217 code of the source currency such as USD"`
	ToCurrency   string  `json:"to_currency" jsonschema:"required,description=ISO 4217 code of the target currency such as EUR"`
}

type ConvertCurrencyTool struct {
	converter CurrencyConverter
}

func NewConvertCurrencyTool(converter CurrencyConverter) ConvertCurrencyTool {
	return ConvertCurrencyTool{converter: converter}
}

func (ConvertCurrencyTool) Name() string {
	return "convert_currency"
}

func (ConvertCurrencyTool) Description() string {
	return "Convert an amount from one currency to another using live exchange rates"
}

func (ConvertCurrencyTool) InputSchema() *jsonschema.Schema {
	return generateSchema[ConvertCurrencyToolInput]()
}

func (c ConvertCurrencyTool) Call(ctx context.Context, input string) (string, error) {
	var params ConvertCurrencyToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse convert currency tool input: %v", err)
	}

	from := strings.ToUpper(strings.TrimSpace(params.FromCurrency))
	to := strings.ToUpper(strings.TrimSpace(params.ToCurrency))
	if len(from) != 3 || len(to) != 3 {
		return "", fmt.Errorf("%w: currency codes must be three letters", ErrInvalidArguments)
	}

	converted, err := c.converter.Convert(ctx, params.Amount, from, to)
	if err != nil {
		return "", fmt.Errorf("currency conversion service unavailable: %v", err)
	}

	return fmt.Sprintf("%s %s = %s %s", formatAmount(params.Amount), from, formatAmount(converted), to), nil
}
