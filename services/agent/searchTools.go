package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"golang.org/x/sync/errgroup"
)

type PlaceSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type PlaceSearchToolInput struct {
	Place string `json:"place" jsonschema:"required,description=City or region to search for example Lisbon or Kyoto"`
}

type searchSection struct {
	heading string
	query   string
}

// PlaceSearchTool answers one travel topic by running one search per section.
type PlaceSearchTool struct {
	name        string
	description string
	searcher    PlaceSearcher
	sections    []searchSection
}

func (p PlaceSearchTool) Name() string {
	return p.name
}

func (p PlaceSearchTool) Description() string {
	return p.description
}

func (p PlaceSearchTool) InputSchema() *jsonschema.Schema {
	return generateSchema[PlaceSearchToolInput]()
}

func (p PlaceSearchTool) Call(ctx context.Context, input string) (string, error) {
	var params PlaceSearchToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse %s tool input: %v", p.name, err)
	}

	place := strings.TrimSpace(params.Place)
	if place == "" {
		return "", fmt.Errorf("%w: place must not be empty", ErrInvalidArguments)
	}

	answers := make([]string, len(p.sections))
	g, gctx := errgroup.WithContext(ctx)
	for i, section := range p.sections {
		g.Go(func() error {
			answer, err := p.searcher.Search(gctx, fmt.Sprintf(section.query, place))
			if err != nil {
				return fmt.Errorf("failed to search %s: %v", place, err)
			}
			answers[i] = fmt.Sprintf(section.heading, place) + ":\n\n" + answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(answers, "\n\n"), nil
}

func NewSearchAttractionsTool(searcher PlaceSearcher) PlaceSearchTool {
	return PlaceSearchTool{
		name:        "search_attractions",
		description: "Get top tourist attractions in a place with descriptions, timings, ticket info and reasons they are famous",
		searcher:    searcher,
		sections: []searchSection{{
			heading: "Top tourist attractions in %s",
			query:   "As a travel planner, give me the top tourist attractions in and around %s, with descriptions, reasons for popularity, and any ticket or timing info.",
		}},
	}
}

func NewSearchRestaurantsTool(searcher PlaceSearcher) PlaceSearchTool {
	return PlaceSearchTool{
		name:        "search_restaurants",
		description: "Find the best vegetarian and non-vegetarian restaurants in a place with popular dishes",
		searcher:    searcher,
		sections: []searchSection{
			{
				heading: "Vegetarian restaurants in %s",
				query:   "List the best vegetarian restaurants in and around %s. Include local dishes they are known for and user recommendations.",
			},
			{
				heading: "Non-vegetarian restaurants in %s",
				query:   "What are the best non-vegetarian restaurants in and around %s? Mention top dishes, cuisines, and chef specialties if any.",
			},
		},
	}
}

func NewSearchActivitiesTool(searcher PlaceSearcher) PlaceSearchTool {
	return PlaceSearchTool{
		name:        "search_activities",
		description: "Suggest must-try cultural, adventure and local experiences for travelers in a place",
		searcher:    searcher,
		sections: []searchSection{{
			heading: "Activities and experiences in %s",
			query:   "What are the best cultural, adventure, and local activities that a traveler must try in %s?",
		}},
	}
}

func NewSearchTransportationTool(searcher PlaceSearcher) PlaceSearchTool {
	return PlaceSearchTool{
		name:        "search_transportation",
		description: "List the transportation options available to tourists in a place",
		searcher:    searcher,
		sections: []searchSection{{
			heading: "Transportation options in %s",
			query:   "What are the different modes of transportation in %s for tourists, including local transit, cabs, and long-distance travel options?",
		}},
	}
}
