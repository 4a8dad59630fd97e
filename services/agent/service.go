package agent

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"
)

const MaxQuestionLength = 1000

type Options struct {
	SystemPrompt     string
	MaxRounds        int
	MaxParallelTools int
	ModelTimeout     time.Duration
	ToolTimeout      time.Duration
}

type Service struct {
	dispatcher   *Dispatcher
	systemPrompt string
}

type QueryResult struct {
	Answer         string
	ProcessingTime time.Duration
	Rounds         int
	ToolCalls      int
}

func NewService(model ModelClient, registry *Registry, opts Options) *Service {
	prompt := opts.SystemPrompt
	if prompt == "" {
		prompt = TravelAgentSystemPrompt
	}

	return &Service{
		dispatcher: NewDispatcher(model, registry, DispatcherConfig{
			MaxRounds:        opts.MaxRounds,
			MaxParallelTools: opts.MaxParallelTools,
			ModelTimeout:     opts.ModelTimeout,
			ToolTimeout:      opts.ToolTimeout,
		}),
		systemPrompt: prompt,
	}
}

// ProcessQuery answers one travel question. The question is trimmed and must
// be 1 to MaxQuestionLength characters.
func (s *Service) ProcessQuery(ctx context.Context, question string, details *models.TripDetails) (*QueryResult, error) {
	if s == nil || s.dispatcher == nil {
		return nil, ErrNotInitialized
	}

	question, err := ValidateQuestion(question)
	if err != nil {
		log.Printf("[ERROR] Query validation failed: %v", err)
		return nil, err
	}

	log.Printf("[INFO] Processing query: %.100s", question)

	turns := []models.AgentMessage{
		models.NewSystemMessage(s.systemPrompt),
		models.NewUserMessage(buildUserMessage(question, details)),
	}

	start := time.Now()
	run, err := s.dispatcher.Run(ctx, turns)
	elapsed := max(time.Since(start), time.Microsecond)
	if err != nil {
		log.Printf("[ERROR] Query failed after %s and %d round(s): %v", elapsed, run.Rounds, err)
		return nil, err
	}

	log.Printf("[INFO] Query processed successfully in %.2fs (%d rounds, %d tool calls)",
		elapsed.Seconds(), run.Rounds, run.ToolCalls)

	return &QueryResult{
		Answer:         run.Answer,
		ProcessingTime: elapsed,
		Rounds:         run.Rounds,
		ToolCalls:      run.ToolCalls,
	}, nil
}

func ValidateQuestion(question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question cannot be empty", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(question); n > MaxQuestionLength {
		return "", fmt.Errorf("%w: question is %d characters, maximum is %d", ErrInvalidInput, n, MaxQuestionLength)
	}
	return question, nil
}

func buildUserMessage(question string, details *models.TripDetails) string {
	if details == nil {
		return question
	}

	fields := []struct{ label, value string }{
		{"Origin", details.Origin},
		{"Destination", details.Destination},
		{"Travel dates", details.TravelDates},
		{"Duration", details.Duration},
		{"Budget", details.Budget},
		{"Accommodation", details.Accommodation},
		{"Trip type", details.TripType},
		{"Transportation", details.Transportation},
	}
	if details.NumberOfPeople != nil {
		fields = append(fields, struct{ label, value string }{"Number of people", strconv.Itoa(*details.NumberOfPeople)})
	}

	var b strings.Builder
	for _, f := range fields {
		if v := strings.TrimSpace(f.value); v != "" {
			fmt.Fprintf(&b, "- %s: %s\n", f.label, v)
		}
	}
	if b.Len() == 0 {
		return question
	}
	return question + "\n\nTrip preferences:\n" + strings.TrimRight(b.String(), "\n")
}
