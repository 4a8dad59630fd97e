package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Uday-Parmar07/AI-Trip-Planner/models"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type DispatchState string

const (
	StateAwaitingModel  DispatchState = "awaiting_model"
	StateExecutingTools DispatchState = "executing_tools"
	StateDone           DispatchState = "done"
	StateFailed         DispatchState = "failed"
)

const (
	DefaultMaxRounds        = 8
	DefaultMaxParallelTools = 4
	DefaultModelTimeout     = 60 * time.Second
	DefaultToolTimeout      = 20 * time.Second
)

// DispatchRun is the working state of one loop execution. It is owned by a
// single request and never persisted.
type DispatchRun struct {
	Turns     []models.AgentMessage
	Rounds    int
	ToolCalls int
	State     DispatchState
	Answer    string
	Err       error

	seenIDs map[string]struct{}
}

func (r *DispatchRun) fail(err error) (*DispatchRun, error) {
	r.State = StateFailed
	r.Err = err
	return r, err
}

type DispatcherConfig struct {
	MaxRounds        int
	MaxParallelTools int
	ModelTimeout     time.Duration
	ToolTimeout      time.Duration
}

type Dispatcher struct {
	model    ModelClient
	registry *Registry
	cfg      DispatcherConfig
}

func NewDispatcher(model ModelClient, registry *Registry, cfg DispatcherConfig) *Dispatcher {
	if cfg.MaxRounds < 1 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.MaxParallelTools < 1 {
		cfg.MaxParallelTools = DefaultMaxParallelTools
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = DefaultModelTimeout
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = DefaultToolTimeout
	}
	return &Dispatcher{model: model, registry: registry, cfg: cfg}
}

// Run drives the conversation until the model gives a final answer. The
// model is asked at most MaxRounds times; a tool batch returned on the last
// round fails the run with ErrRoundLimitExceeded without being executed.
func (d *Dispatcher) Run(ctx context.Context, turns []models.AgentMessage) (*DispatchRun, error) {
	run := &DispatchRun{
		Turns:   append([]models.AgentMessage(nil), turns...),
		State:   StateAwaitingModel,
		seenIDs: map[string]struct{}{},
	}
	tools := d.registry.Descriptors()

	for {
		if err := ctx.Err(); err != nil {
			return run.fail(err)
		}

		run.Rounds++
		log.Printf("[INFO] Dispatch round %d/%d with %d turns", run.Rounds, d.cfg.MaxRounds, len(run.Turns))

		completion, err := d.complete(ctx, run.Turns, tools)
		if err != nil {
			log.Printf("[ERROR] Dispatch round %d failed: %v", run.Rounds, err)
			return run.fail(err)
		}

		calls := run.assignCallIDs(completion.ToolCalls)
		run.Turns = append(run.Turns, models.AgentMessage{
			Role:      models.RoleAssistant,
			Content:   completion.Text,
			ToolCalls: calls,
		})

		if completion.IsFinal() {
			run.State = StateDone
			run.Answer = completion.Text
			return run, nil
		}

		if run.Rounds >= d.cfg.MaxRounds {
			err := fmt.Errorf("%w: model still requested %d tool call(s) after %d rounds", ErrRoundLimitExceeded, len(calls), run.Rounds)
			log.Printf("[ERROR] %v", err)
			return run.fail(err)
		}

		run.State = StateExecutingTools
		results, err := d.executeTools(ctx, calls)
		if err != nil {
			return run.fail(err)
		}
		for _, result := range results {
			run.Turns = append(run.Turns, models.NewToolMessage(result))
		}
		run.ToolCalls += len(results)
		run.State = StateAwaitingModel
	}
}

func (d *Dispatcher) complete(ctx context.Context, turns []models.AgentMessage, tools []ToolDescriptor) (*Completion, error) {
	mctx, cancel := context.WithTimeout(ctx, d.cfg.ModelTimeout)
	defer cancel()

	completion, err := d.model.Complete(mctx, turns, tools)
	if err != nil {
		if errors.Is(err, ErrModelUnavailable) || errors.Is(err, ErrModelProtocol) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	if completion == nil {
		return nil, fmt.Errorf("%w: empty completion", ErrModelProtocol)
	}
	if completion.IsFinal() && completion.Text == "" {
		return nil, fmt.Errorf("%w: completion has neither text nor tool calls", ErrModelProtocol)
	}
	return completion, nil
}

// assignCallIDs gives every call an ID that is unique within the run.
func (r *DispatchRun) assignCallIDs(calls []models.ToolCall) []models.ToolCall {
	out := make([]models.ToolCall, len(calls))
	for i, call := range calls {
		if _, dup := r.seenIDs[call.ID]; call.ID == "" || dup {
			call.ID = "call_" + uuid.NewString()
		}
		r.seenIDs[call.ID] = struct{}{}
		out[i] = call
	}
	return out
}

// executeTools runs a batch concurrently and returns one result per call in
// batch order. Tool failures are encoded in the results; only cancellation
// of ctx is returned as an error.
func (d *Dispatcher) executeTools(ctx context.Context, calls []models.ToolCall) ([]models.ToolResult, error) {
	log.Printf("[INFO] Executing %d tool call(s): %v", len(calls),
		lo.Map(calls, func(c models.ToolCall, _ int) string { return c.Name }))

	results := make([]models.ToolResult, len(calls))

	var g errgroup.Group
	g.SetLimit(d.cfg.MaxParallelTools)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = d.invokeTool(ctx, call)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

type toolOutcome struct {
	content string
	err     error
}

func (d *Dispatcher) invokeTool(ctx context.Context, call models.ToolCall) models.ToolResult {
	tctx, cancel := context.WithTimeout(ctx, d.cfg.ToolTimeout)
	defer cancel()

	start := time.Now()
	log.Printf("[INFO] Executing tool: %s with arguments: %v", call.Name, call.Arguments)

	done := make(chan toolOutcome, 1)
	go func() {
		content, err := d.registry.Invoke(tctx, call.Name, call.Arguments)
		done <- toolOutcome{content: content, err: err}
	}()

	var outcome toolOutcome
	select {
	case outcome = <-done:
	case <-tctx.Done():
		outcome.err = fmt.Errorf("%w: %s: %v", ErrToolExecution, call.Name, tctx.Err())
	}

	result := models.ToolResult{ToolCallID: call.ID, Name: call.Name, Content: outcome.content}
	if outcome.err != nil {
		log.Printf("[ERROR] Tool execution failed after %s: %v", time.Since(start), outcome.err)
		result.Content = fmt.Sprintf("Error: %v", outcome.err)
		result.IsError = true
		return result
	}

	log.Printf("[INFO] Tool %s completed in %s (%d chars)", call.Name, time.Since(start), len(outcome.content))
	return result
}
